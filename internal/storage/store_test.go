package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
)

const placesCSV = `place_id,name,type,district,lat,lon,indoor,noise,romantic,budget_level,walk_score,alcohol_available,extrovert_friendly,tags
p001,스타벅스 광화문점,cafe,종로구,37.57,126.97,1,3,2,2,1,no,yes,프랜차이즈 작업 실내
p002,어니언 안국,cafe,종로구,37.58,126.98,1,2,3,3,2,no,no,베이커리 감성 데이트
p003,서울숲,park,성동구,37.54,127.04,0,2,4,0,4,no,yes,피크닉 산책
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "places.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.EnsureSchema())
	return store
}

func TestLoadPlacesCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "places.csv", placesCSV)

	places, err := LoadPlacesCSV(path)
	require.NoError(t, err)
	require.Len(t, places, 3)

	assert.Equal(t, "p001", places[0].ID)
	assert.Equal(t, domain.TypeCafe, places[0].Type)
	assert.True(t, places[0].Indoor)
	assert.False(t, places[2].Indoor)
	assert.Equal(t, "피크닉 산책", places[2].Tags)
}

func TestLoadPlacesCSVMalformedRowFailsWholeLoad(t *testing.T) {
	bad := `place_id,name,type,district,indoor,noise,romantic,budget_level,walk_score,alcohol_available,extrovert_friendly,tags
p001,어딘가,cafe,종로구,1,,3,2,1,no,yes,
`
	path := writeFile(t, t.TempDir(), "places.csv", bad)

	_, err := LoadPlacesCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noise")
}

func TestLoadPlacesJSON(t *testing.T) {
	content := `[
  {"place_id":"p001","name":"남산 전망대","type":"viewpoint","district":"용산구",
   "indoor":0,"noise":3,"romantic":5,"budget_level":1,"walk_score":5,
   "alcohol_available":"no","extrovert_friendly":"yes","tags":"야경"}
]`
	path := writeFile(t, t.TempDir(), "places.json", content)

	places, err := LoadPlacesJSON(path)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, domain.TypeViewpoint, places[0].Type)
	assert.Equal(t, 5, places[0].Romantic)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	path := writeFile(t, t.TempDir(), "places.csv", placesCSV)
	places, err := LoadPlacesCSV(path)
	require.NoError(t, err)

	require.NoError(t, store.UpsertMany(places))
	// Re-seeding must not duplicate.
	require.NoError(t, store.UpsertMany(places))

	n, err := store.CountPlaces()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := store.AllPlaces()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "p001", all[0].ID, "AllPlaces must keep stable place_id order")
	assert.Equal(t, places[1], all[1])

	p, ok, err := store.GetPlace("p003")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "서울숲", p.Name)

	_, ok, err = store.GetPlace("p999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStoreListFilters(t *testing.T) {
	store := openTestStore(t)
	path := writeFile(t, t.TempDir(), "places.csv", placesCSV)
	places, err := LoadPlacesCSV(path)
	require.NoError(t, err)
	require.NoError(t, store.UpsertMany(places))

	items, total, err := store.ListPlaces(10, 0, "종로구", "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)

	items, total, err = store.ListPlaces(10, 0, "", domain.TypePark)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "서울숲", items[0].Name)

	items, total, err = store.ListPlaces(1, 1, "종로구", domain.TypeCafe)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "p002", items[0].ID)
}

func TestLoadProfile(t *testing.T) {
	profilesCSV := `user_id,personality_type,active_level,romantic_pref,noise_pref,budget_pref,walk_limit_km
u001,introvert,0.3,0.8,0.2,3,2.0
u002,extrovert,,,,,
`
	path := writeFile(t, t.TempDir(), "profiles.csv", profilesCSV)

	pref, err := LoadProfile(path, "u001")
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, domain.PersonalityIntrovert, pref.Personality)
	assert.Equal(t, 0.8, pref.RomanticPref)
	assert.Equal(t, 3, pref.BudgetPref)

	// Blank cells take the documented defaults.
	pref, err = LoadProfile(path, "u002")
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, 0.5, pref.ActiveLevel)
	assert.Equal(t, 2, pref.BudgetPref)
	assert.Equal(t, 1.0, pref.WalkLimitKm)

	pref, err = LoadProfile(path, "u999")
	require.NoError(t, err)
	assert.Nil(t, pref)
}

func TestWeatherFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weather_today.json")

	missing, err := LoadWeatherFile(path)
	require.NoError(t, err)
	assert.Nil(t, missing, "missing snapshot is not an error")

	w := domain.WeatherSnapshot{Date: "2026-08-30", TempMax: 28, TempMin: 21, PrecipMM: 5.5, WindMaxMPS: 3.2}
	require.NoError(t, SaveWeatherFile(path, w))

	got, err := LoadWeatherFile(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, w, *got)
}
