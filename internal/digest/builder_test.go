package digest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
	"github.com/haneul-kim/date-spot-recommender/internal/recommend"
)

const placesCSV = `place_id,name,type,district,indoor,noise,romantic,budget_level,walk_score,alcohol_available,extrovert_friendly,tags
p001,스타벅스 광화문점,cafe,종로구,1,3,2,2,1,no,yes,프랜차이즈
p002,서울숲,park,성동구,0,2,4,0,4,no,yes,피크닉
p003,남산 둘레길,trail,용산구,0,2,5,0,5,no,no,산책
p004,국립현대미술관,museum,종로구,1,1,4,1,2,no,no,전시
`

const profilesCSV = `user_id,personality_type,active_level,romantic_pref,noise_pref,budget_pref,walk_limit_km
u001,introvert,0.4,0.8,0.2,2,2.0
`

type stubFetcher struct {
	snapshot domain.WeatherSnapshot
	calls    int
}

func (s *stubFetcher) FetchDaily(ctx context.Context) (domain.WeatherSnapshot, error) {
	s.calls++
	return s.snapshot, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newBuilder(t *testing.T, dir string) *Builder {
	t.Helper()
	return &Builder{
		Engine:      recommend.NewEngine(recommend.DefaultConfig()),
		PlacesCSV:   writeFile(t, dir, "places.csv", placesCSV),
		ProfilesCSV: writeFile(t, dir, "profiles.csv", profilesCSV),
		UserID:      "u001",
		WeatherFile: filepath.Join(dir, "weather_today.json"),
		OutputPath:  filepath.Join(dir, "tmp_top3.json"),
		TopN:        3,
	}
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []Entry
	require.NoError(t, json.Unmarshal(b, &entries))
	return entries
}

func TestRunWithFetchedWeather(t *testing.T) {
	dir := t.TempDir()
	b := newBuilder(t, dir)
	fetcher := &stubFetcher{snapshot: domain.WeatherSnapshot{Date: "2026-08-30", PrecipMM: 6.0, TempMax: 24, TempMin: 18}}
	b.Fetcher = fetcher

	require.NoError(t, b.Run(context.Background()))
	assert.Equal(t, 1, fetcher.calls)

	entries := readEntries(t, b.OutputPath)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Score, entries[i].Score)
	}
	for _, e := range entries {
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Type)
		assert.NotEmpty(t, e.Reason)
	}

	// Rain on the snapshot must favor the indoor venues.
	assert.True(t, entries[0].Type == "cafe" || entries[0].Type == "museum",
		"rainy digest should lead with an indoor place, got %s", entries[0].Type)

	// The fetched snapshot is persisted for offline reruns.
	_, err := os.Stat(b.WeatherFile)
	assert.NoError(t, err)
}

func TestRunOfflineUsesSavedSnapshot(t *testing.T) {
	dir := t.TempDir()
	b := newBuilder(t, dir)
	writeFile(t, dir, "weather_today.json", `{"date":"2026-08-30","temp_max":22,"temp_min":14,"precip_mm":0,"wind_max_mps":2}`)

	require.NoError(t, b.Run(context.Background()))

	// Mild dry day: outdoor leisure places get the temperature bonus.
	entries := readEntries(t, b.OutputPath)
	require.Len(t, entries, 3)
	assert.Contains(t, []string{"park", "trail"}, entries[0].Type)
}

func TestRunWithoutWeatherDegrades(t *testing.T) {
	dir := t.TempDir()
	b := newBuilder(t, dir)
	// No fetcher and no saved file: preference-direct scoring applies.

	require.NoError(t, b.Run(context.Background()))
	entries := readEntries(t, b.OutputPath)
	assert.NotEmpty(t, entries)
	assert.LessOrEqual(t, len(entries), 3)
}

func TestRunWithoutProfileUsesNeutralFit(t *testing.T) {
	dir := t.TempDir()
	b := newBuilder(t, dir)
	b.UserID = "u999"
	writeFile(t, dir, "weather_today.json", `{"date":"2026-08-30","precip_mm":8.0}`)

	require.NoError(t, b.Run(context.Background()))
	entries := readEntries(t, b.OutputPath)
	require.Len(t, entries, 3)
	// With a neutral preference fit the ranking is weather-only:
	// indoor places outrank outdoor ones on a rainy day.
	assert.Contains(t, []string{"cafe", "museum"}, entries[0].Type)
	assert.Contains(t, []string{"cafe", "museum"}, entries[1].Type)
}

func TestRunMalformedPlaceAborts(t *testing.T) {
	dir := t.TempDir()
	b := newBuilder(t, dir)
	b.PlacesCSV = writeFile(t, dir, "bad_places.csv",
		`place_id,name,type,district,indoor,noise,romantic,budget_level,walk_score,alcohol_available,extrovert_friendly,tags
p001,어딘가,cafe,종로구,1,9,3,2,1,no,yes,
`)

	err := b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noise")
	_, statErr := os.Stat(b.OutputPath)
	assert.True(t, os.IsNotExist(statErr), "no partial output on failure")
}
