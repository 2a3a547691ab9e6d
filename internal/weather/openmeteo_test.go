package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDaily(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "daily": {
    "time": ["2026-08-30"],
    "weathercode": [61],
    "temperature_2m_max": [27.4],
    "temperature_2m_min": [21.1],
    "precipitation_sum": [4.2],
    "windspeed_10m_max": [5.6],
    "cloudcover_mean": [88.0]
  }
}`))
	}))
	defer ts.Close()

	c := NewClient(37.5665, 126.9780, "Asia/Seoul").WithBaseURL(ts.URL)
	w, err := c.FetchDaily(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-08-30", w.Date)
	assert.Equal(t, 61, w.WeatherCode)
	assert.Equal(t, 27.4, w.TempMax)
	assert.Equal(t, 21.1, w.TempMin)
	assert.Equal(t, 4.2, w.PrecipMM)
	assert.Equal(t, 5.6, w.WindMaxMPS)
	assert.InDelta(t, 24.25, w.Feels(), 1e-9)

	assert.Contains(t, gotQuery, "latitude=37.5665")
	assert.Contains(t, gotQuery, "timezone=Asia%2FSeoul")
}

func TestFetchDailyNullValuesReadAsZero(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily":{"time":["2026-08-30"],"precipitation_sum":[null],"windspeed_10m_max":[null]}}`))
	}))
	defer ts.Close()

	c := NewClient(37.5665, 126.9780, "Asia/Seoul").WithBaseURL(ts.URL)
	w, err := c.FetchDaily(context.Background())
	require.NoError(t, err)
	assert.Zero(t, w.PrecipMM)
	assert.Zero(t, w.WindMaxMPS)
	assert.Zero(t, w.TempMax)
}

func TestFetchDailyUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewClient(37.5665, 126.9780, "Asia/Seoul").WithBaseURL(ts.URL)
	_, err := c.FetchDaily(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
