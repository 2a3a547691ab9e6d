// Package weather fetches the daily forecast from the Open-Meteo API
// and reduces it to the snapshot the scoring engine consumes.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
)

const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

type Client struct {
	baseURL    string
	httpClient *http.Client
	latitude   float64
	longitude  float64
	timezone   string
}

func NewClient(latitude, longitude float64, timezone string) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		latitude:   latitude,
		longitude:  longitude,
		timezone:   timezone,
	}
}

// WithBaseURL points the client at an alternate endpoint. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

type forecastResponse struct {
	Daily struct {
		Time        []string   `json:"time"`
		WeatherCode []*int     `json:"weathercode"`
		TempMax     []*float64 `json:"temperature_2m_max"`
		TempMin     []*float64 `json:"temperature_2m_min"`
		PrecipSum   []*float64 `json:"precipitation_sum"`
		WindMax     []*float64 `json:"windspeed_10m_max"`
		CloudMean   []*float64 `json:"cloudcover_mean"`
	} `json:"daily"`
}

// FetchDaily returns today's aggregated forecast for the configured
// location. Missing daily values read as 0.
func (c *Client) FetchDaily(ctx context.Context) (domain.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(c.longitude, 'f', 4, 64))
	q.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min,precipitation_sum,windspeed_10m_max,cloudcover_mean")
	q.Set("timezone", c.timezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return domain.WeatherSnapshot{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.WeatherSnapshot{}, fmt.Errorf("forecast request failed: status %d: %s", resp.StatusCode, body)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("decode forecast: %w", err)
	}

	w := domain.WeatherSnapshot{
		Date:        firstString(fr.Daily.Time),
		WeatherCode: firstInt(fr.Daily.WeatherCode),
		TempMax:     firstFloat(fr.Daily.TempMax),
		TempMin:     firstFloat(fr.Daily.TempMin),
		PrecipMM:    firstFloat(fr.Daily.PrecipSum),
		WindMaxMPS:  firstFloat(fr.Daily.WindMax),
		CloudMean:   firstFloat(fr.Daily.CloudMean),
	}
	if w.Date == "" {
		w.Date = time.Now().Format("2006-01-02")
	}
	return w, nil
}

func firstString(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

func firstFloat(vs []*float64) float64 {
	if len(vs) == 0 || vs[0] == nil {
		return 0
	}
	return *vs[0]
}

func firstInt(vs []*int) int {
	if len(vs) == 0 || vs[0] == nil {
		return 0
	}
	return *vs[0]
}
