// Package digest runs the daily weather-aware batch: load the catalog,
// the stored profile and the day's forecast, rank, and write the top-N
// JSON consumed by the page generator.
package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
	"github.com/haneul-kim/date-spot-recommender/internal/recommend"
	"github.com/haneul-kim/date-spot-recommender/internal/storage"
)

// ForecastFetcher pulls today's forecast from the upstream API.
type ForecastFetcher interface {
	FetchDaily(ctx context.Context) (domain.WeatherSnapshot, error)
}

// Entry is one line of the digest output file.
type Entry struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

type Builder struct {
	Engine      *recommend.Engine
	PlacesCSV   string
	ProfilesCSV string
	UserID      string
	WeatherFile string
	OutputPath  string
	TopN        int

	// Optional. When set, the forecast is fetched and saved to
	// WeatherFile before scoring; otherwise WeatherFile is read as-is.
	Fetcher ForecastFetcher
}

// Run executes one digest build. A missing profile or weather snapshot
// degrades the scoring; a malformed place record aborts the run.
func (b *Builder) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log.Info().Str("run_id", runID).Str("user_id", b.UserID).Msg("digest run started")

	wx, err := b.loadWeather(ctx)
	if err != nil {
		return err
	}
	if wx == nil {
		log.Warn().Str("run_id", runID).Msg("no weather snapshot, scoring on preferences only")
	}

	pref, err := b.loadProfile()
	if err != nil {
		return err
	}
	if pref == nil {
		log.Warn().Str("run_id", runID).Str("user_id", b.UserID).Msg("no stored profile, using neutral preference fit")
	}

	places, err := storage.LoadPlacesCSV(b.PlacesCSV)
	if err != nil {
		return fmt.Errorf("load places: %w", err)
	}

	ranked := b.Engine.Recommend(places, pref, wx, b.TopN)

	entries := make([]Entry, 0, len(ranked))
	for _, sp := range ranked {
		entries = append(entries, Entry{
			Name:   sp.Place.Name,
			Type:   string(sp.Place.Type),
			Score:  recommend.Round3(sp.Score),
			Reason: sp.Reason,
		})
	}

	if err := writeJSON(b.OutputPath, entries); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}

	log.Info().Str("run_id", runID).Int("places", len(places)).Int("selected", len(entries)).
		Str("output", b.OutputPath).Msg("digest run finished")
	return nil
}

func (b *Builder) loadWeather(ctx context.Context) (*domain.WeatherSnapshot, error) {
	if b.Fetcher != nil {
		w, err := b.Fetcher.FetchDaily(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch weather: %w", err)
		}
		if b.WeatherFile != "" {
			if err := storage.SaveWeatherFile(b.WeatherFile, w); err != nil {
				return nil, fmt.Errorf("save weather: %w", err)
			}
		}
		return &w, nil
	}
	if b.WeatherFile == "" {
		return nil, nil
	}
	return storage.LoadWeatherFile(b.WeatherFile)
}

func (b *Builder) loadProfile() (*domain.Preference, error) {
	if b.ProfilesCSV == "" || b.UserID == "" {
		return nil, nil
	}
	pref, err := storage.LoadProfile(b.ProfilesCSV, b.UserID)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return pref, nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
