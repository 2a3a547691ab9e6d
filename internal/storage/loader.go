package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
	"github.com/haneul-kim/date-spot-recommender/internal/normalize"
)

// LoadPlacesCSV reads the place catalog from a CSV export. Every row
// passes through the normalizer; a malformed row fails the whole load.
func LoadPlacesCSV(path string) ([]domain.Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open places file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read places header: %w", err)
	}

	var out []domain.Place
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read places row: %w", err)
		}
		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		p, err := normalize.Place(normalize.Row(rec))
		if err != nil {
			return nil, fmt.Errorf("places row %d: %w", line, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadPlacesJSON reads the place catalog from a JSON array of raw
// records, applying the same normalization as the CSV path.
func LoadPlacesJSON(path string) ([]domain.Place, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read places file: %w", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal places: %w", err)
	}
	out := make([]domain.Place, 0, len(raw))
	for i, rec := range raw {
		p, err := normalize.Place(rec)
		if err != nil {
			return nil, fmt.Errorf("places entry %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadProfile finds one stored preference profile by user id.
// Returns nil when the user has no profile.
func LoadProfile(path, userID string) (*domain.Preference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read profiles header: %w", err)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read profiles row: %w", err)
		}
		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		if rec["user_id"] != userID {
			continue
		}
		pref, err := normalize.Profile(normalize.Row(rec))
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", userID, err)
		}
		return &pref, nil
	}
}

// LoadWeatherFile reads a saved daily forecast snapshot. A missing file
// is not an error; the caller falls back to preference-only scoring.
func LoadWeatherFile(path string) (*domain.WeatherSnapshot, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read weather file: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal weather: %w", err)
	}
	w, err := normalize.Weather(raw)
	if err != nil {
		return nil, fmt.Errorf("weather snapshot: %w", err)
	}
	return &w, nil
}

// SaveWeatherFile writes the snapshot for later offline digest runs.
func SaveWeatherFile(path string, w domain.WeatherSnapshot) error {
	b, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
