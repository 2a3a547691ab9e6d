// Package normalize validates raw place, preference and weather records
// and coerces them into the typed domain representation. It is the only
// layer that applies documented defaults; scoring never sees raw input.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
)

// ValidationError reports a missing or malformed field on a raw record.
type ValidationError struct {
	Field string
	Value any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q is missing", e.Field)
	}
	return fmt.Sprintf("field %q has invalid value %v", e.Field, e.Value)
}

// Defaults applied to secondary preference fields absent from a stored
// profile. Neutral midpoints, except the walk limit which stays at a
// conservative 1 km.
const (
	DefaultActiveLevel  = 0.5
	DefaultRomanticPref = 0.5
	DefaultNoisePref    = 0.5
	DefaultBudgetPref   = 2
	DefaultWalkLimitKm  = 1.0
)

// Row widens a CSV record so the same normalizers serve CSV and JSON
// input. Empty cells are dropped so they count as absent.
func Row(rec map[string]string) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Place validates one raw place record. All scoring attributes are
// required; out-of-range values fail rather than being clamped.
func Place(rec map[string]any) (domain.Place, error) {
	var p domain.Place
	var err error

	if p.Name, err = reqString(rec, "name"); err != nil {
		return domain.Place{}, err
	}
	typ, err := reqString(rec, "type")
	if err != nil {
		return domain.Place{}, err
	}
	p.Type = domain.PlaceType(typ)
	if p.District, err = reqString(rec, "district"); err != nil {
		return domain.Place{}, err
	}
	if p.Indoor, err = reqBool(rec, "indoor"); err != nil {
		return domain.Place{}, err
	}
	if p.Noise, err = reqInt(rec, "noise", 1, 5); err != nil {
		return domain.Place{}, err
	}
	if p.Romantic, err = reqInt(rec, "romantic", 1, 5); err != nil {
		return domain.Place{}, err
	}
	if p.BudgetLevel, err = reqInt(rec, "budget_level", 0, 4); err != nil {
		return domain.Place{}, err
	}
	if p.WalkScore, err = reqInt(rec, "walk_score", 0, math.MaxInt); err != nil {
		return domain.Place{}, err
	}
	if p.AlcoholAvailable, err = reqBool(rec, "alcohol_available"); err != nil {
		return domain.Place{}, err
	}
	if p.ExtrovertFriendly, err = reqBool(rec, "extrovert_friendly"); err != nil {
		return domain.Place{}, err
	}

	p.ID = optString(rec, "place_id", "")
	p.Tags = optString(rec, "tags", "")
	if p.Lat, err = optFloat(rec, "lat", 0); err != nil {
		return domain.Place{}, err
	}
	if p.Lon, err = optFloat(rec, "lon", 0); err != nil {
		return domain.Place{}, err
	}
	return p, nil
}

// Preference validates a direct-mode preference payload. The secondary
// weather-aware fields are optional and default to neutral midpoints.
func Preference(rec map[string]any) (domain.Preference, error) {
	var pref domain.Preference
	var err error

	if pref.Personality, err = reqString(rec, "personality"); err != nil {
		return domain.Preference{}, err
	}
	if pref.Personality != domain.PersonalityExtrovert && pref.Personality != domain.PersonalityIntrovert {
		return domain.Preference{}, &ValidationError{Field: "personality", Value: pref.Personality}
	}
	if pref.Drinking, err = reqBool(rec, "drinking"); err != nil {
		return domain.Preference{}, err
	}
	if pref.Active, err = reqUnitFloat(rec, "active"); err != nil {
		return domain.Preference{}, err
	}
	if pref.Noise, err = reqUnitFloat(rec, "noise"); err != nil {
		return domain.Preference{}, err
	}
	if pref.Romantic, err = reqUnitFloat(rec, "romantic"); err != nil {
		return domain.Preference{}, err
	}
	if pref.Budget, err = reqInt(rec, "budget", 0, 4); err != nil {
		return domain.Preference{}, err
	}
	if pref.Walk, err = reqInt(rec, "walk", 0, math.MaxInt); err != nil {
		return domain.Preference{}, err
	}
	pref.District = optString(rec, "district", "")

	if err = fillSecondary(&pref, rec); err != nil {
		return domain.Preference{}, err
	}
	return pref, nil
}

// Profile validates a stored weather-aware profile row. Only the
// personality is required; every secondary field falls back to its
// documented default.
func Profile(rec map[string]any) (domain.Preference, error) {
	var pref domain.Preference
	var err error

	if pref.Personality, err = reqString(rec, "personality_type"); err != nil {
		// Some exports use "personality" instead.
		if pref.Personality, err = reqString(rec, "personality"); err != nil {
			return domain.Preference{}, err
		}
	}
	if pref.Personality != domain.PersonalityExtrovert && pref.Personality != domain.PersonalityIntrovert {
		return domain.Preference{}, &ValidationError{Field: "personality_type", Value: pref.Personality}
	}
	if err = fillSecondary(&pref, rec); err != nil {
		return domain.Preference{}, err
	}
	return pref, nil
}

func fillSecondary(pref *domain.Preference, rec map[string]any) error {
	var err error
	if pref.ActiveLevel, err = optFloat(rec, "active_level", DefaultActiveLevel); err != nil {
		return err
	}
	if pref.RomanticPref, err = optFloat(rec, "romantic_pref", DefaultRomanticPref); err != nil {
		return err
	}
	if pref.NoisePref, err = optFloat(rec, "noise_pref", DefaultNoisePref); err != nil {
		return err
	}
	if pref.BudgetPref, err = optInt(rec, "budget_pref", DefaultBudgetPref); err != nil {
		return err
	}
	if pref.WalkLimitKm, err = optFloat(rec, "walk_limit_km", DefaultWalkLimitKm); err != nil {
		return err
	}
	return nil
}

// Weather validates a raw forecast record. Every numeric field is
// optional and reads as 0 when absent or null.
func Weather(rec map[string]any) (domain.WeatherSnapshot, error) {
	var w domain.WeatherSnapshot
	var err error

	w.Date = optString(rec, "date", "")
	if w.TempMax, err = optFloat(rec, "temp_max", 0); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	if w.TempMin, err = optFloat(rec, "temp_min", 0); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	if w.PrecipMM, err = optFloat(rec, "precip_mm", 0); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	if w.WindMaxMPS, err = optFloat(rec, "wind_max_mps", 0); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	if w.CloudMean, err = optFloat(rec, "cloud_mean", 0); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	if w.WeatherCode, err = optInt(rec, "weathercode", 0); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	return w, nil
}

func reqString(rec map[string]any, field string) (string, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return "", &ValidationError{Field: field}
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", &ValidationError{Field: field, Value: v}
	}
	return strings.TrimSpace(s), nil
}

func optString(rec map[string]any, field, def string) string {
	if s, ok := rec[field].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}

func reqInt(rec map[string]any, field string, min, max int) (int, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return 0, &ValidationError{Field: field}
	}
	n, err := toInt(v)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: v}
	}
	if n < min || n > max {
		return 0, &ValidationError{Field: field, Value: v}
	}
	return n, nil
}

func optInt(rec map[string]any, field string, def int) (int, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: v}
	}
	return n, nil
}

func reqUnitFloat(rec map[string]any, field string) (float64, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return 0, &ValidationError{Field: field}
	}
	f, err := toFloat(v)
	if err != nil || f < 0 || f > 1 {
		return 0, &ValidationError{Field: field, Value: v}
	}
	return f, nil
}

func optFloat(rec map[string]any, field string, def float64) (float64, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return def, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: v}
	}
	return f, nil
}

func reqBool(rec map[string]any, field string) (bool, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return false, &ValidationError{Field: field}
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "1":
			return true, nil
		case "no", "0":
			return false, nil
		}
	default:
		if n, err := toInt(v); err == nil {
			switch n {
			case 1:
				return true, nil
			case 0:
				return false, nil
			}
		}
	}
	return false, &ValidationError{Field: field, Value: v}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("not an integer: %v", t)
		}
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}
