package recommend

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
)

// FactorFunc computes one named sub-score for a place. Results are
// clamped to [0,1] by the engine before weighting.
type FactorFunc func(p domain.Place, pref domain.Preference) float64

// Factor is one weighted term of a score table.
type Factor struct {
	Name   string
	Weight float64
	Score  FactorFunc
}

// ReasonRule emits Label when the named sub-score exceeds Threshold.
// Rules are evaluated in order; every matching label is attached.
type ReasonRule struct {
	Factor    string
	Threshold float64
	Label     string
}

// WeatherRules holds the thresholds and adjustments of the weather fit.
// Adjustments accumulate and the result is clamped to [-1,1].
type WeatherRules struct {
	RainThresholdMM    float64
	IndoorRainBonus    float64
	OutdoorRainPenalty float64
	WindThresholdMPS   float64
	WindPenalty        float64
	WindSensitiveTypes []domain.PlaceType
	MildFeelsMin       float64
	MildFeelsMax       float64
	MildOutdoorBonus   float64
	OutdoorTypes       []domain.PlaceType
}

// Sub-score names shared between the score tables and the reason rules.
const (
	FactorLocation    = "location"
	FactorPersonality = "personality"
	FactorDrinking    = "drinking"
	FactorActivity    = "activity"
	FactorNoise       = "noise"
	FactorRomantic    = "romantic"
	FactorBudget      = "budget"
	FactorWalk        = "walk"
	FactorOutdoor     = "outdoor"

	FactorWeatherFit    = "weather_fit"
	FactorPreferenceFit = "preference_fit"
)

// Config is the full, immutable scoring configuration. Both modes are
// expressed as data here; the engine carries no mode-specific control
// flow beyond choosing which table applies.
type Config struct {
	// Preference-direct mode: weights sum to 1.0.
	DirectFactors []Factor
	DirectReasons []ReasonRule
	DirectTopN    int

	// Weather-aware mode: top-level combination and its parts.
	WeatherWeight    float64
	PreferenceWeight float64
	BaselineWeight   float64
	BaselineValue    float64
	Weather          WeatherRules
	PrefFactors      []Factor
	LeisureTypes     []domain.PlaceType
	LeisureBonus     float64
	WeatherReasons   []ReasonRule
	DigestTopN       int

	// Substituted preference fit when no profile is supplied.
	NeutralPrefFit float64

	FallbackReason string
	ReasonJoiner   string
}

// DefaultConfig returns the production score tables.
func DefaultConfig() Config {
	return Config{
		DirectFactors: []Factor{
			{Name: FactorLocation, Weight: 0.15, Score: func(p domain.Place, pref domain.Preference) float64 {
				if pref.District != "" && p.District == pref.District {
					return 1
				}
				return 0
			}},
			{Name: FactorPersonality, Weight: 0.15, Score: personalityMatch},
			{Name: FactorDrinking, Weight: 0.10, Score: func(p domain.Place, pref domain.Preference) float64 {
				if pref.Drinking == p.AlcoholAvailable {
					return 1
				}
				return 0
			}},
			{Name: FactorActivity, Weight: 0.10, Score: func(p domain.Place, pref domain.Preference) float64 {
				return 1 - math.Abs(pref.Active-float64(p.Noise)/5)
			}},
			{Name: FactorNoise, Weight: 0.10, Score: func(p domain.Place, pref domain.Preference) float64 {
				return 1 - math.Abs(pref.Noise-float64(p.Noise)/5)
			}},
			{Name: FactorRomantic, Weight: 0.15, Score: func(p domain.Place, pref domain.Preference) float64 {
				return 1 - math.Abs(pref.Romantic-float64(p.Romantic)/5)
			}},
			{Name: FactorBudget, Weight: 0.15, Score: func(p domain.Place, pref domain.Preference) float64 {
				return 1 - math.Abs(float64(pref.Budget-p.BudgetLevel))/4
			}},
			{Name: FactorWalk, Weight: 0.10, Score: func(p domain.Place, pref domain.Preference) float64 {
				if p.WalkScore <= pref.Walk {
					return 1
				}
				return 0
			}},
		},
		DirectReasons: []ReasonRule{
			{Factor: FactorLocation, Threshold: 0.5, Label: "in your preferred district"},
			{Factor: FactorPersonality, Threshold: 0.5, Label: "suits your personality"},
			{Factor: FactorRomantic, Threshold: 0.85, Label: "matches the mood you want"},
			{Factor: FactorBudget, Threshold: 0.85, Label: "fits your budget"},
		},
		DirectTopN: 5,

		WeatherWeight:    0.35,
		PreferenceWeight: 0.55,
		BaselineWeight:   0.10,
		BaselineValue:    0.5,
		Weather: WeatherRules{
			RainThresholdMM:    1.0,
			IndoorRainBonus:    0.3,
			OutdoorRainPenalty: -0.4,
			WindThresholdMPS:   7.0,
			WindPenalty:        -0.3,
			WindSensitiveTypes: []domain.PlaceType{domain.TypeViewpoint, domain.TypeTrail},
			MildFeelsMin:       10,
			MildFeelsMax:       26,
			MildOutdoorBonus:   0.3,
			OutdoorTypes:       []domain.PlaceType{domain.TypePark, domain.TypeTrail, domain.TypeViewpoint},
		},
		PrefFactors: []Factor{
			{Name: FactorOutdoor, Weight: 0.2, Score: func(p domain.Place, pref domain.Preference) float64 {
				if p.Indoor {
					return 1 - pref.ActiveLevel
				}
				return pref.ActiveLevel
			}},
			{Name: FactorPersonality, Weight: 0.15, Score: personalityMatch},
			{Name: FactorRomantic, Weight: 0.3, Score: func(p domain.Place, pref domain.Preference) float64 {
				return float64(p.Romantic) / 5 * pref.RomanticPref
			}},
			{Name: FactorNoise, Weight: 0.15, Score: func(p domain.Place, pref domain.Preference) float64 {
				return 1 - math.Abs(float64(p.Noise-1)/4-pref.NoisePref)
			}},
			{Name: FactorBudget, Weight: 0.1, Score: func(p domain.Place, pref domain.Preference) float64 {
				return 1 - math.Abs(float64(p.BudgetLevel-pref.BudgetPref))/4
			}},
			{Name: FactorWalk, Weight: 0.15, Score: func(p domain.Place, pref domain.Preference) float64 {
				return float64(p.WalkScore) / 5 * math.Min(1, pref.WalkLimitKm/3)
			}},
		},
		LeisureTypes: []domain.PlaceType{
			domain.TypePark, domain.TypeCafe, domain.TypeMuseum, domain.TypeTrail,
			domain.TypeViewpoint, domain.TypeHeritage, domain.TypeStreet, domain.TypeMarket,
		},
		LeisureBonus: 0.1,
		WeatherReasons: []ReasonRule{
			{Factor: FactorWeatherFit, Threshold: 0.1, Label: "good fit for today's weather"},
			{Factor: FactorPreferenceFit, Threshold: 0.6, Label: "strong taste match"},
		},
		DigestTopN: 3,

		NeutralPrefFit: 0.5,
		FallbackReason: "balanced pick",
		ReasonJoiner:   " / ",
	}
}

func personalityMatch(p domain.Place, pref domain.Preference) float64 {
	switch pref.Personality {
	case domain.PersonalityExtrovert:
		if p.ExtrovertFriendly {
			return 1
		}
	case domain.PersonalityIntrovert:
		if !p.ExtrovertFriendly {
			return 1
		}
	}
	return 0
}

// WeightOverrides remaps factor weights by sub-score name, per mode.
type WeightOverrides struct {
	Direct     map[string]float64 `json:"direct"`
	Preference map[string]float64 `json:"preference"`
}

// LoadWeightOverrides loads alternate factor weights from a JSON file.
func LoadWeightOverrides(path string) (WeightOverrides, error) {
	var w WeightOverrides
	b, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights file: %w", err)
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return w, fmt.Errorf("unmarshal weights: %w", err)
	}
	return w, nil
}

// WithWeights returns a copy of the config with any named factor
// weights replaced. Unknown names are ignored.
func (c Config) WithWeights(w WeightOverrides) Config {
	c.DirectFactors = overrideWeights(c.DirectFactors, w.Direct)
	c.PrefFactors = overrideWeights(c.PrefFactors, w.Preference)
	return c
}

func overrideWeights(factors []Factor, weights map[string]float64) []Factor {
	if len(weights) == 0 {
		return factors
	}
	out := make([]Factor, len(factors))
	copy(out, factors)
	for i := range out {
		if v, ok := weights[out[i].Name]; ok {
			out[i].Weight = v
		}
	}
	return out
}
