package domain

// PlaceType is the venue category used by the scoring rules.
type PlaceType string

const (
	TypeCafe       PlaceType = "cafe"
	TypeRestaurant PlaceType = "restaurant"
	TypePark       PlaceType = "park"
	TypeTrail      PlaceType = "trail"
	TypeViewpoint  PlaceType = "viewpoint"
	TypeMuseum     PlaceType = "museum"
	TypeHeritage   PlaceType = "heritage"
	TypeStreet     PlaceType = "street"
	TypeMarket     PlaceType = "market"
)

type Place struct {
	ID                string    `json:"place_id" db:"place_id"`
	Name              string    `json:"name" db:"name"`
	Type              PlaceType `json:"type" db:"type"`
	District          string    `json:"district" db:"district"`
	Lat               float64   `json:"lat,omitempty" db:"lat"`
	Lon               float64   `json:"lon,omitempty" db:"lon"`
	Indoor            bool      `json:"indoor" db:"indoor"`
	Noise             int       `json:"noise" db:"noise"`               // 1..5
	Romantic          int       `json:"romantic" db:"romantic"`         // 1..5
	BudgetLevel       int       `json:"budget_level" db:"budget_level"` // 0..4
	WalkScore         int       `json:"walk_score" db:"walk_score"`
	AlcoholAvailable  bool      `json:"alcohol_available" db:"alcohol_available"`
	ExtrovertFriendly bool      `json:"extrovert_friendly" db:"extrovert_friendly"`
	Tags              string    `json:"tags" db:"tags"`
}

const (
	PersonalityExtrovert = "extrovert"
	PersonalityIntrovert = "introvert"
)

// Preference is one user's taste profile. The first block drives the
// preference-direct scoring mode; the secondary block drives the
// weather-aware mode and is filled with neutral defaults when a stored
// profile omits a field.
type Preference struct {
	District    string  `json:"district"`
	Personality string  `json:"personality"`
	Drinking    bool    `json:"drinking"`
	Active      float64 `json:"active"`   // 0..1
	Noise       float64 `json:"noise"`    // 0..1
	Romantic    float64 `json:"romantic"` // 0..1
	Budget      int     `json:"budget"`   // 0..4
	Walk        int     `json:"walk"`

	ActiveLevel  float64 `json:"active_level"`  // 0..1, outdoor preference proxy
	RomanticPref float64 `json:"romantic_pref"` // 0..1
	NoisePref    float64 `json:"noise_pref"`    // 0..1
	BudgetPref   int     `json:"budget_pref"`   // 0..4
	WalkLimitKm  float64 `json:"walk_limit_km"`
}

// WeatherSnapshot holds one day's aggregated forecast figures.
// Absent upstream values are stored as 0.
type WeatherSnapshot struct {
	Date        string  `json:"date"`
	WeatherCode int     `json:"weathercode"`
	TempMax     float64 `json:"temp_max"`
	TempMin     float64 `json:"temp_min"`
	PrecipMM    float64 `json:"precip_mm"`
	WindMaxMPS  float64 `json:"wind_max_mps"`
	CloudMean   float64 `json:"cloud_mean"`
}

// Feels is the perceived daytime temperature used by the weather rules.
func (w WeatherSnapshot) Feels() float64 {
	return (w.TempMax + w.TempMin) / 2
}

// ScoredPlace is one ranked recommendation. SubScores keeps the
// pre-weighting factor values so reasons can be derived from them.
type ScoredPlace struct {
	Place     Place              `json:"place"`
	Score     float64            `json:"score"`
	SubScores map[string]float64 `json:"sub_scores"`
	Reason    string             `json:"reason"`
}
