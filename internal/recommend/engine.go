package recommend

import (
	"math"
	"sort"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
)

// Engine scores places against a preference profile and, when a weather
// snapshot is supplied, the day's forecast. It is a pure computation
// over its inputs; the same inputs always produce the same ranking.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Recommend scores every place, ranks them by score descending and
// returns the first limit entries with reasons attached. Ties keep the
// input order. A nil weather snapshot selects the preference-direct
// tables; a nil preference substitutes the neutral fit.
func (e *Engine) Recommend(places []domain.Place, pref *domain.Preference, wx *domain.WeatherSnapshot, limit int) []domain.ScoredPlace {
	scored := make([]domain.ScoredPlace, 0, len(places))
	for _, p := range places {
		scored = append(scored, e.scoreOne(p, pref, wx))
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if limit <= 0 {
		if wx != nil {
			limit = e.cfg.DigestTopN
		} else {
			limit = e.cfg.DirectTopN
		}
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}

	rules := e.cfg.DirectReasons
	if wx != nil {
		rules = e.cfg.WeatherReasons
	}
	for i := range scored {
		scored[i].Reason = e.reasonFor(scored[i].SubScores, rules)
	}
	return scored
}

func (e *Engine) scoreOne(p domain.Place, pref *domain.Preference, wx *domain.WeatherSnapshot) domain.ScoredPlace {
	if wx == nil {
		return e.scoreDirect(p, pref)
	}
	return e.scoreWeatherAware(p, pref, *wx)
}

func (e *Engine) scoreDirect(p domain.Place, pref *domain.Preference) domain.ScoredPlace {
	sub := make(map[string]float64, len(e.cfg.DirectFactors))
	if pref == nil {
		sub[FactorPreferenceFit] = e.cfg.NeutralPrefFit
		return domain.ScoredPlace{Place: p, Score: e.cfg.NeutralPrefFit, SubScores: sub}
	}

	var score float64
	for _, f := range e.cfg.DirectFactors {
		v := clamp(f.Score(p, *pref), 0, 1)
		sub[f.Name] = v
		score += f.Weight * v
	}
	return domain.ScoredPlace{Place: p, Score: clamp(score, 0, 1), SubScores: sub}
}

func (e *Engine) scoreWeatherAware(p domain.Place, pref *domain.Preference, wx domain.WeatherSnapshot) domain.ScoredPlace {
	wf := e.weatherFit(p, wx)

	pf := e.cfg.NeutralPrefFit
	if pref != nil {
		pf = e.preferenceFit(p, *pref)
	}

	score := e.cfg.WeatherWeight*wf + e.cfg.PreferenceWeight*pf + e.cfg.BaselineWeight*e.cfg.BaselineValue
	return domain.ScoredPlace{
		Place: p,
		Score: clamp(score, 0, 1),
		SubScores: map[string]float64{
			FactorWeatherFit:    wf,
			FactorPreferenceFit: pf,
		},
	}
}

// weatherFit accumulates the configured rain, wind and temperature
// adjustments for one place. Range [-1,1].
func (e *Engine) weatherFit(p domain.Place, wx domain.WeatherSnapshot) float64 {
	r := e.cfg.Weather
	var score float64

	if wx.PrecipMM > r.RainThresholdMM {
		if p.Indoor {
			score += r.IndoorRainBonus
		} else {
			score += r.OutdoorRainPenalty
		}
	}
	if wx.WindMaxMPS > r.WindThresholdMPS && containsType(r.WindSensitiveTypes, p.Type) {
		score += r.WindPenalty
	}
	if feels := wx.Feels(); feels >= r.MildFeelsMin && feels <= r.MildFeelsMax && containsType(r.OutdoorTypes, p.Type) {
		score += r.MildOutdoorBonus
	}
	return clamp(score, -1, 1)
}

// preferenceFit is the weighted taste score of the weather-aware mode.
// Range [0,1].
func (e *Engine) preferenceFit(p domain.Place, pref domain.Preference) float64 {
	var score float64
	for _, f := range e.cfg.PrefFactors {
		score += f.Weight * clamp(f.Score(p, pref), 0, 1)
	}
	if containsType(e.cfg.LeisureTypes, p.Type) {
		score += e.cfg.LeisureBonus
	}
	return clamp(score, 0, 1)
}

func (e *Engine) reasonFor(sub map[string]float64, rules []ReasonRule) string {
	var labels []string
	for _, r := range rules {
		if sub[r.Factor] > r.Threshold {
			labels = append(labels, r.Label)
		}
	}
	if len(labels) == 0 {
		return e.cfg.FallbackReason
	}
	out := labels[0]
	for _, l := range labels[1:] {
		out += e.cfg.ReasonJoiner + l
	}
	return out
}

// Round3 rounds a score to the three decimals used on the wire.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func containsType(types []domain.PlaceType, t domain.PlaceType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
