// Package recommend provides the rule-based sustainability recommendation
// engine: feature extraction, threshold rules, and suggestion templates.
package recommend

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Model types reported in a Result.
const (
	ModelRuleBased = "rule_based"
	ModelFallback  = "fallback"
)

// Confidence values for the two terminal outcomes.
const (
	ConfidenceRuleBased = 0.85
	ConfidenceFallback  = 0.5
)

// MaxSuggestions bounds the number of suggestions in a Result.
const MaxSuggestions = 5

// Impact levels.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// Effort levels.
const (
	EffortEasy   = "easy"
	EffortMedium = "medium"
	EffortHard   = "hard"
)

// Quantity is a numeric entry field. It decodes from JSON numbers, numeric
// strings, and null; anything else is a decode error.
type Quantity float64

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*q = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*q = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("cannot convert %q to a number", s)
		}
		*q = Quantity(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("cannot convert %s to a number", raw)
	}
	*q = Quantity(v)
	return nil
}

// ImpactEntry is one logged measurement as seen by the engine. Missing
// numeric fields are zero.
type ImpactEntry struct {
	CarbonFootprint Quantity `json:"carbon_footprint"`
	WaterUsage      Quantity `json:"water_usage"`
	EnergyUsage     Quantity `json:"energy_usage"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

// UserData is the engine input envelope.
type UserData struct {
	Entries []ImpactEntry `json:"entries"`
}

// FeatureVector holds the aggregate statistics the rules are evaluated
// against.
type FeatureVector struct {
	AvgCarbonPerDay      float64 `json:"avg_carbon_per_day"`
	AvgWaterPerDay       float64 `json:"avg_water_per_day"`
	AvgEnergyPerDay      float64 `json:"avg_energy_per_day"`
	TotalEntries         int     `json:"total_entries"`
	DaysActive           int     `json:"days_active"`
	CarbonTrend          float64 `json:"carbon_trend"`
	ActivityFrequency    float64 `json:"activity_frequency"`
	HighImpactActivities int     `json:"high_impact_activities"`
	LowImpactActivities  int     `json:"low_impact_activities"`
}

// SuggestionKey names one piece of advice in the template table.
type SuggestionKey string

// Suggestion is a display-ready recommendation.
type Suggestion struct {
	Key      SuggestionKey `json:"key,omitempty"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Category string        `json:"category,omitempty"`
	Impact   string        `json:"impact"`
	Effort   string        `json:"effort"`
}

// Result is the response envelope returned by the engine. Features is set
// only on the rule-based path; Error only on the fallback path.
type Result struct {
	Suggestions []Suggestion   `json:"suggestions"`
	Confidence  float64        `json:"confidence"`
	ModelType   string         `json:"model_type"`
	Features    *FeatureVector `json:"features_analyzed,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Keys returns the suggestion keys of r in order. Fallback suggestions have
// no key and are skipped.
func (r Result) Keys() []SuggestionKey {
	keys := make([]SuggestionKey, 0, len(r.Suggestions))
	for _, s := range r.Suggestions {
		if s.Key != "" {
			keys = append(keys, s.Key)
		}
	}
	return keys
}
