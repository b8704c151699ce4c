// Package impact models logged environmental-impact entries and the
// statistics derived from them.
package impact

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/climatiqq/climatiqq/internal/recommend"
)

// MetricType identifies what an entry measures.
type MetricType string

// Supported metric types.
const (
	MetricCarbon  MetricType = "carbon"
	MetricWater   MetricType = "water"
	MetricEnergy  MetricType = "energy"
	MetricDigital MetricType = "digital"
)

// MaxDescriptionLen bounds the free-text description of an entry.
const MaxDescriptionLen = 200

var (
	// ErrUnknownMetric is returned for a metric type outside the supported set.
	ErrUnknownMetric = errors.New("unknown metric type")

	// ErrInvalidValue is returned for negative or non-finite values.
	ErrInvalidValue = errors.New("invalid value")
)

// MetricTypes lists the supported metric types in display order.
var MetricTypes = []MetricType{MetricCarbon, MetricWater, MetricEnergy, MetricDigital}

var metricLabels = map[MetricType]struct{ label, unit string }{
	MetricCarbon:  {"Carbon Footprint", "kg CO2"},
	MetricWater:   {"Water Usage", "L"},
	MetricEnergy:  {"Energy Consumption", "kWh"},
	MetricDigital: {"Digital Usage", "h"},
}

// ParseMetricType converts a case-insensitive name to a MetricType.
func ParseMetricType(s string) (MetricType, error) {
	m := MetricType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := metricLabels[m]; !ok {
		return "", fmt.Errorf("%w %q (want carbon, water, energy, or digital)", ErrUnknownMetric, s)
	}
	return m, nil
}

// Label returns the human-readable metric name.
func (m MetricType) Label() string {
	return metricLabels[m].label
}

// Unit returns the measurement unit of the metric.
func (m MetricType) Unit() string {
	return metricLabels[m].unit
}

// Record is one stored impact entry.
type Record struct {
	ID          int64      `json:"id"`
	User        string     `json:"user"`
	MetricType  MetricType `json:"metric_type"`
	Value       float64    `json:"value"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Validate checks r before it is stored.
func (r *Record) Validate() error {
	if _, err := ParseMetricType(string(r.MetricType)); err != nil {
		return err
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || r.Value < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidValue, r.Value)
	}
	if len(r.Description) > MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLen)
	}
	if strings.TrimSpace(r.User) == "" {
		return errors.New("user is required")
	}
	return nil
}

// ToEngineEntry maps r onto the engine's entry shape. Only the field
// matching the metric type is set; digital entries carry no quantities.
func (r Record) ToEngineEntry() recommend.ImpactEntry {
	e := recommend.ImpactEntry{CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339)}
	switch r.MetricType {
	case MetricCarbon:
		e.CarbonFootprint = recommend.Quantity(r.Value)
	case MetricWater:
		e.WaterUsage = recommend.Quantity(r.Value)
	case MetricEnergy:
		e.EnergyUsage = recommend.Quantity(r.Value)
	}
	return e
}

// ToUserData converts records into the engine input envelope.
func ToUserData(records []Record) *recommend.UserData {
	entries := make([]recommend.ImpactEntry, len(records))
	for i, r := range records {
		entries[i] = r.ToEngineEntry()
	}
	return &recommend.UserData{Entries: entries}
}
