package impact

import (
	"fmt"
	"strings"
	"time"
)

// Input is the wire shape of a new entry, shared by the HTTP API and the
// MQTT ingest.
type Input struct {
	User        string  `json:"user"`
	MetricType  string  `json:"metric_type"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

// Record converts in into a validated Record. An empty user falls back to
// defaultUser and an empty created_at to now.
func (in Input) Record(defaultUser string, now time.Time) (Record, error) {
	m, err := ParseMetricType(in.MetricType)
	if err != nil {
		return Record{}, err
	}

	r := Record{
		User:        strings.TrimSpace(in.User),
		MetricType:  m,
		Value:       in.Value,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now.UTC(),
	}
	if r.User == "" {
		r.User = defaultUser
	}
	if in.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, in.CreatedAt)
		if err != nil {
			return Record{}, fmt.Errorf("parsing created_at %q: %w", in.CreatedAt, err)
		}
		r.CreatedAt = t.UTC()
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}
