// Package store provides SQLite and PostgreSQL access for climatiqq entries
// and prediction history.
package store

import (
	"database/sql"
	"time"

	"github.com/climatiqq/climatiqq/internal/impact"
	"github.com/climatiqq/climatiqq/internal/recommend"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

// entryRow is the database shape of an impact entry.
type entryRow struct {
	ID          int64   `db:"id"`
	User        string  `db:"user_name"`
	MetricType  string  `db:"metric_type"`
	Value       float64 `db:"value"`
	Description string  `db:"description"`
	CreatedAt   string  `db:"created_at"`
}

func (r entryRow) record() impact.Record {
	return impact.Record{
		ID:          r.ID,
		User:        r.User,
		MetricType:  impact.MetricType(r.MetricType),
		Value:       r.Value,
		Description: r.Description,
		CreatedAt:   parseTime(r.CreatedAt),
	}
}

// EntryFilter narrows ListEntries. Zero values mean no constraint; Limit
// keeps the most recent entries.
type EntryFilter struct {
	User       string
	MetricType impact.MetricType
	Since      time.Time
	Limit      int
}

// Prediction is one stored engine result.
type Prediction struct {
	ID        string           `json:"id"`
	User      string           `json:"user"`
	CreatedAt time.Time        `json:"created_at"`
	Result    recommend.Result `json:"result"`
}

// predictionRow is the database shape of a Prediction. Features and
// suggestions are stored as JSON text.
type predictionRow struct {
	ID          string         `db:"id"`
	User        string         `db:"user_name"`
	CreatedAt   string         `db:"created_at"`
	ModelType   string         `db:"model_type"`
	Confidence  float64        `db:"confidence"`
	Features    sql.NullString `db:"features"`
	Suggestions string         `db:"suggestions"`
	Error       sql.NullString `db:"error"`
}
