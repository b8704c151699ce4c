package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/climatiqq/climatiqq/internal/recommend"
	"github.com/google/uuid"
)

// InsertPrediction stores an engine result for user and returns its ID.
func (db *DB) InsertPrediction(user string, res recommend.Result, at time.Time) (string, error) {
	suggestions, err := json.Marshal(res.Suggestions)
	if err != nil {
		return "", fmt.Errorf("encoding suggestions: %w", err)
	}

	var features sql.NullString
	if res.Features != nil {
		b, err := json.Marshal(res.Features)
		if err != nil {
			return "", fmt.Errorf("encoding features: %w", err)
		}
		features = sql.NullString{String: string(b), Valid: true}
	}

	id := uuid.NewString()
	_, err = db.conn.Exec(db.conn.Rebind(
		`INSERT INTO predictions
		(id, user_name, created_at, model_type, confidence, features, suggestions, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		id, user, formatTime(at), res.ModelType, res.Confidence, features,
		string(suggestions), sql.NullString{String: res.Error, Valid: res.Error != ""},
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListPredictions returns up to limit stored results for user, newest first.
// A non-positive limit returns all of them.
func (db *DB) ListPredictions(user string, limit int) ([]Prediction, error) {
	query := `SELECT id, user_name, created_at, model_type, confidence, features, suggestions, error
		FROM predictions WHERE user_name = ? ORDER BY created_at DESC`
	args := []any{user}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []predictionRow
	if err := db.conn.Select(&rows, db.conn.Rebind(query), args...); err != nil {
		return nil, err
	}

	out := make([]Prediction, 0, len(rows))
	for _, row := range rows {
		p, err := row.prediction()
		if err != nil {
			return nil, fmt.Errorf("decoding prediction %s: %w", row.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r predictionRow) prediction() (Prediction, error) {
	p := Prediction{
		ID:        r.ID,
		User:      r.User,
		CreatedAt: parseTime(r.CreatedAt),
		Result: recommend.Result{
			ModelType:  r.ModelType,
			Confidence: r.Confidence,
			Error:      r.Error.String,
		},
	}
	if err := json.Unmarshal([]byte(r.Suggestions), &p.Result.Suggestions); err != nil {
		return Prediction{}, err
	}
	if r.Features.Valid {
		var fv recommend.FeatureVector
		if err := json.Unmarshal([]byte(r.Features.String), &fv); err != nil {
			return Prediction{}, err
		}
		p.Result.Features = &fv
	}
	return p, nil
}
