package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/climatiqq/climatiqq/internal/impact"
)

const entryColumns = "id, user_name, metric_type, value, description, created_at"

// InsertEntry validates and stores r, returning its new ID. A zero
// CreatedAt is set to the current time.
func (db *DB) InsertEntry(r *impact.Record) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	var id int64
	err := db.conn.QueryRowx(db.conn.Rebind(
		`INSERT INTO impact_entries (user_name, metric_type, value, description, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		r.User, string(r.MetricType), r.Value, r.Description, formatTime(r.CreatedAt),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// GetEntry returns the entry with the given ID owned by user, or
// ErrNotFound. Another user's entry is reported as missing.
func (db *DB) GetEntry(user string, id int64) (*impact.Record, error) {
	var row entryRow
	err := db.conn.Get(&row, db.conn.Rebind(
		"SELECT "+entryColumns+" FROM impact_entries WHERE id = ? AND user_name = ?"), id, user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := row.record()
	return &rec, nil
}

// ListEntries returns entries matching f, newest first.
func (db *DB) ListEntries(f EntryFilter) ([]impact.Record, error) {
	var where []string
	var args []any
	if f.User != "" {
		where = append(where, "user_name = ?")
		args = append(args, f.User)
	}
	if f.MetricType != "" {
		where = append(where, "metric_type = ?")
		args = append(args, string(f.MetricType))
	}
	if !f.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(f.Since))
	}

	query := "SELECT " + entryColumns + " FROM impact_entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	var rows []entryRow
	if err := db.conn.Select(&rows, db.conn.Rebind(query), args...); err != nil {
		return nil, err
	}

	records := make([]impact.Record, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}

// UpdateEntry replaces the metric, value, description and time of the
// entry with the given ID owned by user. r is validated first; on success
// its ID and User are set to the stored values.
func (db *DB) UpdateEntry(user string, id int64, r *impact.Record) error {
	r.User = user
	if err := r.Validate(); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	res, err := db.conn.Exec(db.conn.Rebind(
		`UPDATE impact_entries SET metric_type = ?, value = ?, description = ?, created_at = ?
		 WHERE id = ? AND user_name = ?`),
		string(r.MetricType), r.Value, r.Description, formatTime(r.CreatedAt), id, user,
	)
	if err := affectedOne(res, err); err != nil {
		return err
	}
	r.ID = id
	return nil
}

// DeleteEntry removes the entry with the given ID owned by user, or
// returns ErrNotFound.
func (db *DB) DeleteEntry(user string, id int64) error {
	res, err := db.conn.Exec(db.conn.Rebind("DELETE FROM impact_entries WHERE id = ? AND user_name = ?"), id, user)
	return affectedOne(res, err)
}

// affectedOne maps a statement that touched no rows to ErrNotFound.
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
