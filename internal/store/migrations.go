package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// dialect selects the DDL flavour for the connected database.
type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// autoID returns the auto-increment primary key column type.
func (d dialect) autoID() string {
	if d == dialectPostgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	if err := db.conn.Get(&version, "SELECT version FROM schema_version LIMIT 1"); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the entry and prediction tables and their indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS impact_entries (
			id          ` + db.dialect.autoID() + `,
			user_name   TEXT NOT NULL,
			metric_type TEXT NOT NULL,
			value       DOUBLE PRECISION NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id          TEXT PRIMARY KEY,
			user_name   TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			model_type  TEXT NOT NULL,
			confidence  DOUBLE PRECISION NOT NULL,
			features    TEXT,
			suggestions TEXT NOT NULL,
			error       TEXT
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_entries_user_created ON impact_entries(user_name, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_metric ON impact_entries(metric_type)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_user_created ON predictions(user_name, created_at)`,
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec(tx.Rebind("INSERT INTO schema_version (version) VALUES (?)"), currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
