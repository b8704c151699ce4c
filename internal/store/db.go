package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Driver names registered by the imported database/sql drivers.
const (
	driverSQLite = "sqlite"
	driverPgx    = "pgx"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver(driverSQLite, sqlx.QUESTION)
}

// DB wraps a sqlx connection to the climatiqq database.
type DB struct {
	conn    *sqlx.DB
	dialect dialect
}

// Open opens or creates the database. driver is "sqlite" (dsn is a file
// path; its parent directory is created) or "postgres" (dsn is a pgx
// connection string).
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case "sqlite":
		return openSQLite(dsn)
	case "postgres":
		return openPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func openSQLite(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(driverSQLite, path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return initDB(conn, dialectSQLite)
}

func openPostgres(dsn string) (*DB, error) {
	conn, err := sqlx.Connect(driverPgx, dsn)
	if err != nil {
		return nil, err
	}
	return initDB(conn, dialectPostgres)
}

// OpenInMemory opens an in-memory SQLite database, useful for testing.
func OpenInMemory() (*DB, error) {
	conn, err := sqlx.Open(driverSQLite, ":memory:")
	if err != nil {
		return nil, err
	}
	// Every new connection to :memory: is a separate empty database.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return initDB(conn, dialectSQLite)
}

func initDB(conn *sqlx.DB, d dialect) (*DB, error) {
	db := &DB{conn: conn, dialect: d}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sqlx.DB for advanced queries.
func (db *DB) Conn() *sqlx.DB {
	return db.conn
}
