// Package sqlite stores leads in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"leadapi/internal/lead"
	"leadapi/internal/storage"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    ts_utc       TEXT NOT NULL,
    email        VARCHAR(320) NOT NULL,
    name         VARCHAR(255) NOT NULL,
    courses_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads (email);
`

// Store persists leads in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// IsDSN reports whether dsn addresses a SQLite database rather than a server.
func IsDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "sqlite:") || strings.HasPrefix(dsn, "file:")
}

// Open opens the database named by dsn ("sqlite:///path/to.db",
// "sqlite:path/to.db" or "file:path/to.db"). Writes go through a single
// connection, so concurrent appends queue on the pool instead of failing with
// SQLITE_BUSY.
func Open(dsn string) (*Store, error) {
	path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//")
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if !strings.HasPrefix(path, "file:") {
		path = filepath.Clean(path)
	}
	sqlDB, err := sql.Open("sqlite", path+querySep(path)+"_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func querySep(path string) string {
	if strings.Contains(path, "?") {
		return "&"
	}
	return "?"
}

func (s *Store) Kind() string { return "sqlite" }

// Initialize creates the leads table and its email index when absent.
func (s *Store) Initialize(ctx context.Context) error {
	_, err := s.sqlDB.ExecContext(ctx, schema)
	return storage.Unavailable("create leads table", err)
}

// Append inserts rec in its own transaction and returns the generated id.
func (s *Store) Append(ctx context.Context, rec lead.Record) (storage.Receipt, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Receipt{}, storage.Unavailable("begin", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO leads (ts_utc, email, name, courses_json) VALUES (?, ?, ?, ?)`,
		rec.TimestampString(), rec.Email, rec.Name, rec.CoursesJSON,
	)
	if err != nil {
		return storage.Receipt{}, storage.Unavailable("insert lead", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.Receipt{}, storage.Unavailable("last insert id", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.Receipt{}, storage.Unavailable("commit", err)
	}
	return storage.Receipt{ID: id, HasID: true}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
