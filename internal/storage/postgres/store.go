// Package postgres stores leads in a PostgreSQL table through a pgx pool.
package postgres

import (
	"context"
	"time"

	"leadapi/internal/lead"
	"leadapi/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS leads (
		id           BIGSERIAL PRIMARY KEY,
		ts_utc       TIMESTAMPTZ NOT NULL,
		email        VARCHAR(320) NOT NULL,
		name         VARCHAR(255) NOT NULL,
		courses_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_leads_email ON leads (email);
	`

type Store struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewStore(db *pgxpool.Pool, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, timeout: timeout}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) Kind() string { return "postgres" }

// Initialize creates the leads table and its email index when absent.
func (s *Store) Initialize(ctx context.Context) error {
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	_, err := s.db.Exec(timeoutCtx, schema)
	return storage.Unavailable("create leads table", err)
}

// Append inserts rec in its own transaction and returns the generated id.
func (s *Store) Append(ctx context.Context, rec lead.Record) (storage.Receipt, error) {
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.Begin(timeoutCtx)
	if err != nil {
		return storage.Receipt{}, storage.Unavailable("begin", err)
	}
	defer tx.Rollback(timeoutCtx)

	const query = `
	INSERT INTO leads (ts_utc, email, name, courses_json)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`
	var id int64
	if err := tx.QueryRow(timeoutCtx, query, rec.Timestamp, rec.Email, rec.Name, rec.CoursesJSON).Scan(&id); err != nil {
		return storage.Receipt{}, storage.Unavailable("insert lead", err)
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return storage.Receipt{}, storage.Unavailable("commit", err)
	}
	return storage.Receipt{ID: id, HasID: true}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.Ping(timeoutCtx)
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}
