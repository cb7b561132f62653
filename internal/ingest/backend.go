package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"leadapi/internal/config"
	"leadapi/internal/storage"
	"leadapi/internal/storage/csvfile"
	"leadapi/internal/storage/postgres"
	"leadapi/internal/storage/sqlite"
)

// SelectBackend picks the storage backend once at startup. An empty
// DATABASE_URL selects the CSV file; a sqlite: or file: URL selects the
// embedded database; anything else is treated as a Postgres DSN.
func SelectBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (storage.Backend, error) {
	switch {
	case !cfg.UsesDatabase():
		store, err := csvfile.New(cfg.CSVPath)
		if err != nil {
			return nil, err
		}
		log.Info("storage backend selected", zap.String("backend", store.Kind()), zap.String("path", store.Path()))
		return store, nil

	case sqlite.IsDSN(cfg.DatabaseURL):
		store, err := sqlite.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
		}
		log.Info("storage backend selected", zap.String("backend", store.Kind()), zap.String("dsn", cfg.DatabaseURL))
		return store, nil

	default:
		pool, err := postgres.Connect(ctx, postgres.Config{
			DSN:             cfg.DatabaseURL,
			MaxConns:        cfg.DBMaxConns,
			ConnectAttempts: cfg.DBConnectAttempts,
			ConnectInterval: cfg.DBConnectInterval,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
		}
		store := postgres.NewStore(pool, cfg.DBTimeout)
		log.Info("storage backend selected", zap.String("backend", store.Kind()), zap.String("dsn", postgres.RedactDSN(cfg.DatabaseURL)))
		return store, nil
	}
}
