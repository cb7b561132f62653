// Package ingest accepts lead submissions over HTTP and hands validated leads
// to the configured storage backend.
package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"leadapi/internal/lead"
	"leadapi/internal/storage"
)

// Result is what one successful ingestion produced.
type Result struct {
	Record  lead.Record
	Receipt storage.Receipt
}

type Service struct {
	backend storage.Backend
	log     *zap.Logger
	now     func() time.Time
}

func NewService(backend storage.Backend, log *zap.Logger) *Service {
	return &Service{
		backend: backend,
		log:     log,
		now:     time.Now,
	}
}

// Ingest encodes l with the current time and appends it. Storage errors are
// returned unchanged and are not retried.
func (s *Service) Ingest(ctx context.Context, l lead.Lead) (Result, error) {
	rec := lead.Encode(l, s.now())

	receipt, err := s.backend.Append(ctx, rec)
	if err != nil {
		s.log.Error("append lead failed",
			zap.String("backend", s.backend.Kind()),
			zap.Error(err),
		)
		return Result{}, err
	}

	fields := []zap.Field{zap.String("backend", s.backend.Kind())}
	if receipt.HasID {
		fields = append(fields, zap.Int64("id", receipt.ID))
	}
	s.log.Debug("lead stored", fields...)

	return Result{Record: rec, Receipt: receipt}, nil
}
