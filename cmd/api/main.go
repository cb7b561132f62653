package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"leadapi/internal/config"
	"leadapi/internal/httpx"
	"leadapi/internal/ingest"
	"leadapi/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	backend, err := ingest.SelectBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	if c, ok := backend.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				log.Warn("close backend", zap.Error(err))
			}
		}()
	}
	if err := backend.Initialize(ctx); err != nil {
		return err
	}
	log.Info("storage initialized", zap.String("backend", backend.Kind()))

	handler := ingest.NewHTTPHandler(ingest.NewService(backend, log), log)
	root, cleanup := newServerHandler(cfg, log, handler)
	defer cleanup()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newRouter(h *ingest.HTTPHandler) *http.ServeMux {
	router := http.NewServeMux()
	router.HandleFunc("POST /ingest", h.Ingest)
	router.HandleFunc("GET /health", h.Health)
	router.HandleFunc("GET /readyz", h.Ready)
	return router
}

// newServerHandler wraps the router in the middleware stack. The returned
// func releases the rate limiter's janitor goroutine.
func newServerHandler(cfg config.Config, log *zap.Logger, h *ingest.HTTPHandler) (http.Handler, func()) {
	mws := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		mws = append(mws, httpx.CORSMiddleware(origins))
	}
	mws = append(mws, httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes))

	cleanup := func() {}
	if cfg.RateLimitRPS > 0 {
		rl := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
		mws = append(mws, rl.Middleware)
		cleanup = rl.Stop
	}

	return httpx.Chain(newRouter(h), mws...), cleanup
}
