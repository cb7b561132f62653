// Command initstore creates the configured lead store (the CSV file with its
// header, or the leads table) and exits. The API server does the same on
// startup; this lets a deploy pipeline do it ahead of time.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"leadapi/internal/config"
	"leadapi/internal/ingest"
	"leadapi/internal/platform/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "initstore:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("initstore", flag.ContinueOnError)
	opts, err := parseFlags(fs, args, cfg)
	if err != nil {
		return err
	}
	cfg = opts.apply(cfg)

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	backend, err := ingest.SelectBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	if c, ok := backend.(io.Closer); ok {
		defer c.Close()
	}

	if err := backend.Initialize(ctx); err != nil {
		return err
	}
	log.Info("store initialized", zap.String("backend", backend.Kind()))
	return nil
}
