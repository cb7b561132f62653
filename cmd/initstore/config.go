package main

import (
	"flag"
	"strings"
	"time"

	"leadapi/internal/config"
)

type options struct {
	databaseURL string
	csvPath     string
	timeout     time.Duration
}

// parseFlags reads command-line overrides. Flags default to the values the
// environment already produced, so an unset flag changes nothing.
func parseFlags(fs *flag.FlagSet, args []string, cfg config.Config) (options, error) {
	var opts options
	fs.StringVar(&opts.databaseURL, "database-url", cfg.DatabaseURL, "relational DSN; empty selects the CSV file")
	fs.StringVar(&opts.csvPath, "csv", cfg.CSVPath, "CSV file path")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall deadline")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func (o options) apply(cfg config.Config) config.Config {
	cfg.DatabaseURL = strings.TrimSpace(o.databaseURL)
	cfg.CSVPath = o.csvPath
	return cfg
}
