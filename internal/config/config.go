// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr string `env:"APP_ADDR" envDefault:":8080"`

	// DatabaseURL selects the relational backend when non-empty; otherwise
	// leads go to CSVPath.
	DatabaseURL       string        `env:"DATABASE_URL"`
	CSVPath           string        `env:"CSV_PATH" envDefault:"data.csv"`
	DBTimeout         time.Duration `env:"DB_TIMEOUT" envDefault:"5s"`
	DBMaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBConnectAttempts int           `env:"DB_CONNECT_ATTEMPTS" envDefault:"3"`
	DBConnectInterval time.Duration `env:"DB_CONNECT_INTERVAL" envDefault:"1s"`

	// CORSAllowed is a comma-separated origin list. Empty disables CORS.
	CORSAllowed    string  `env:"CORS_ALLOWED"`
	MaxBodyBytes   int64   `env:"MAX_BODY_BYTES" envDefault:"16384"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	EnableHSTS     bool    `env:"ENABLE_HSTS" envDefault:"false"`

	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadEnvFiles reads .env and .env.local into the environment. Variables the
// runtime already set (e.g. Docker) are not overridden.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads .env files, then parses the environment into a Config.
func Load() (Config, error) {
	LoadEnvFiles()
	return Parse()
}

// Parse reads the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	return cfg, nil
}

// UsesDatabase reports whether the relational backend is configured.
func (c Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

// CORSOrigins splits CORSAllowed, dropping blanks.
func (c Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
