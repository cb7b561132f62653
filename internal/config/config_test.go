package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ALLOWED", "")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "data.csv", cfg.CSVPath)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, int64(16384), cfg.MaxBodyBytes)
	assert.False(t, cfg.UsesDatabase())
	assert.Empty(t, cfg.CORSOrigins())
}

func TestParse_DatabaseURLSelectsRelational(t *testing.T) {
	t.Setenv("DATABASE_URL", "  postgres://u:p@localhost/leads  ")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, "postgres://u:p@localhost/leads", cfg.DatabaseURL)
}

func TestParse_BlankDatabaseURLSelectsFlatFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "   ")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.False(t, cfg.UsesDatabase())
}

func TestParse_InvalidDuration(t *testing.T) {
	t.Setenv("DB_TIMEOUT", "soon")

	_, err := Parse()
	assert.Error(t, err)
}

func TestCORSOrigins(t *testing.T) {
	cfg := Config{CORSAllowed: " http://localhost:3000, ,https://example.com,"}
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.CORSOrigins())
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("CSV_PATH=from_file.csv\nAPP_ADDR=:9999\n"), 0o644))

	t.Setenv("CSV_PATH", "from_env.csv")
	t.Setenv("APP_ADDR", "")
	require.NoError(t, os.Unsetenv("APP_ADDR"))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
		_ = os.Unsetenv("APP_ADDR")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_env.csv", cfg.CSVPath)
	assert.Equal(t, ":9999", cfg.Addr)
}
