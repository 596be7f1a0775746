package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9090
  allowed_origins:
    - https://app.example.com
storage:
  database_path: ledger.db
reconcile:
  ledger_window_days: 60
  default_strategy: weighted
observability:
  logging:
    level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "ledger.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 60, cfg.Reconcile.LedgerWindowDays)
	assert.Equal(t, "weighted", cfg.Reconcile.DefaultStrategy)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	os.Setenv("TEST_RECONCILE_DB", "from_env.db")
	defer os.Unsetenv("TEST_RECONCILE_DB")

	path := writeTempConfig(t, `
storage:
  database_path: ${TEST_RECONCILE_DB}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_env.db", cfg.Storage.DatabasePath)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `{}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "reconcile.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 90, cfg.Reconcile.LedgerWindowDays)
	assert.Equal(t, "deterministic", cfg.Reconcile.DefaultStrategy)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("RECONCILE_PORT", "7070")
	os.Setenv("RECONCILE_DB_PATH", "env.db")
	os.Setenv("RECONCILE_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	os.Setenv("RECONCILE_DEFAULT_STRATEGY", "weighted")
	defer func() {
		os.Unsetenv("RECONCILE_PORT")
		os.Unsetenv("RECONCILE_DB_PATH")
		os.Unsetenv("RECONCILE_ALLOWED_ORIGINS")
		os.Unsetenv("RECONCILE_DEFAULT_STRATEGY")
	}()

	cfg := LoadFromEnv()

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env.db", cfg.Storage.DatabasePath)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "weighted", cfg.Reconcile.DefaultStrategy)
	assert.Equal(t, 90, cfg.Reconcile.LedgerWindowDays)
}

func TestLoadOrEnvWithPath_FallsBackToEnv(t *testing.T) {
	os.Setenv("RECONCILE_DB_PATH", "fallback.db")
	defer os.Unsetenv("RECONCILE_DB_PATH")

	cfg := LoadOrEnvWithPath("/nonexistent/config.yaml")

	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestLoadOrEnvWithPath_PrefersFile(t *testing.T) {
	path := writeTempConfig(t, `
storage:
  database_path: file.db
`)

	cfg := LoadOrEnvWithPath(path)
	assert.Equal(t, "file.db", cfg.Storage.DatabasePath)
}
