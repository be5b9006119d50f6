package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxn4chemistry/rxn-availability/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: debug
availability:
  pricing_threshold: 50
  always_available:
    - CCO
    - CCN
databases:
  emolecules:
    driver: redis
    redis:
      addr: localhost:6379
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 50.0, cfg.Availability.PricingThreshold)
	assert.Equal(t, []string{"CCO", "CCN"}, cfg.Availability.AlwaysAvailable)
	require.Contains(t, cfg.Databases, "emolecules")
	assert.Equal(t, "redis", cfg.Databases["emolecules"].Driver)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "logging: [unterminated")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfigFile(t, "logging:\n  level: shouting\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Databases)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RXN_LOGGING_LEVEL", "warn")

	path := writeConfigFile(t, "logging:\n  level: info\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
}
