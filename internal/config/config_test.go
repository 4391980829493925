package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"CONFIG_FILE", "PORT", "SKIP_CODE_THRESHOLD", "LOG_LEVEL", "LOG_FORMAT",
	"STORAGE_DRIVER", "STORAGE_PATH", "METRICS_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 400, cfg.Log.SkipCodeThreshold)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, StorageConfig{Driver: DriverJSON, Path: "data/employees.json"}, cfg.Storage)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("SKIP_CODE_THRESHOLD", "0")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 0, cfg.Log.SkipCodeThreshold)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, StorageConfig{Driver: DriverBolt, Path: "data/employees.db"}, cfg.Storage)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"port with space":   {"PORT", "80 80"},
		"port not numeric":  {"PORT", "http"},
		"threshold":         {"SKIP_CODE_THRESHOLD", "four hundred"},
		"driver":            {"STORAGE_DRIVER", "sqlite"},
		"metrics flag":      {"METRICS_ENABLED", "maybe"},
		"log format":        {"LOG_FORMAT", "xml"},
		"missing yaml file": {"CONFIG_FILE", "/nonexistent/config.yaml"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
server:
  port: "8081"
log:
  level: debug
  skipCodeThreshold: 200
storage:
  driver: bolt
  path: /var/lib/staffbook/employees.db
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 200, cfg.Log.SkipCodeThreshold)
	assert.Equal(t, StorageConfig{Driver: DriverBolt, Path: "/var/lib/staffbook/employees.db"}, cfg.Storage)
	assert.False(t, cfg.Metrics.Enabled)
}
