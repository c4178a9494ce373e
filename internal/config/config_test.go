package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: "shareit"
  environment: "test"
database:
  path: "data/test.db"
redis:
  enabled: true
  address: "localhost:6379"
api:
  port: 9000
  auth:
    enabled: true
    api_keys:
      - key: "k1"
        extra: "e1"
        name: "gateway"
        permissions: ["api"]
logging:
  level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shareit", cfg.App.Name)
	assert.Equal(t, "data/test.db", cfg.Database.Path)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.API.Auth.APIKeys, 1)
	assert.Equal(t, "gateway", cfg.API.Auth.APIKeys[0].Name)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "data/test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shareit", cfg.App.Name)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, "x-api-extra", cfg.API.Auth.HeaderExtra)
	assert.Equal(t, float64(50), cfg.API.RateLimit.RPS)
	assert.Equal(t, 10, cfg.API.RateLimit.Burst)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 300, cfg.Redis.CacheTTL)
	assert.Equal(t, "reports", cfg.Reports.Path)
	assert.Equal(t, "backups", cfg.Backup.StoragePath)
}

func TestLoadConfigEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "data/env.db")

	path := writeConfig(t, `
database:
  path: "${TEST_DB_PATH}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/env.db", cfg.Database.Path)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("MissingDatabasePath", func(t *testing.T) {
		path := writeConfig(t, `
app:
  name: "shareit"
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "database path is required")
	})

	t.Run("RedisEnabledWithoutAddress", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: "data/test.db"
redis:
  enabled: true
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "redis address is required")
	})

	t.Run("AuthEnabledWithoutKeys", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: "data/test.db"
api:
  auth:
    enabled: true
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "no api keys")
	})
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestHasPermission(t *testing.T) {
	key := APIClientKey{Permissions: []string{"api"}}
	assert.True(t, key.HasPermission("api"))
	assert.False(t, key.HasPermission("admin"))

	wildcard := APIClientKey{Permissions: []string{"*"}}
	assert.True(t, wildcard.HasPermission("admin"))
	assert.True(t, wildcard.HasPermission("anything"))
}
