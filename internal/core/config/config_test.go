package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ORDER_STORE_URL", "https://orders.test")
	t.Setenv("ORDER_STORE_TOKEN", "tok_orders")
	t.Setenv("CATALOG_STORE_URL", "https://catalog.test")
	t.Setenv("CATALOG_STORE_TOKEN", "tok_catalog")
	t.Setenv("ASSET_HOST_URL", "https://assets.test")
	t.Setenv("ASSET_HOST_KEY", "key_assets")
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("CLIENT_TIMEOUT_SECONDS")
	os.Unsetenv("REDIS_URL")
	setRequiredEnv(t)

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10, cfg.ClientTimeoutSeconds)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 60, cfg.Redis.ReportTTLSeconds)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CLIENT_TIMEOUT_SECONDS", "5")
	t.Setenv("REDIS_URL", "redis://cache.test:6379/1")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 5, cfg.ClientTimeoutSeconds)
	assert.Equal(t, "https://orders.test", cfg.OrderStore.URL)
	assert.Equal(t, "tok_orders", cfg.OrderStore.Token)
	assert.Equal(t, "https://catalog.test", cfg.CatalogStore.URL)
	assert.Equal(t, "key_assets", cfg.AssetHost.APIKey)
	assert.Equal(t, "redis://cache.test:6379/1", cfg.Redis.URL)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
ORDER_STORE_URL=https://orders.staging.test
ORDER_STORE_TOKEN=tok_staging
CATALOG_STORE_URL=https://catalog.staging.test
CATALOG_STORE_TOKEN=tok_catalog_staging
ASSET_HOST_URL=https://assets.staging.test
ASSET_HOST_KEY=key_staging
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "https://orders.staging.test", cfg.OrderStore.URL)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("ORDER_STORE_URL")
	os.Unsetenv("ORDER_STORE_TOKEN")
	os.Unsetenv("CATALOG_STORE_URL")
	os.Unsetenv("CATALOG_STORE_TOKEN")
	os.Unsetenv("ASSET_HOST_URL")
	os.Unsetenv("ASSET_HOST_KEY")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}

// TestClientTimeout verifies the duration helpers.
func TestClientTimeout(t *testing.T) {
	cfg := &AppConfig{ClientTimeoutSeconds: 15}
	assert.Equal(t, "15s", cfg.ClientTimeout().String())

	rc := &RedisConfig{ReportTTLSeconds: 90}
	assert.Equal(t, "1m30s", rc.ReportTTL().String())
}
