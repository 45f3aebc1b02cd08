package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://itx-frontend-test.onrender.com", cfg.APIBaseURL)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 0, cfg.CacheMaxEntries)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.False(t, cfg.UseRedis())
	assert.Equal(t, "storefront", cfg.StoreNamespace)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Prefetch)
	assert.Equal(t, 5, cfg.PrefetchConcurrency)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STOREFRONT_API_BASE_URL", "http://localhost:9000")
	t.Setenv("STOREFRONT_CACHE_TTL", "30m")
	t.Setenv("STOREFRONT_REDIS_ADDR", "localhost:6379")
	t.Setenv("STOREFRONT_REDIS_DB", "2")
	t.Setenv("STOREFRONT_LOG_PRETTY", "true")
	t.Setenv("STOREFRONT_PREFETCH", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.UseRedis())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.LogPretty)
	assert.True(t, cfg.Prefetch)
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STOREFRONT_HTTP_ADDR=:9090\nSTOREFRONT_LOG_LEVEL=debug\n"), 0o600))

	// Register cleanup for the variable godotenv sets, then leave it unset.
	t.Setenv("STOREFRONT_HTTP_ADDR", "")
	os.Unsetenv("STOREFRONT_HTTP_ADDR")
	t.Setenv("STOREFRONT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over the dotenv file")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad duration", key: "STOREFRONT_CACHE_TTL", value: "soon"},
		{name: "zero ttl", key: "STOREFRONT_CACHE_TTL", value: "0s"},
		{name: "bad url", key: "STOREFRONT_API_BASE_URL", value: "ftp://example.com"},
		{name: "bad level", key: "STOREFRONT_LOG_LEVEL", value: "loud"},
		{name: "no concurrency", key: "STOREFRONT_PREFETCH_CONCURRENCY", value: "0"},
		{name: "negative max entries", key: "STOREFRONT_CACHE_MAX_ENTRIES", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
