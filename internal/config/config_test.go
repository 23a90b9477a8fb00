package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Search.PredictiveLimit)
	assert.Equal(t, 8, cfg.Search.PageBy)
	assert.Equal(t, 10, cfg.Search.PagesLimit)
	assert.Equal(t, 200*time.Millisecond, cfg.Search.Debounce())
	assert.Contains(t, cfg.Filters.Vendors, "Funko")
	assert.Contains(t, cfg.Filters.Types, "Plush")
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "search.toml", `
[server]
port = "9000"

[storefront]
endpoint = "https://shop.example.com/api/2024-01/graphql.json"
locale_prefix = "/en-ca"
timeout_seconds = 3

[search]
debounce_ms = 0

[filters]
vendors = ["Funko", "Bandai"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "https://shop.example.com/api/2024-01/graphql.json", cfg.Storefront.Endpoint)
	assert.Equal(t, "/en-ca", cfg.Storefront.LocalePrefix)
	assert.Equal(t, 3*time.Second, cfg.Storefront.Timeout())
	assert.Equal(t, time.Duration(0), cfg.Search.Debounce())
	assert.Equal(t, []string{"Funko", "Bandai"}, cfg.Filters.Vendors)
	// untouched sections keep their defaults
	assert.Equal(t, DefaultTypes, cfg.Filters.Types)
	assert.Equal(t, 6, cfg.Search.PredictiveLimit)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "search.yaml", `
cache:
  enabled: false
  ttl_seconds: 30
search:
  predictive_limit: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Cache.IsEnabled())
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL())
	assert.Equal(t, 4, cfg.Search.PredictiveLimit)
}

func TestValidateRejectsPredictiveLimitAboveBound(t *testing.T) {
	path := writeConfig(t, "search.yaml", `
search:
  predictive_limit: 12
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predictive_limit")

	cfg := DefaultConfig()
	cfg.Search.PredictiveLimit = MaxPredictiveLimit
	assert.NoError(t, cfg.Validate())
	cfg.Search.PredictiveLimit = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("STOREFRONT_ACCESS_TOKEN", "token-123")
	t.Setenv("CACHE_TTL", "42")
	t.Setenv("SEARCH_DEBOUNCE_MS", "150")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Server.Port)
	assert.Equal(t, "token-123", cfg.Storefront.AccessToken)
	assert.Equal(t, 42, cfg.Cache.TTLSeconds)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce())
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown extension", func(t *testing.T) {
		path := writeConfig(t, "search.json", `{}`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("bad env int", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("negative debounce", func(t *testing.T) {
		t.Setenv("SEARCH_DEBOUNCE_MS", "-5")
		_, err := Load("")
		assert.Error(t, err)
	})
}
