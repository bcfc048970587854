package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/localstore"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("TRAVELSYNC_HOME", t.TempDir())

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, "http://localhost:8088", cfg.BaseURL)
	assert.Equal(t, "/adapters/TravelDataAdapter/getTravelData", cfg.AdapterPath)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.BannerDuration)
	assert.Equal(t, localstore.DriverSQLite, cfg.StoreDriver)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestNew_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRAVELSYNC_BASE_URL", "http://itinerary.example.com")
	t.Setenv("TRAVELSYNC_LOCALE", "de")
	t.Setenv("TRAVELSYNC_FETCH_TIMEOUT", "5s")
	t.Setenv("TRAVELSYNC_STORE_DRIVER", "bolt")
	t.Setenv("TRAVELSYNC_DATA_DIR", dir)
	t.Setenv("TRAVELSYNC_RATE_LIMIT", "2.5")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "http://itinerary.example.com", cfg.BaseURL)
	assert.Equal(t, "de", cfg.Locale)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, localstore.DriverBolt, cfg.StoreDriver)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 2.5, cfg.RateLimit)
}

func TestResolveDefaults_TestingUsesMemory(t *testing.T) {
	cfg := NewForTesting()
	cfg.StoreDriver = "auto"
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, localstore.DriverMemory, cfg.StoreDriver)
	assert.Empty(t, cfg.DataDir, "memory store needs no directory")
	assert.True(t, cfg.IsTesting())
	assert.False(t, cfg.IsProduction())
}

func TestResolveDefaults_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"driver":      func(c *Config) { c.StoreDriver = "postgres" },
		"environment": func(c *Config) { c.Environment = "staging" },
		"timeout":     func(c *Config) { c.FetchTimeout = 0 },
		"banner":      func(c *Config) { c.BannerDuration = -time.Second },
		"retries":     func(c *Config) { c.MaxRetries = -1 },
		"base url":    func(c *Config) { c.BaseURL = "" },
	}
	for name, mutate := range cases {
		cfg := NewForTesting()
		mutate(cfg)
		assert.Error(t, cfg.ResolveDefaults(), name)
	}
}
