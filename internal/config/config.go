package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/localstore"
)

// Prefix is the environment variable prefix, e.g. TRAVELSYNC_BASE_URL.
const Prefix = "TRAVELSYNC"

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration of the sync client and the stub service.
// Environment variables are parsed from the TRAVELSYNC_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// Itinerary service
	BaseURL      string        `envconfig:"BASE_URL" default:"http://localhost:8088"`
	AdapterPath  string        `envconfig:"ADAPTER_PATH" default:"/adapters/TravelDataAdapter/getTravelData"`
	ConnectPath  string        `envconfig:"CONNECT_PATH" default:"/api/session"`
	Locale       string        `envconfig:"LOCALE" default:"en"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"60s"`
	MaxRetries   int           `envconfig:"MAX_RETRIES" default:"0"`
	// RateLimit is requests per second; 0 disables pacing.
	RateLimit float64 `envconfig:"RATE_LIMIT" default:"0"`

	// Local state: auto, sqlite, bolt or memory
	StoreDriver string `envconfig:"STORE_DRIVER" default:"auto"`
	DataDir     string `envconfig:"DATA_DIR" default:""`
	// BackupPath overrides the bundled offline payload.
	BackupPath string `envconfig:"BACKUP_PATH" default:""`

	BannerDuration time.Duration `envconfig:"BANNER_DURATION" default:"1500ms"`

	// Stub itinerary service
	StubAddr string `envconfig:"STUB_ADDR" default:":8088"`
}

// ResolveDefaults validates the config and derives StoreDriver and DataDir
// when they are left to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction, EnvTesting:
	default:
		return fmt.Errorf("unsupported ENVIRONMENT: %s", c.Environment)
	}

	if c.StoreDriver == "" || c.StoreDriver == "auto" {
		c.StoreDriver = localstore.DriverSQLite
		if c.Environment == EnvTesting {
			c.StoreDriver = localstore.DriverMemory
		}
	}
	allowed := map[string]bool{
		localstore.DriverSQLite: true,
		localstore.DriverBolt:   true,
		localstore.DriverMemory: true,
	}
	if !allowed[c.StoreDriver] {
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}

	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL must not be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be > 0, got %s", c.FetchTimeout)
	}
	if c.BannerDuration <= 0 {
		return fmt.Errorf("BANNER_DURATION must be > 0, got %s", c.BannerDuration)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be >= 0, got %d", c.MaxRetries)
	}

	if c.DataDir == "" && c.StoreDriver != localstore.DriverMemory {
		dir, err := localstore.DataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		c.DataDir = dir
	}
	return nil
}

// New creates a new Config by parsing environment variables
// Example: TRAVELSYNC_BASE_URL, TRAVELSYNC_STORE_DRIVER
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("base_url", cfg.BaseURL).
		Str("adapter_path", cfg.AdapterPath).
		Str("locale", cfg.Locale).
		Dur("fetch_timeout", cfg.FetchTimeout).
		Int("max_retries", cfg.MaxRetries).
		Float64("rate_limit", cfg.RateLimit).
		Str("store_driver", cfg.StoreDriver).
		Str("data_dir", cfg.DataDir).
		Bool("backup_override", cfg.BackupPath != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:    EnvTesting,
		LogLevel:       "debug",
		BaseURL:        "http://localhost:8088",
		AdapterPath:    "/adapters/TravelDataAdapter/getTravelData",
		ConnectPath:    "/api/session",
		Locale:         "en",
		FetchTimeout:   5 * time.Second,
		StoreDriver:    localstore.DriverMemory,
		BannerDuration: 1500 * time.Millisecond,
		StubAddr:       "127.0.0.1:0",
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
