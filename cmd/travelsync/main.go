package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/app"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/config"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/logger"
)

const serviceName = "travelsync"

var (
	serviceURL string
	debug      bool
	jsonLogs   bool
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Synchronize itinerary data with the travel service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if jsonLogs {
				log.Logger = logger.New(serviceName)
			} else {
				log.Logger = logger.NewPretty(serviceName)
			}
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "", "Base URL of the itinerary service (overrides TRAVELSYNC_BASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Log JSON to stdout instead of console output on stderr")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newTripsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// loadConfig reads TRAVELSYNC_* and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if serviceURL != "" {
		cfg.BaseURL = serviceURL
	}
	if !debug && cfg.LogLevel != "" {
		if err := logger.SetLevel(cfg.LogLevel); err != nil {
			log.Warn().Err(err).Str("level", cfg.LogLevel).Msg("ignoring invalid LOG_LEVEL")
		}
	}
	return cfg, nil
}

func openApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, log.Logger)
}
