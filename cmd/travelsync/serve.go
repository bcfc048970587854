package main

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/backup"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/stubserver"
)

func newServeCmd() *cobra.Command {
	var addr, failure string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a stub itinerary service backed by the offline payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			mode, err := stubserver.ParseFailure(failure)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.StubAddr
			}

			srv := stubserver.New(stubserver.Options{
				AdapterPath: cfg.AdapterPath,
				ConnectPath: cfg.ConnectPath,
				Payload:     backup.Source{Path: cfg.BackupPath},
				Failure:     mode,
				Log:         log.Logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
				fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", a)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to TRAVELSYNC_STUB_ADDR)")
	cmd.Flags().StringVar(&failure, "failure", string(stubserver.FailNone), "Failure mode: none, connect, fetch, malformed or empty")
	return cmd
}
