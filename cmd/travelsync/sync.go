package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/app"
)

func newSyncCmd() *cobra.Command {
	var retry bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch travel data, falling back to the cached or bundled copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.Config.FetchTimeout+a.Config.BannerDuration)
			defer cancel()

			first, err := a.FirstLaunch(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("reading onboarding flag failed")
			}
			if first {
				fmt.Fprintln(cmd.OutOrStdout(), "Welcome! Your itineraries are kept available offline.")
			}

			s, err := a.Sync(ctx)
			if err != nil {
				return err
			}
			if retry && s.Banner != "" {
				log.Info().Str("banner", s.Banner).Msg("retrying after error banner")
				if _, s, err = a.Retry(ctx); err != nil {
					return err
				}
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&retry, "retry", false, "Acknowledge an error banner once, which retries the fetch")
	return cmd
}

func printSummary(w io.Writer, s app.Summary) {
	fmt.Fprintf(w, "connected:   %t\n", s.Connected)
	fmt.Fprintf(w, "valid:       %t\n", s.Valid)
	fmt.Fprintf(w, "itineraries: %d\n", s.Itineraries)
	fmt.Fprintf(w, "selected:    %d\n", s.Itinerary)
	if s.Banner != "" {
		fmt.Fprintf(w, "banner:      %s\n", s.Banner)
	}
}
