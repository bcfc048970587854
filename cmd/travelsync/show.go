package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/viewstate"
)

func newShowCmd() *cobra.Command {
	var itinerary int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Load travel data and print the timeline of one itinerary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.Config.FetchTimeout+a.Config.BannerDuration)
			defer cancel()

			td := a.TripDetail()
			defer td.Close()

			if _, err := a.Start(ctx); err != nil {
				return err
			}
			if err := a.SelectItinerary(ctx, itinerary); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "itinerary %d (%s)\n", itinerary, a.Manager.Storyline().Meaning(itinerary))
			if !td.Populated() {
				fmt.Fprintln(out, "no itinerary data")
				return nil
			}
			printTimeline(out, td)
			return nil
		},
	}
	cmd.Flags().IntVarP(&itinerary, "itinerary", "i", 0, "Itinerary index to print")
	return cmd
}

func printTimeline(w io.Writer, td *viewstate.TripDetail) {
	for s := 0; s < td.NumberOfSections(); s++ {
		h, _ := td.Header(s)
		fmt.Fprintf(w, "\n%s  %s", h.DayAndMonth, h.Condition)
		if h.TemperatureHigh != nil {
			fmt.Fprintf(w, " %.0f°", *h.TemperatureHigh)
		}
		fmt.Fprintln(w)

		for i := 0; i < td.NumberOfItems(s); i++ {
			c, ok := td.Cell(viewstate.IndexPath{Section: s, Item: i})
			if !ok {
				continue
			}
			start := "     "
			if c.Start != nil {
				start = c.Start.Time().Format("15:04")
			}
			line := fmt.Sprintf("  %s  %-14s %s", start, c.Kind, c.Title)
			if c.AffectedByWeather {
				line += "  [weather]"
			}
			fmt.Fprintln(w, line)
		}
	}
}

func newTripsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trips",
		Short: "List upcoming trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			trips := viewstate.NewMyTrips(time.Now().UTC())
			for i := 0; i < trips.NumberOfRows(); i++ {
				t, _ := trips.Trip(i)
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", t.Title, t.Subtitle)
			}
			return nil
		},
	}
}
