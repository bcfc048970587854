// Package app wires the sync client: config, the main-context loop, the
// itinerary service client, local state and the data manager.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/alert"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/backup"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/config"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/dispatch"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/gate"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/localstore"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/manager"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/remote"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/viewstate"
)

// App owns every long-lived component of the sync client.
type App struct {
	Config  *config.Config
	Log     zerolog.Logger
	Loop    *dispatch.Loop
	Client  *remote.Client
	Gate    *gate.Gate
	Store   localstore.Store
	Prefs   *localstore.Preferences
	Banner  *alert.LogBanner
	Manager *manager.Manager
}

// Summary describes the published state after a sync.
type Summary struct {
	Connected   bool
	Valid       bool
	Itineraries int
	Itinerary   int
	Banner      string
	Notified    uint64
}

// New builds an App from cfg. Close releases it.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	client, err := remote.New(cfg.BaseURL,
		remote.WithAdapterPath(cfg.AdapterPath),
		remote.WithConnectPath(cfg.ConnectPath),
		remote.WithLocale(cfg.Locale),
		remote.WithHTTPTimeout(cfg.FetchTimeout),
		remote.WithMaxRetries(cfg.MaxRetries),
		remote.WithRateLimit(cfg.RateLimit, 1),
		remote.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create itinerary client: %w", err)
	}

	store, err := localstore.Open(cfg.StoreDriver, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	loop := dispatch.NewLoop(dispatch.Config{Lane: "main"}, log)
	g := gate.New(client, loop, log)
	prefs := localstore.NewPreferences(store)
	banner := alert.NewLogBanner(log)

	m := manager.New(manager.Deps{
		Dispatcher:     loop,
		Gate:           g,
		Fetcher:        client,
		Cache:          prefs,
		Backup:         backup.Source{Path: cfg.BackupPath},
		Banner:         banner,
		Notifier:       alert.NewNotifier(),
		Log:            log,
		FetchTimeout:   cfg.FetchTimeout,
		BannerDuration: cfg.BannerDuration,
	})

	return &App{
		Config:  cfg,
		Log:     log,
		Loop:    loop,
		Client:  client,
		Gate:    g,
		Store:   store,
		Prefs:   prefs,
		Banner:  banner,
		Manager: m,
	}, nil
}

// OnMain runs fn on the main context and waits for it.
func (a *App) OnMain(ctx context.Context, fn func()) error {
	a.Loop.Main(fn)
	return a.Loop.Barrier(ctx)
}

// Start makes sure travel data is loaded: it fetches when nothing valid is
// published yet and does nothing otherwise. It waits until the manager has
// settled.
func (a *App) Start(ctx context.Context) (Summary, error) {
	a.Manager.EnsureDataLoaded()
	if err := a.Loop.Settle(ctx); err != nil {
		return Summary{}, err
	}
	return a.Summary(ctx)
}

// Sync fetches the travel data and waits until the manager has settled,
// fallback included.
func (a *App) Sync(ctx context.Context) (Summary, error) {
	a.Loop.Main(func() { a.Manager.FetchTravelData(nil) })
	if err := a.Loop.Settle(ctx); err != nil {
		return Summary{}, err
	}
	return a.Summary(ctx)
}

// Retry acknowledges a pending error banner, which retries the fetch. It
// reports false when no banner was waiting.
func (a *App) Retry(ctx context.Context) (bool, Summary, error) {
	if !a.Banner.Acknowledge() {
		s, err := a.Summary(ctx)
		return false, s, err
	}
	if err := a.Loop.Settle(ctx); err != nil {
		return true, Summary{}, err
	}
	s, err := a.Summary(ctx)
	return true, s, err
}

// Summary snapshots the published state on the main context.
func (a *App) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := a.OnMain(ctx, func() {
		td := a.Manager.CurrentTravelData().Get()
		s.Connected = a.Manager.Connected()
		s.Valid = td.IsValid()
		if u := td.User(0); u != nil {
			s.Itineraries = len(u.Itineraries)
		}
		s.Itinerary = a.Manager.CurrentItinerary().Get()
		s.Banner, _ = a.Banner.Message()
		s.Notified = a.Manager.Notifier().Count()
	})
	return s, err
}

// SelectItinerary sets the itinerary index on the main context.
func (a *App) SelectItinerary(ctx context.Context, i int) error {
	return a.OnMain(ctx, func() { a.Manager.SetItinerary(i) })
}

// TripDetail subscribes a trip detail projection to the manager.
func (a *App) TripDetail() *viewstate.TripDetail {
	return viewstate.NewTripDetail(a.Manager)
}

// FirstLaunch reports whether onboarding has not been shown yet and marks it
// shown.
func (a *App) FirstLaunch(ctx context.Context) (bool, error) {
	shown, err := a.Prefs.HasShownOnboarding(ctx)
	if err != nil {
		return false, err
	}
	if shown {
		return false, nil
	}
	return true, a.Prefs.MarkOnboardingShown(ctx)
}

// Close stops the loop and closes the store.
func (a *App) Close() error {
	a.Loop.Stop()
	return a.Store.Close()
}
