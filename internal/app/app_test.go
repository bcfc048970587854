package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/backup"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/config"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/localstore"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/manager"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/stubserver"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/viewstate"
)

func newApp(t *testing.T, mutate func(*config.Config)) (*App, *stubserver.Server) {
	t.Helper()
	cfg := config.NewForTesting()
	stub := stubserver.New(stubserver.Options{
		AdapterPath: cfg.AdapterPath,
		ConnectPath: cfg.ConnectPath,
		Payload:     backup.Source{},
		Log:         zerolog.Nop(),
	})
	ts := httptest.NewServer(stub)
	t.Cleanup(ts.Close)

	cfg.BaseURL = ts.URL
	if mutate != nil {
		mutate(cfg)
	}
	a, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, stub
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestSync_PublishesServiceData(t *testing.T) {
	a, stub := newApp(t, nil)

	s, err := a.Sync(ctx(t))
	require.NoError(t, err)
	assert.True(t, s.Connected)
	assert.True(t, s.Valid)
	assert.Equal(t, 5, s.Itineraries)
	assert.Equal(t, 0, s.Itinerary)
	assert.Empty(t, s.Banner)
	assert.Equal(t, uint64(1), s.Notified)
	assert.Equal(t, 1, stub.Hits("connect"))
	assert.Equal(t, 1, stub.Hits("fetch"))

	raw, ok, err := a.Prefs.TravelData(ctx(t))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, backup.Bundled(), raw)

	// A second sync reuses the session.
	_, err = a.Sync(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, 1, stub.Hits("connect"))
	assert.Equal(t, 2, stub.Hits("fetch"))
}

func TestSync_ConnectFailureFallsBackToBackup(t *testing.T) {
	a, stub := newApp(t, nil)
	stub.SetFailure(stubserver.FailConnect)

	s, err := a.Sync(ctx(t))
	require.NoError(t, err)
	assert.False(t, s.Connected)
	assert.True(t, s.Valid, "bundled backup is published")
	assert.Equal(t, a.Manager.Storyline().Beginning, s.Itinerary)
	assert.Equal(t, 0, stub.Hits("fetch"))
}

func TestSync_OfflineDataReachesTripDetail(t *testing.T) {
	a, stub := newApp(t, nil)
	stub.SetFailure(stubserver.FailConnect)
	td := a.TripDetail()
	defer td.Close()

	_, err := a.Sync(ctx(t))
	require.NoError(t, err)
	require.NoError(t, a.OnMain(ctx(t), func() {}))

	assert.True(t, td.Populated())
	assert.Equal(t, 3, td.NumberOfSections())
}

func TestStart_LoadsOnceThenNoop(t *testing.T) {
	a, stub := newApp(t, nil)

	s, err := a.Start(ctx(t))
	require.NoError(t, err)
	assert.True(t, s.Valid)
	assert.Equal(t, 1, stub.Hits("fetch"))

	_, err = a.Start(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, 1, stub.Hits("fetch"), "valid data is not fetched again")
}

func TestSync_EmptyPayloadRefetchesThenRestores(t *testing.T) {
	a, stub := newApp(t, nil)
	_, err := a.Sync(ctx(t))
	require.NoError(t, err)

	stub.SetFailure(stubserver.FailEmpty)
	s, err := a.Sync(ctx(t))
	require.NoError(t, err)
	// the empty answer is fetched again once, then the saved state is restored
	assert.Equal(t, 3, stub.Hits("fetch"))
	assert.False(t, s.Valid)

	stub.SetFailure(stubserver.FailNone)
	s, err = a.Sync(ctx(t))
	require.NoError(t, err)
	assert.True(t, s.Valid)
	assert.Equal(t, uint64(2), s.Notified)
}

func TestSync_FetchFailureUsesCache(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "backup.json")
	require.NoError(t, os.WriteFile(custom, []byte(`{"users":[]}`), 0o600))

	a, stub := newApp(t, func(c *config.Config) { c.BackupPath = custom })
	_, err := a.Sync(ctx(t))
	require.NoError(t, err)

	stub.SetFailure(stubserver.FailMalformed)
	s, err := a.Sync(ctx(t))
	require.NoError(t, err)
	assert.True(t, s.Valid, "cached payload wins over the invalid backup")
	assert.Equal(t, 5, s.Itineraries)
}

func TestRetry_AcknowledgingErrorBannerRefetches(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "backup.json")
	require.NoError(t, os.WriteFile(broken, []byte(`not json`), 0o600))

	a, stub := newApp(t, func(c *config.Config) { c.BackupPath = broken })
	stub.SetFailure(stubserver.FailFetch)

	s, err := a.Sync(ctx(t))
	require.NoError(t, err)
	assert.False(t, s.Valid)
	assert.Equal(t, manager.ErrorBannerText, s.Banner)

	stub.SetFailure(stubserver.FailNone)
	retried, s, err := a.Retry(ctx(t))
	require.NoError(t, err)
	assert.True(t, retried)
	assert.True(t, s.Valid)
	assert.Empty(t, s.Banner)

	retried, _, err = a.Retry(ctx(t))
	require.NoError(t, err)
	assert.False(t, retried)
}

func TestTripDetail_FollowsSelection(t *testing.T) {
	a, _ := newApp(t, nil)
	td := a.TripDetail()
	defer td.Close()

	_, err := a.Sync(ctx(t))
	require.NoError(t, err)
	require.NoError(t, a.OnMain(ctx(t), func() {}))
	assert.True(t, td.Populated())
	assert.Equal(t, 3, td.NumberOfSections())

	story := a.Manager.Storyline()
	require.NoError(t, a.SelectItinerary(ctx(t), story.Weather))
	assert.True(t, td.IsAffectedByWeather(viewstate.IndexPath{Section: 2, Item: 1}))
}

func TestFirstLaunch(t *testing.T) {
	a, _ := newApp(t, func(c *config.Config) {
		c.StoreDriver = localstore.DriverBolt
		c.DataDir = t.TempDir()
	})

	first, err := a.FirstLaunch(ctx(t))
	require.NoError(t, err)
	assert.True(t, first)

	first, err = a.FirstLaunch(ctx(t))
	require.NoError(t, err)
	assert.False(t, first)
}
