package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/alert"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/backup"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/dispatch"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/gate"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/localstore"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/model"
)

// ------------------------------
// fakes
// ------------------------------

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	body  []byte
	err   error
}

func (f *fakeFetcher) FetchTravelData(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte(nil), f.body...), nil
}

func (f *fakeFetcher) set(body []byte, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.body, f.err = body, err
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeBackup struct {
	loads int
	body  []byte
	err   error
}

func (b *fakeBackup) Load() ([]byte, error) {
	b.loads++
	if b.err != nil {
		return nil, b.err
	}
	return b.body, nil
}

// countingCache records how often the fallback chain read the cache.
type countingCache struct {
	*localstore.Preferences
	reads int
}

func (c *countingCache) TravelData(ctx context.Context) ([]byte, bool, error) {
	c.reads++
	return c.Preferences.TravelData(ctx)
}

type harness struct {
	m          *Manager
	fetcher    *fakeFetcher
	backup     *fakeBackup
	store      localstore.Store
	prefs      *localstore.Preferences
	cache      *countingCache
	banner     *alert.LogBanner
	connectErr error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		fetcher: &fakeFetcher{body: payload("Berlin")},
		backup:  &fakeBackup{err: errors.New("no backup")},
		store:   localstore.NewMemory(),
		banner:  alert.NewLogBanner(zerolog.Nop()),
	}
	h.prefs = localstore.NewPreferences(h.store)
	h.cache = &countingCache{Preferences: h.prefs}
	disp := dispatch.Inline{}
	g := gate.New(gate.ConnectorFunc(func(context.Context) error { return h.connectErr }), disp, zerolog.Nop())
	h.m = New(Deps{
		Dispatcher: disp,
		Gate:       g,
		Fetcher:    h.fetcher,
		Cache:      h.cache,
		Backup:     h.backup,
		Banner:     h.banner,
		Notifier:   alert.NewNotifier(),
		Log:        zerolog.Nop(),
	})
	return h
}

func payload(title string) []byte {
	return []byte(fmt.Sprintf(`{"users":[{"name":"user1","itineraries":[{"id":"it-0","title":%q,"dates":[
		{"date":1447113600000,"events":[
			{"subType":"meeting","meetingName":"Kickoff","start_time":1447146000000},
			{"subType":"restaurant","meetingName":"Lunch","affectedByWeather":true}
		]}
	]}]}]}`, title))
}

func title(t *testing.T, m *Manager) string {
	t.Helper()
	it := m.CurrentTravelData().Get().User(0).Itinerary(0)
	require.NotNil(t, it)
	return it.Title
}

// ------------------------------
// fetch
// ------------------------------

func TestFetch_PublishesPersistsAndResetsIndex(t *testing.T) {
	h := newHarness(t)
	h.m.SetItinerary(3)

	completed := 0
	h.m.FetchTravelData(func() { completed++ })

	assert.Equal(t, 1, completed)
	assert.True(t, h.m.CurrentTravelData().Get().IsValid())
	assert.Equal(t, 0, h.m.CurrentItinerary().Get())
	assert.True(t, h.m.Connected())
	assert.Equal(t, uint64(1), h.m.Notifier().Count())

	raw, ok, err := h.prefs.TravelData(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, string(payload("Berlin")), string(raw))
}

func TestFetch_RepeatedFetchIsIdempotent(t *testing.T) {
	h := newHarness(t)

	h.m.FetchTravelData(nil)
	first := h.m.CurrentTravelData().Get()
	h.m.SetItinerary(2)
	h.m.FetchTravelData(nil)
	second := h.m.CurrentTravelData().Get()

	assert.Equal(t, first, second)
	assert.Equal(t, 0, h.m.CurrentItinerary().Get())
	assert.Equal(t, 2, h.fetcher.count(), "fetches are not merged")
	assert.Equal(t, uint64(1), h.m.Notifier().Count(), "only the invalid to valid transition broadcasts")
}

func TestFetch_DataEmittedBeforeIndexReset(t *testing.T) {
	h := newHarness(t)
	var order []string
	h.m.CurrentTravelData().Subscribe(func(*model.TravelData) { order = append(order, "data") })
	h.m.CurrentItinerary().Subscribe(func(i int) { order = append(order, fmt.Sprintf("index:%d", i)) })

	h.m.FetchTravelData(nil)

	assert.Equal(t, []string{"data", "index:0"}, order)
}

func TestFetch_UndecodableResponseFallsBack(t *testing.T) {
	h := newHarness(t)
	h.fetcher.set([]byte(`<html>`), nil)
	h.backup.body, h.backup.err = payload("Offline"), nil

	completed := false
	h.m.FetchTravelData(func() { completed = true })

	assert.False(t, completed)
	assert.Equal(t, "Offline", title(t, h.m))
	_, ok, _ := h.prefs.TravelData(context.Background())
	assert.False(t, ok, "failed payloads are not persisted")
}

// ------------------------------
// fallback chain
// ------------------------------

func TestFallback_PrefersCacheOverBackup(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.prefs.SaveTravelData(context.Background(), payload("Cached")))
	h.backup.body, h.backup.err = payload("Offline"), nil
	h.fetcher.set(nil, errors.New("timeout"))
	h.m.SetItinerary(3)

	h.m.FetchTravelData(nil)

	assert.Equal(t, "Cached", title(t, h.m))
	assert.Equal(t, 0, h.backup.loads)
	assert.Equal(t, 3, h.m.CurrentItinerary().Get(), "fallback keeps the index")
}

func TestNew_IndexStartsAtBeginning(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, h.m.Storyline().Beginning, h.m.CurrentItinerary().Get())
}

func TestFallback_OfflineDataIsAddressable(t *testing.T) {
	h := newHarness(t)
	h.connectErr = errors.New("connection refused")
	h.backup.body, h.backup.err = payload("Offline"), nil

	h.m.FetchTravelData(nil)

	it := h.m.CurrentTravelData().Get().User(0).Itinerary(h.m.CurrentItinerary().Get())
	require.NotNil(t, it, "the current index resolves after an offline load")
	assert.Equal(t, "Offline", it.Title)
}

func TestFallback_UsesBackupWhenCacheMissing(t *testing.T) {
	h := newHarness(t)
	h.backup.body, h.backup.err = payload("Offline"), nil
	h.fetcher.set(nil, errors.New("timeout"))

	h.m.FetchTravelData(nil)

	assert.Equal(t, "Offline", title(t, h.m))
	assert.Equal(t, 0, h.banner.ShownCount())
}

func TestFallback_UndecodableCacheIsSkipped(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.prefs.SaveTravelData(context.Background(), []byte(`not json`)))
	h.backup.body, h.backup.err = payload("Offline"), nil
	h.fetcher.set(nil, errors.New("timeout"))

	h.m.FetchTravelData(nil)

	assert.Equal(t, "Offline", title(t, h.m))
}

func TestFallback_DecodableInvalidCacheIsPublished(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.prefs.SaveTravelData(context.Background(), []byte(`{"users":[]}`)))
	h.fetcher.set(nil, errors.New("timeout"))

	h.m.FetchTravelData(nil)

	td := h.m.CurrentTravelData().Get()
	require.NotNil(t, td)
	assert.False(t, td.IsValid())
	assert.Equal(t, uint64(0), h.m.Notifier().Count())
	assert.Equal(t, 0, h.backup.loads)
}

func TestFallback_BannerRetriesFetch(t *testing.T) {
	h := newHarness(t)
	h.fetcher.set(nil, errors.New("timeout"))

	h.m.FetchTravelData(nil)

	assert.Nil(t, h.m.CurrentTravelData().Get())
	msg, success := h.banner.Message()
	assert.Equal(t, ErrorBannerText, msg)
	assert.False(t, success)
	assert.True(t, h.banner.IsDisplaying())

	h.fetcher.set(payload("Recovered"), nil)
	require.True(t, h.banner.Acknowledge())

	assert.Equal(t, "Recovered", title(t, h.m))
	assert.Equal(t, 2, h.fetcher.count())
	assert.False(t, h.banner.IsDisplaying())
}

func TestFallback_BannerNotStackedWhileDisplaying(t *testing.T) {
	h := newHarness(t)
	h.fetcher.set(nil, errors.New("timeout"))

	h.m.FetchTravelData(nil)
	h.m.FetchTravelData(nil)

	assert.Equal(t, 1, h.banner.ShownCount())
}

func TestConnectFailure_RunsFallbackWithoutFetching(t *testing.T) {
	h := newHarness(t)
	h.connectErr = errors.New("connection refused")
	h.backup.body, h.backup.err = payload("Offline"), nil

	completed := false
	h.m.FetchTravelData(func() { completed = true })

	assert.False(t, completed)
	assert.False(t, h.m.Connected())
	assert.Equal(t, 0, h.fetcher.count())
	assert.Equal(t, "Offline", title(t, h.m))
}

// ------------------------------
// EnsureDataLoaded and notifications
// ------------------------------

func TestEnsureDataLoaded_FetchesOnceThenRestores(t *testing.T) {
	h := newHarness(t)
	h.fetcher.set(nil, errors.New("timeout"))
	h.backup.body, h.backup.err = []byte(`{"users":[]}`), nil

	h.m.EnsureDataLoaded()
	assert.Equal(t, 1, h.fetcher.count())
	assert.Equal(t, 1, h.backup.loads)

	h.m.EnsureDataLoaded()
	h.m.EnsureDataLoaded()
	assert.Equal(t, 1, h.fetcher.count(), "later calls in the same episode restore instead of fetching")
	assert.Equal(t, 3, h.backup.loads)
}

func TestEnsureDataLoaded_NoopWhenValid(t *testing.T) {
	h := newHarness(t)
	h.m.FetchTravelData(nil)
	require.Equal(t, 1, h.fetcher.count())

	h.m.EnsureDataLoaded()

	assert.Equal(t, 1, h.fetcher.count())
}

func TestEnsureDataLoaded_ValidPublishStartsNewEpisode(t *testing.T) {
	h := newHarness(t)
	h.m.EnsureDataLoaded()
	require.Equal(t, 1, h.fetcher.count())
	require.True(t, h.m.CurrentTravelData().Get().IsValid())

	h.fetcher.set(nil, errors.New("timeout"))
	h.m.CurrentTravelData().Set(nil)
	h.m.EnsureDataLoaded()

	assert.Equal(t, 2, h.fetcher.count(), "the first call after a valid publish fetches again")
}

func TestInvalidPublish_RefetchesThenRestores(t *testing.T) {
	h := newHarness(t)
	h.m.FetchTravelData(nil)
	require.True(t, h.m.CurrentTravelData().Get().IsValid())
	require.Equal(t, 0, h.cache.reads)

	h.fetcher.set([]byte(`{"users":[]}`), nil)
	h.m.FetchTravelData(nil)

	assert.Equal(t, 3, h.fetcher.count(), "an invalid response triggers one more fetch")
	assert.Equal(t, 1, h.cache.reads, "a second invalid response restores the saved state once")
	assert.False(t, h.m.CurrentTravelData().Get().IsValid())

	h.fetcher.set(payload("Healed"), nil)
	h.m.FetchTravelData(nil)
	assert.Equal(t, "Healed", title(t, h.m))
	assert.Equal(t, uint64(2), h.m.Notifier().Count())
}

func TestInvalidPublish_RepairIsBoundedPerEpisode(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.prefs.SaveTravelData(context.Background(), []byte(`{"users":[]}`)))
	h.fetcher.set(nil, errors.New("timeout"))

	h.m.FetchTravelData(nil)

	// failed fetch -> cache restore -> repair fetch -> cache restore -> stop
	assert.Equal(t, 2, h.fetcher.count())
	assert.Equal(t, 2, h.cache.reads)
	assert.False(t, h.m.CurrentTravelData().Get().IsValid())
}

func TestNotifier_BroadcastsOnEachInvalidToValidTransition(t *testing.T) {
	h := newHarness(t)
	received := 0
	h.m.Notifier().Subscribe(func() { received++ })

	h.m.FetchTravelData(nil)
	h.fetcher.set([]byte(`{"users":[]}`), nil)
	h.m.FetchTravelData(nil)
	h.fetcher.set(payload("Again"), nil)
	h.m.FetchTravelData(nil)

	assert.Equal(t, 2, received)
}

// ------------------------------
// lookups
// ------------------------------

func TestEventAndDateAt_OutOfRange(t *testing.T) {
	h := newHarness(t)

	ev, date := h.m.EventAndDateAt(0, 0, 0)
	assert.Nil(t, ev, "no data loaded")
	assert.Nil(t, date)

	h.m.FetchTravelData(nil)

	ev, date = h.m.EventAndDateAt(0, 0, 1)
	require.NotNil(t, ev)
	require.NotNil(t, date)
	assert.Equal(t, "Lunch", ev.Title())

	for _, idx := range [][3]int{{-1, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 2}, {0, -1, 0}, {0, 0, -1}} {
		ev, date := h.m.EventAndDateAt(idx[0], idx[1], idx[2])
		assert.Nil(t, ev, "index %v", idx)
		assert.Nil(t, date, "index %v", idx)
	}
}

func TestEventAndDateForWeatherAlert(t *testing.T) {
	h := newHarness(t)
	h.fetcher.set(backup.Bundled(), nil)
	h.m.FetchTravelData(nil)

	ev, date := h.m.EventAndDateForWeatherAlert()
	require.NotNil(t, ev)
	require.NotNil(t, date)
	assert.True(t, ev.IsAffectedByWeather())
	assert.Equal(t, model.SubTypeRestaurant, ev.SubType)
}

func TestSetItinerary_DoesNotValidate(t *testing.T) {
	h := newHarness(t)
	h.m.SetItinerary(42)
	assert.Equal(t, 42, h.m.CurrentItinerary().Get())
	assert.Equal(t, "itinerary 42", h.m.Storyline().Meaning(42))
}
