// Package manager owns the itinerary data: it fetches it from the itinerary
// service, falls back to the cached or bundled copy when that fails, and
// publishes the result together with the selected itinerary index.
package manager

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/alert"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/dispatch"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/gate"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/model"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/observable"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/storyline"
)

const (
	DefaultFetchTimeout   = 60 * time.Second
	DefaultBannerDuration = 1500 * time.Millisecond

	// ErrorBannerText is shown when neither the service nor a fallback produced data.
	ErrorBannerText = "Error pulling data."

	bannerDelay = 50 * time.Millisecond
)

// Fetcher retrieves the raw travel data payload.
type Fetcher interface {
	FetchTravelData(ctx context.Context) ([]byte, error)
}

// Cache persists the last successful payload.
type Cache interface {
	TravelData(ctx context.Context) (raw []byte, ok bool, err error)
	SaveTravelData(ctx context.Context, raw []byte) error
}

// BackupSource yields the bundled offline payload.
type BackupSource interface {
	Load() ([]byte, error)
}

// Deps are the collaborators of a Manager. Every field except Log, Storyline,
// FetchTimeout and BannerDuration is required.
type Deps struct {
	Dispatcher dispatch.Dispatcher
	Gate       *gate.Gate
	Fetcher    Fetcher
	Cache      Cache
	Backup     BackupSource
	Banner     alert.Banner
	Notifier   *alert.Notifier
	Storyline  *storyline.Table
	Log        zerolog.Logger

	FetchTimeout   time.Duration
	BannerDuration time.Duration
}

// Manager publishes TravelData and the current itinerary index. State changes
// happen on the dispatcher's main context; I/O runs on the background lane.
type Manager struct {
	disp     dispatch.Dispatcher
	gate     *gate.Gate
	fetcher  Fetcher
	cache    Cache
	backup   BackupSource
	banner   alert.Banner
	notifier *alert.Notifier
	story    storyline.Table
	log      zerolog.Logger

	fetchTimeout   time.Duration
	bannerDuration time.Duration

	travelData *observable.Value[*model.TravelData]
	itinerary  *observable.Value[int]

	mu sync.Mutex
	// An episode spans the time the published data is invalid. Each flag is
	// set once the repair step ran in the current episode; a valid publish
	// clears both.
	fetchedThisEpisode  bool
	restoredThisEpisode bool
}

// New wires a Manager and registers it as the gate's failure handler.
// The itinerary index starts at the storyline beginning and the data at nil.
func New(d Deps) *Manager {
	m := &Manager{
		disp:           d.Dispatcher,
		gate:           d.Gate,
		fetcher:        d.Fetcher,
		cache:          d.Cache,
		backup:         d.Backup,
		banner:         d.Banner,
		notifier:       d.Notifier,
		story:          storyline.Default(),
		log:            d.Log.With().Str("component", "manager").Logger(),
		fetchTimeout:   d.FetchTimeout,
		bannerDuration: d.BannerDuration,
		travelData:     observable.New[*model.TravelData](nil),
	}
	if d.Storyline != nil {
		m.story = *d.Storyline
	}
	m.itinerary = observable.New(m.story.Beginning)
	if m.fetchTimeout <= 0 {
		m.fetchTimeout = DefaultFetchTimeout
	}
	if m.bannerDuration <= 0 {
		m.bannerDuration = DefaultBannerDuration
	}
	if m.notifier == nil {
		m.notifier = alert.NewNotifier()
	}
	m.gate.OnFailure = func(err error) {
		fetchesTotal.WithLabelValues("connect_failure").Inc()
		m.RestoreSavedStateFromLastSuccessfulConnection()
	}
	m.gate.OnConnected = m.banner.Hide
	return m
}

// CurrentTravelData is the observable data slot. Reading it has no side effects.
func (m *Manager) CurrentTravelData() *observable.Value[*model.TravelData] {
	return m.travelData
}

// CurrentItinerary is the observable index of the selected itinerary.
func (m *Manager) CurrentItinerary() *observable.Value[int] {
	return m.itinerary
}

// Notifier is the "data loaded" broadcast.
func (m *Manager) Notifier() *alert.Notifier {
	return m.notifier
}

// Storyline returns the index table in use.
func (m *Manager) Storyline() storyline.Table {
	return m.story
}

// Connected reports whether a session with the itinerary service is established.
func (m *Manager) Connected() bool {
	return m.gate.State() == gate.Connected
}

// SetItinerary selects itinerary i. The index is not validated; consumers
// treat out-of-range values as empty.
func (m *Manager) SetItinerary(i int) {
	m.log.Debug().Int("itinerary", i).Str("story", m.story.Meaning(i)).Msg("itinerary selected")
	m.itinerary.Set(i)
}

// EventAndDateAt returns the event and its date bucket for user 0, or nils when
// any index is out of range or no data is loaded.
func (m *Manager) EventAndDateAt(itinerary, date, event int) (*model.Event, *model.DateBucket) {
	bucket := m.travelData.Get().User(0).Itinerary(itinerary).Date(date)
	ev := bucket.Event(event)
	if ev == nil {
		return nil, nil
	}
	return ev, bucket
}

// EventAndDateForWeatherAlert looks up the event the weather notification refers to.
func (m *Manager) EventAndDateForWeatherAlert() (*model.Event, *model.DateBucket) {
	p := m.story.WeatherAlert
	return m.EventAndDateAt(p.Itinerary, p.Date, p.Event)
}

// EnsureDataLoaded repairs an invalid data slot. The first call after the data
// became invalid starts a fetch; later calls restore the saved state instead.
// It does nothing while the data is valid.
func (m *Manager) EnsureDataLoaded() {
	m.disp.Main(func() {
		if m.travelData.Get().IsValid() {
			return
		}
		m.mu.Lock()
		fetch := !m.fetchedThisEpisode
		m.fetchedThisEpisode = true
		m.mu.Unlock()

		if fetch {
			m.log.Info().Msg("travel data invalid, fetching")
			m.FetchTravelData(nil)
			return
		}
		m.log.Info().Msg("travel data still invalid, restoring saved state")
		m.RestoreSavedStateFromLastSuccessfulConnection()
	})
}

// repairInvalid reacts to an invalid publish: the first one in an episode
// fetches again, the next restores the saved state, later ones only log.
// Runs on the main context.
func (m *Manager) repairInvalid() {
	if m.travelData.Get().IsValid() {
		return
	}
	m.mu.Lock()
	fetch, restore := !m.fetchedThisEpisode, false
	if fetch {
		m.fetchedThisEpisode = true
	} else if !m.restoredThisEpisode {
		m.restoredThisEpisode, restore = true, true
	}
	m.mu.Unlock()

	switch {
	case fetch:
		m.log.Info().Msg("published travel data is invalid, fetching again")
		m.FetchTravelData(nil)
	case restore:
		m.log.Info().Msg("published travel data is still invalid, restoring saved state")
		m.RestoreSavedStateFromLastSuccessfulConnection()
	default:
		m.log.Warn().Msg("travel data remains invalid after fetch and restore")
	}
}

// publish runs on the main context.
func (m *Manager) publish(td *model.TravelData, source string) {
	wasValid := m.travelData.Get().IsValid()
	valid := td.IsValid()
	if valid {
		m.mu.Lock()
		m.fetchedThisEpisode, m.restoredThisEpisode = false, false
		m.mu.Unlock()
	}

	label := "false"
	if valid {
		label = "true"
	}
	publishesTotal.WithLabelValues(label).Inc()
	m.log.Info().Str("source", source).Bool("valid", valid).Msg("publishing travel data")

	m.travelData.Set(td)
	if !wasValid && valid {
		m.notifier.Broadcast()
	}
	if !valid {
		m.repairInvalid()
	}
}
