package manager

import (
	"context"
	"time"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/errors"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/model"
)

// FetchTravelData requests the payload once the gate is connected. On success
// the raw payload is persisted, the data is published, the itinerary index is
// reset to 0, the banner is hidden and onComplete runs. On failure the fallback
// chain runs and onComplete does not. onComplete may be nil.
//
// Concurrent calls are not merged; each performs its own request.
func (m *Manager) FetchTravelData(onComplete func()) {
	m.gate.RequestFetch(func() { m.fetch(onComplete) })
}

func (m *Manager) fetch(onComplete func()) {
	m.disp.Background(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
		defer cancel()

		start := time.Now()
		raw, err := m.fetcher.FetchTravelData(ctx)
		var td *model.TravelData
		if err == nil {
			if td, err = model.ParseTravelDataJSON(raw); err != nil {
				err = errors.NewDecodeError("decode travel data", err)
			}
		}
		fetchDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			fetchesTotal.WithLabelValues("failure").Inc()
			m.log.Warn().Err(err).Bool("irrecoverable", errors.IsIrrecoverable(err)).
				Msg("travel data fetch failed, falling back")
			m.disp.Main(m.RestoreSavedStateFromLastSuccessfulConnection)
			return
		}

		fetchesTotal.WithLabelValues("success").Inc()
		if err := m.cache.SaveTravelData(ctx, raw); err != nil {
			m.log.Error().Stack().Err(err).Msg("persisting travel data failed")
		}

		m.disp.Main(func() {
			m.publish(td, "service")
			m.itinerary.Set(0)
			m.banner.Hide()
			if onComplete != nil {
				onComplete()
			}
		})
	})
}

// RestoreSavedStateFromLastSuccessfulConnection publishes the cached payload,
// or the bundled backup when there is no usable cache. When neither is usable
// an error banner is shown whose acknowledgement retries the fetch.
//
// A tier is skipped when it is missing, unreadable or not JSON. A tier that
// decodes is published even if it holds no itineraries.
func (m *Manager) RestoreSavedStateFromLastSuccessfulConnection() {
	if !m.travelData.Get().IsValid() {
		m.mu.Lock()
		m.restoredThisEpisode = true
		m.mu.Unlock()
	}
	m.disp.Background(func(ctx context.Context) {
		if td, ok := m.loadCache(ctx); ok {
			fallbackLoadsTotal.WithLabelValues("cache").Inc()
			m.log.Info().Msg("unable to reach itinerary service, using data from the last successful connection")
			m.disp.Main(func() { m.publish(td, "cache") })
			return
		}
		if td, ok := m.loadBackup(); ok {
			fallbackLoadsTotal.WithLabelValues("backup").Inc()
			m.log.Info().Msg("unable to reach itinerary service and nothing cached, using the offline backup")
			m.disp.Main(func() { m.publish(td, "backup") })
			return
		}
		fallbackLoadsTotal.WithLabelValues("banner").Inc()
		m.log.Error().Msg("no travel data available from service, cache or backup")
		m.disp.Main(func() { m.showBanner(ErrorBannerText, false) })
	})
}

func (m *Manager) loadCache(ctx context.Context) (*model.TravelData, bool) {
	raw, ok, err := m.cache.TravelData(ctx)
	if err != nil {
		m.log.Warn().Stack().Err(err).Msg("reading cached travel data failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	td, err := model.ParseTravelDataJSON(raw)
	if err != nil {
		m.log.Warn().Err(err).Msg("cached travel data is not decodable")
		return nil, false
	}
	return td, true
}

func (m *Manager) loadBackup() (*model.TravelData, bool) {
	if m.backup == nil {
		return nil, false
	}
	raw, err := m.backup.Load()
	if err != nil {
		m.log.Warn().Stack().Err(err).Msg("reading offline backup failed")
		return nil, false
	}
	td, err := model.ParseTravelDataJSON(raw)
	if err != nil {
		m.log.Warn().Err(err).Msg("offline backup is not decodable")
		return nil, false
	}
	return td, true
}

// showBanner waits briefly and shows the banner unless one is already up.
// Acknowledging it retries the fetch.
func (m *Manager) showBanner(text string, success bool) {
	m.disp.After(bannerDelay, func() {
		if m.banner.IsDisplaying() {
			return
		}
		m.banner.Show(text, m.bannerDuration, success, func() {
			m.disp.Main(func() { m.FetchTravelData(nil) })
		})
	})
}
