package manager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelsync",
			Subsystem: "manager",
			Name:      "fetches_total",
			Help:      "Travel data fetches by outcome.",
		},
		[]string{"outcome"},
	)

	fallbackLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelsync",
			Subsystem: "manager",
			Name:      "fallback_loads_total",
			Help:      "Fallback chain resolutions by tier (cache, backup, banner).",
		},
		[]string{"tier"},
	)

	publishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelsync",
			Subsystem: "manager",
			Name:      "publishes_total",
			Help:      "Travel data values published, split by validity.",
		},
		[]string{"valid"},
	)

	fetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "travelsync",
			Subsystem: "manager",
			Name:      "fetch_duration_seconds",
			Help:      "Time from fetch start to a parsed payload or failure.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
