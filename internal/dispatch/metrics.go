package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelsync",
			Subsystem: "dispatch",
			Name:      "submissions_total",
			Help:      "Jobs accepted into a dispatch lane.",
		},
		[]string{"lane"},
	)

	queueFullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelsync",
			Subsystem: "dispatch",
			Name:      "queue_full_total",
			Help:      "Submissions rejected because the lane stayed full.",
		},
		[]string{"lane"},
	)

	jobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelsync",
			Subsystem: "dispatch",
			Name:      "job_failures_total",
			Help:      "Jobs that returned an error or panicked.",
		},
		[]string{"lane"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travelsync",
			Subsystem: "dispatch",
			Name:      "run_duration_seconds",
			Help:      "Time spent running one job.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"lane"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "travelsync",
			Subsystem: "dispatch",
			Name:      "queue_depth",
			Help:      "Jobs waiting in a lane.",
		},
		[]string{"lane"},
	)
)
