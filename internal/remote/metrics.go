package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelsync",
			Subsystem: "remote",
			Name:      "requests_total",
			Help:      "Requests to the itinerary service by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travelsync",
			Subsystem: "remote",
			Name:      "request_duration_seconds",
			Help:      "Latency of one attempt against the itinerary service.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)
