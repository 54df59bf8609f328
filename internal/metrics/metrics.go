package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchAttempts tracks every physical upstream attempt by outcome kind
	FetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartcart_fetch_attempts_total",
			Help: "Total number of upstream fetch attempts",
		},
		[]string{"kind"},
	)

	// FetchRequests tracks logical fetch operations by final result
	FetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartcart_fetch_requests_total",
			Help: "Total number of logical upstream fetches",
		},
		[]string{"result"},
	)

	// FetchLatency tracks the duration of a logical fetch including backoff
	FetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartcart_fetch_duration_seconds",
			Help:    "Upstream fetch duration in seconds, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	// CacheLookups tracks catalog cache hits and misses
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartcart_cache_lookups_total",
			Help: "Total number of catalog cache lookups",
		},
		[]string{"key", "result"},
	)
)
