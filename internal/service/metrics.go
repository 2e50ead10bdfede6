package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Endpoint labels.
const (
	endpointCategories = "categories"
	endpointLookup     = "lookup"
	endpointFilter     = "filter"
	endpointRandom     = "random"
	endpointSearch     = "search"
)

// Outcome labels.
const (
	outcomeOK       = "ok"
	outcomeEmpty    = "empty"
	outcomeFailed   = "failed"
	outcomeSkipped  = "skipped"
	outcomeCanceled = "canceled"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealdb_upstream_requests_total",
			Help: "TheMealDB calls by endpoint and outcome, including skipped calls",
		},
		[]string{"endpoint", "outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealdb_upstream_request_duration_seconds",
			Help:    "TheMealDB round trip latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func recordOutcome(endpoint, outcome string) {
	upstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}
