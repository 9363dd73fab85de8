package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// fetchTierTotal counts tier lookups.
	// Labels: tier (cache, store, remote, career), outcome (hit, miss, error)
	fetchTierTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sqe",
		Name:      "fetch_tier_total",
		Help:      "Stats lookups by tier and outcome",
	}, []string{"tier", "outcome"})

	// queriesTotal counts executed queries.
	// Labels: query_type, outcome (ok, partial, ambiguous, rejected, error)
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sqe",
		Name:      "queries_total",
		Help:      "Executed queries by type and outcome",
	}, []string{"query_type", "outcome"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sqe",
		Name:      "query_duration_seconds",
		Help:      "End-to-end query execution latency",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"query_type"})

	cachePurgedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sqe",
		Name:      "cache_purged_keys_total",
		Help:      "Cache keys removed by scheduled purges",
	}, []string{"reason"})

	// breakerState is the gobreaker state: 0 closed, 1 half-open, 2 open.
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sqe",
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state per remote source",
	}, []string{"service"})
)

// RecordFetch records the outcome of one tier lookup.
func RecordFetch(tier, outcome string) {
	fetchTierTotal.WithLabelValues(tier, outcome).Inc()
}

// RecordQuery records a finished query.
func RecordQuery(queryType, outcome string, elapsed time.Duration) {
	queriesTotal.WithLabelValues(queryType, outcome).Inc()
	queryDuration.WithLabelValues(queryType).Observe(elapsed.Seconds())
}
