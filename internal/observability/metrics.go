package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GatewayRequestDuration records remote backend latency by operation and outcome.
	GatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uniconnect_gateway_request_duration_seconds",
		Help:    "Latency of remote backend requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	// OptimisticApplied counts local changes applied before the backend answered.
	OptimisticApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniconnect_optimistic_applied_total",
		Help: "Total number of optimistic changes applied to the post cache",
	}, []string{"action"})

	// OptimisticRollbacks counts optimistic changes restored after a failure.
	OptimisticRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniconnect_optimistic_rollbacks_total",
		Help: "Total number of optimistic changes rolled back",
	}, []string{"action"})

	// ActionOutcomes counts user actions by result.
	ActionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniconnect_action_outcomes_total",
		Help: "Total number of feed actions by outcome",
	}, []string{"action", "outcome"})

	// FeedCacheSize is the number of posts held by the local cache.
	FeedCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "uniconnect_feed_cache_posts",
		Help: "Number of posts in the local feed cache",
	})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniconnect_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uniconnect_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// ObserveGateway records the latency of one backend request.
func ObserveGateway(operation string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	GatewayRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
