package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Text-generation call latency (milliseconds)
	NarrativeCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "narrative_call_latency_ms",
			Help:    "Text-generation call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(50, 2, 10), // 50ms to ~25s
		},
		[]string{"kind", "status"},
	)

	// Narratives served from the bundled fallback instead of the generator
	NarrativeFallbackCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narrative_fallback_total",
			Help: "Total number of narratives answered with the fallback text",
		},
		[]string{"kind", "reason"},
	)

	TaskCompletedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "task_completed_total",
			Help: "Total number of task completions",
		},
	)

	PointsAwardedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Total number of points awarded on completion",
		},
	)

	// Streak transitions: incremented | reset | unchanged
	StreakTransitionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streak_transition_total",
			Help: "Streak rule outcomes",
		},
		[]string{"outcome"},
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_total",
			Help: "Total number of queries above the slow threshold",
		},
	)

	SlowQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_slow_query_duration_seconds",
			Help:    "Duration of slow queries in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~12.8s
		},
	)
)

// RecordHTTPRequestDuration observes one HTTP request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordNarrativeCallLatency observes one generator call
func RecordNarrativeCallLatency(kind, status string, duration time.Duration) {
	NarrativeCallLatency.WithLabelValues(kind, status).Observe(float64(duration.Milliseconds()))
}

// IncrementNarrativeFallback counts a fallback answer
func IncrementNarrativeFallback(kind, reason string) {
	NarrativeFallbackCount.WithLabelValues(kind, reason).Inc()
}

// RecordCompletion counts a completion and the points it awarded
func RecordCompletion(points int) {
	TaskCompletedCount.Inc()
	if points > 0 {
		PointsAwardedCount.Add(float64(points))
	}
}

// IncrementStreakTransition counts a streak rule outcome
func IncrementStreakTransition(outcome string) {
	StreakTransitionCount.WithLabelValues(outcome).Inc()
}

// IncrementSlowQuery records a query that crossed the slow threshold.
// The SQL text is logged by the caller, not used as a label.
func IncrementSlowQuery(_ string, duration time.Duration) {
	SlowQueryCount.Inc()
	SlowQueryDuration.Observe(duration.Seconds())
}
