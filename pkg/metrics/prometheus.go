// Package metrics provides Prometheus metrics for the arena rating service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the arena service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Core Business Metrics - vote ingestion and rating updates
	votesRecorded       prometheus.Counter
	votesDuplicate      prometheus.Counter
	votesRejected       prometheus.Counter
	ratingUpdateLatency prometheus.Histogram
	replayVotes         prometheus.Gauge

	// Matchmaking Metrics - fair-pair search behavior
	pairSelected       prometheus.Counter
	pairNotFound       prometheus.Counter
	pairSearchAttempts prometheus.Histogram

	// Operational Health Metrics
	totalReviewers prometheus.Gauge
	activeSessions prometheus.Gauge
	voteLogSize    prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "rating",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.votesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "votes_recorded_total",
		Help:      "Total number of votes durably recorded and applied to ratings",
	})

	m.votesDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "votes_duplicate_total",
		Help:      "Total number of duplicate vote submissions detected",
	})

	m.votesRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "votes_rejected_total",
		Help:      "Total number of votes rejected by validation",
	})

	m.ratingUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "update_latency_milliseconds",
		Help:      "Histogram of rating update latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.replayVotes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_votes",
		Help:      "Number of historical votes replayed at startup",
	})

	m.pairSelected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pair_selected_total",
		Help:      "Total number of fair pairs returned by matchmaking",
	})

	m.pairNotFound = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pair_not_found_total",
		Help:      "Total number of fair-pair searches that exhausted their attempt budget",
	})

	m.pairSearchAttempts = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pair_search_attempts",
		Help:      "Histogram of outer-loop attempts spent per fair-pair search",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
	})

	m.totalReviewers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_reviewers",
		Help:      "Total number of reviewers with a rating on record",
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Current number of active arena sessions",
	})

	m.voteLogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vote_log_size",
		Help:      "Total number of votes in the durable log",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total errors by component and error type",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Histogram of GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Vote Metrics Functions.

// RecordVoteRecorded increments the recorded-vote counter.
func RecordVoteRecorded() {
	globalManager.votesRecorded.Inc()
}

// RecordVoteDuplicate increments the duplicate-vote counter.
func RecordVoteDuplicate() {
	globalManager.votesDuplicate.Inc()
}

// RecordVoteRejected increments the rejected-vote counter.
func RecordVoteRejected() {
	globalManager.votesRejected.Inc()
}

// RecordRatingUpdateLatency records rating update latency.
func RecordRatingUpdateLatency(latencyMs float64) {
	globalManager.ratingUpdateLatency.Observe(latencyMs)
}

// UpdateReplayVotes sets the number of votes replayed at startup.
func UpdateReplayVotes(count int) {
	globalManager.replayVotes.Set(float64(count))
}

// Matchmaking Metrics Functions.

// RecordPairSelected increments the selected-pair counter.
func RecordPairSelected() {
	globalManager.pairSelected.Inc()
}

// RecordPairNotFound increments the exhausted-search counter.
func RecordPairNotFound() {
	globalManager.pairNotFound.Inc()
}

// RecordPairSearchAttempts records the attempts spent in one search.
func RecordPairSearchAttempts(attempts int) {
	globalManager.pairSearchAttempts.Observe(float64(attempts))
}

// Operational Health Metrics Functions.

// UpdateTotalReviewers sets the number of reviewers with a rating.
func UpdateTotalReviewers(count int) {
	globalManager.totalReviewers.Set(float64(count))
}

// UpdateActiveSessions sets the number of active sessions.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// UpdateVoteLogSize sets the size of the durable vote log.
func UpdateVoteLogSize(count int) {
	globalManager.voteLogSize.Set(float64(count))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request with endpoint, method, and status labels.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
