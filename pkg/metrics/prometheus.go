// Package metrics provides Prometheus metrics for the standings service.
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

// Default histogram buckets in milliseconds.
//
//nolint:gochecknoglobals,mnd // bucket layouts
var (
	// 0.25ms up to about 2s.
	defaultRunBuckets     = prometheus.ExponentialBuckets(0.25, 2, 14)
	defaultLatencyBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// Manager manages all Prometheus metrics for the standings service.
type Manager struct {
	namespace        string
	subsystem        string
	runBuckets       []float64
	latencyBuckets   []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Aggregation Metrics - what a standings run did
	aggregationRuns     prometheus.Counter
	aggregationFailures *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	matchesProcessed    prometheus.Counter
	scoreEvents         prometheus.Counter
	ruleAwards          *prometheus.CounterVec
	teamsTracked        prometheus.Gauge
	lastRunUnix         prometheus.Gauge

	// Loader Metrics
	matchFilesLoaded prometheus.Counter
	loadErrors       *prometheus.CounterVec

	// Snapshot Metrics - repository and publisher
	snapshotsSaved     prometheus.Counter
	snapshotsPublished prometheus.Counter
	snapshotErrors     *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "standings",
		subsystem:        "engine",
		runBuckets:       defaultRunBuckets,
		latencyBuckets:   defaultLatencyBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	reg := m.registry
	if !m.enabled {
		// Collect into a private registry that nothing exposes.
		reg = prometheus.NewRegistry()
	}
	if len(m.customLabels) > 0 {
		reg = prometheus.WrapRegistererWith(prometheus.Labels(m.customLabels), reg)
	}
	auto := promauto.With(reg)

	m.aggregationRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("aggregation_runs_total"),
		Help:      "Total number of completed standings runs",
	})

	m.aggregationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("aggregation_failures_total"),
		Help:      "Total number of aborted standings runs by stage",
	}, []string{"stage"})

	m.aggregationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("aggregation_duration_milliseconds"),
		Help:      "Histogram of standings run duration in milliseconds",
		Buckets:   m.runBuckets,
	})

	m.matchesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("matches_processed_total"),
		Help:      "Total number of matches replayed",
	})

	m.scoreEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("score_events_total"),
		Help:      "Total number of score events evaluated against rules",
	})

	m.ruleAwards = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("rule_awards_total"),
		Help:      "Total number of rule awards by rule and type",
	}, []string{"rule", "type"})

	m.teamsTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("teams"),
		Help:      "Number of teams in the latest standings",
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("last_run_timestamp_seconds"),
		Help:      "Unix time of the latest successful run",
	})

	m.matchFilesLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("match_files_loaded_total"),
		Help:      "Total number of match files decoded",
	})

	m.loadErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("load_errors_total"),
		Help:      "Total number of load errors by source",
	}, []string{"source"})

	m.snapshotsSaved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("snapshots_saved_total"),
		Help:      "Total number of standings snapshots stored",
	})

	m.snapshotsPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("snapshots_published_total"),
		Help:      "Total number of standings snapshots published",
	})

	m.snapshotErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("snapshot_errors_total"),
		Help:      "Total number of snapshot store or publish errors",
	}, []string{"sink"})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      m.name("http_requests_total"),
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      m.name("http_request_duration_milliseconds"),
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.latencyBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      m.name("errors_by_endpoint_total"),
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      m.name("memory_bytes"),
		Help:      "Allocated heap memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      m.name("goroutines"),
		Help:      "Number of goroutines",
	})
}

// Aggregation Metrics Functions.

// RecordAggregationRun records a completed run and its duration.
func RecordAggregationRun(d time.Duration, matches, scoreEvents, teams int) {
	globalManager.aggregationRuns.Inc()
	globalManager.aggregationDuration.Observe(float64(d.Microseconds()) / 1000)
	globalManager.matchesProcessed.Add(float64(matches))
	globalManager.scoreEvents.Add(float64(scoreEvents))
	globalManager.teamsTracked.Set(float64(teams))
	globalManager.lastRunUnix.Set(float64(time.Now().Unix()))
}

// RecordAggregationFailure records a run aborted at stage (load_matches, load_rules, aggregate).
func RecordAggregationFailure(stage string) {
	globalManager.aggregationFailures.WithLabelValues(stage).Inc()
}

// RecordRuleAward increments the award counter of a rule.
func RecordRuleAward(rule, ruleType string) {
	globalManager.ruleAwards.WithLabelValues(rule, ruleType).Inc()
}

// RecordMatchFileLoaded increments the decoded match file counter.
func RecordMatchFileLoaded() {
	globalManager.matchFilesLoaded.Inc()
}

// RecordLoadError records a load error for source (matches, rules).
func RecordLoadError(source string) {
	globalManager.loadErrors.WithLabelValues(source).Inc()
}

// Snapshot Metrics Functions.

// RecordSnapshotSaved increments the stored snapshot counter.
func RecordSnapshotSaved() {
	globalManager.snapshotsSaved.Inc()
}

// RecordSnapshotPublished increments the published snapshot counter.
func RecordSnapshotPublished() {
	globalManager.snapshotsPublished.Inc()
}

// RecordSnapshotError records a failure of sink (repository, publisher).
func RecordSnapshotError(sink string) {
	globalManager.snapshotErrors.WithLabelValues(sink).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns how often gauges fed by pollers should be updated.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
