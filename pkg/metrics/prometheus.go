// Package metrics provides Prometheus metrics for the Detetive companion service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultLatencyBuckets covers sub-millisecond grid updates up to slow HTTP
// requests. Values are milliseconds.
var defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000} //nolint:gochecknoglobals // read-only defaults

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace      string
	subsystem      string
	metricPrefix   string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Session lifecycle
	sessionsCreated prometheus.Counter
	sessionsDeleted prometheus.Counter
	sessionsEvicted prometheus.Counter
	sessionsActive  prometheus.Gauge

	// Grid activity
	cycles          *prometheus.CounterVec
	exclusions      prometheus.Counter
	cycleDuplicates prometheus.Counter
	cycleLatency    prometheus.Histogram

	// Deduction
	deductions prometheus.Counter
	solutions  prometheus.Counter

	// Change feed
	feedPublished   prometheus.Counter
	feedDropped     prometheus.Counter
	feedSubscribers prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "detetive",
		subsystem:      "companion",
		latencyBuckets: defaultLatencyBuckets,
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.sessionsCreated = m.counter("sessions_created_total", "Total number of sessions created")
	m.sessionsDeleted = m.counter("sessions_deleted_total", "Total number of sessions deleted by clients")
	m.sessionsEvicted = m.counter("sessions_evicted_total", "Total number of idle sessions evicted")
	m.sessionsActive = m.gauge("sessions_active", "Number of sessions held in memory")

	m.cycles = m.counterVec("cycles_total", "Total number of cell cycles by resulting mark", "mark")
	m.exclusions = m.counter("exclusions_forced_total", "Total number of cells forced to NO by a confirmed holder")
	m.cycleDuplicates = m.counter("cycle_duplicates_total", "Total number of repeated cycle requests ignored")
	m.cycleLatency = m.histogram("cycle_latency_milliseconds", "Histogram of cycle handling latency in milliseconds")

	m.deductions = m.counter("deductions_total", "Total number of candidate deductions computed")
	m.solutions = m.counter("solutions_total", "Total number of envelopes fully deduced")

	m.feedPublished = m.counter("feed_published_total", "Total number of change notifications delivered")
	m.feedDropped = m.counter("feed_dropped_total", "Total number of change notifications dropped for slow subscribers")
	m.feedSubscribers = m.gauge("feed_subscribers", "Number of connected change feed subscribers")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total errors by component and type",
		"component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total errors by type and severity",
		"error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total errors by endpoint, method and type",
		"endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that ended in an error",
		"component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds")
}

// Session lifecycle.

// RecordSessionCreated increments the created sessions counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionDeleted increments the deleted sessions counter.
func RecordSessionDeleted() {
	globalManager.sessionsDeleted.Inc()
}

// RecordSessionsEvicted adds n idle sessions to the eviction counter.
func RecordSessionsEvicted(n int) {
	globalManager.sessionsEvicted.Add(float64(n))
}

// UpdateActiveSessions sets the number of sessions in memory.
func UpdateActiveSessions(n int) {
	globalManager.sessionsActive.Set(float64(n))
}

// Grid activity.

// RecordCycle counts one cycle ending in the given mark and the cells it
// forced to NO.
func RecordCycle(mark string, exclusions int) {
	globalManager.cycles.WithLabelValues(mark).Inc()
	if exclusions > 0 {
		globalManager.exclusions.Add(float64(exclusions))
	}
}

// RecordCycleDuplicate counts a repeated cycle request that was ignored.
func RecordCycleDuplicate() {
	globalManager.cycleDuplicates.Inc()
}

// RecordCycleLatency records cycle handling latency in milliseconds.
func RecordCycleLatency(latencyMs float64) {
	globalManager.cycleLatency.Observe(latencyMs)
}

// Deduction.

// RecordDeduction counts one candidate computation.
func RecordDeduction() {
	globalManager.deductions.Inc()
}

// RecordSolution counts a session whose envelope became fully deduced.
func RecordSolution() {
	globalManager.solutions.Inc()
}

// Change feed.

// RecordFeedPublished counts a notification handed to a subscriber.
func RecordFeedPublished() {
	globalManager.feedPublished.Inc()
}

// RecordFeedDropped counts a notification dropped for a full subscriber.
func RecordFeedDropped() {
	globalManager.feedDropped.Inc()
}

// UpdateFeedSubscribers sets the number of live subscribers.
func UpdateFeedSubscribers(n int) {
	globalManager.feedSubscribers.Set(float64(n))
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System.

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
