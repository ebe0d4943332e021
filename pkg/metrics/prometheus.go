// Package metrics provides Prometheus metrics for the hiscorewatch pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Detection intake
	detections *prometheus.CounterVec

	// Queue
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueEnqueued  *prometheus.CounterVec
	queueDequeued  prometheus.Counter
	queueRejected  *prometheus.CounterVec
	queueCleared   prometheus.Counter
	dispatchTicks  *prometheus.CounterVec
	inflightLookup prometheus.Gauge

	// Lookups
	lookups       *prometheus.CounterVec
	lookupLatency prometheus.Histogram

	// Aggregation
	parseFailures      *prometheus.CounterVec
	truncatedResponses prometheus.Counter
	achievements       *prometheus.CounterVec
	alerts             *prometheus.CounterVec

	// Caches
	suppressionSize prometheus.Gauge
	ignoreSize      prometheus.Gauge
	settingsChanges *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
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
		namespace:        "hiscorewatch",
		subsystem:        "pipeline",
		histogramBuckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.detections = m.counterVec("detections_total",
		"Detection events by source and normalizer outcome", "source", "outcome")

	m.queueSize = m.gauge("queue_size", "Current number of pending lookup requests")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of pending lookup requests")
	m.queueEnqueued = m.counterVec("queue_enqueued_total", "Requests enqueued by class", "class")
	m.queueDequeued = m.counter("queue_dequeued_total", "Requests popped by the dispatcher")
	m.queueRejected = m.counterVec("queue_rejected_total", "Requests rejected by the queue", "reason")
	m.queueCleared = m.counter("queue_cleared_total", "Requests dropped by a queue clear")
	m.dispatchTicks = m.counterVec("dispatch_ticks_total", "Dispatcher ticks by result", "result")
	m.inflightLookup = m.gauge("lookups_in_flight", "Lookups issued and not yet completed")

	m.lookups = m.counterVec("lookups_total", "Hiscore lookups by outcome", "outcome")
	m.lookupLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "lookup_latency_milliseconds",
		Help:        "Latency of hiscore lookups in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.parseFailures = m.counterVec("parse_failures_total", "Malformed response lines by category", "category")
	m.truncatedResponses = m.counter("truncated_responses_total", "Responses with fewer lines than catalog entries")
	m.achievements = m.counterVec("achievements_total", "Achievements found by kind", "kind")
	m.alerts = m.counterVec("alerts_total", "Alerts presented by source", "source")

	m.suppressionSize = m.gauge("suppression_entries", "Entries currently held by the suppression cache")
	m.ignoreSize = m.gauge("ignore_entries", "Entries currently in the ignore set")
	m.settingsChanges = m.counterVec("settings_changes_total", "Settings change notifications by key", "key")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")
}

// RecordDetection counts one detection event and what the normalizer did with it.
func RecordDetection(source, outcome string) {
	globalManager.detections.WithLabelValues(source, outcome).Inc()
}

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted enqueue for a priority class.
func RecordQueueEnqueue(class string) {
	globalManager.queueEnqueued.WithLabelValues(class).Inc()
}

// RecordQueueDequeue counts a pop by the dispatcher.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueRejected counts a rejected enqueue.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordQueueCleared counts requests dropped by Clear.
func RecordQueueCleared(dropped int) {
	globalManager.queueCleared.Add(float64(dropped))
}

// RecordDispatchTick counts a dispatcher tick; result is "dispatched" or "idle".
func RecordDispatchTick(result string) {
	globalManager.dispatchTicks.WithLabelValues(result).Inc()
}

// UpdateLookupsInFlight adjusts the in-flight lookup gauge by delta.
func UpdateLookupsInFlight(delta int) {
	globalManager.inflightLookup.Add(float64(delta))
}

// RecordLookup counts a lookup outcome: ok, no_data, transport_error.
func RecordLookup(outcome string) {
	globalManager.lookups.WithLabelValues(outcome).Inc()
}

// RecordLookupLatency records the latency of one lookup in milliseconds.
func RecordLookupLatency(latencyMs float64) {
	globalManager.lookupLatency.Observe(latencyMs)
}

// RecordParseFailure counts a malformed response line.
func RecordParseFailure(category string) {
	globalManager.parseFailures.WithLabelValues(category).Inc()
}

// RecordTruncatedResponse counts a response that stopped early.
func RecordTruncatedResponse() {
	globalManager.truncatedResponses.Inc()
}

// RecordAchievement counts an achievement; kind is rank, xp_cap or both.
func RecordAchievement(kind string) {
	globalManager.achievements.WithLabelValues(kind).Inc()
}

// RecordAlert counts an alert handed to the presenter.
func RecordAlert(source string) {
	globalManager.alerts.WithLabelValues(source).Inc()
}

// UpdateSuppressionSize sets the suppression cache size gauge.
func UpdateSuppressionSize(size int64) {
	globalManager.suppressionSize.Set(float64(size))
}

// UpdateIgnoreSize sets the ignore set size gauge.
func UpdateIgnoreSize(size int) {
	globalManager.ignoreSize.Set(float64(size))
}

// RecordSettingsChange counts a settings change notification.
func RecordSettingsChange(key string) {
	globalManager.settingsChanges.WithLabelValues(key).Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records errors by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
