// Package metrics provides Prometheus metrics for the rentscore analysis engine.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Label values for source request outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Manager manages all Prometheus metrics for the analysis engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Region pipeline
	regionsRequested prometheus.Counter
	regionsDuplicate prometheus.Counter
	regionsScored    prometheus.Counter
	regionsSkipped   *prometheus.CounterVec
	scoringLatency   prometheus.Histogram
	investmentScore  prometheus.Histogram

	// Analysis runs
	runsTotal      prometheus.Counter
	runDuration    prometheus.Histogram
	runLastUnix    prometheus.Gauge
	resultsStored  prometheus.Gauge
	reportsWritten *prometheus.CounterVec

	// Data sources
	sourceRequests  *prometheus.CounterVec
	sourceLatency   *prometheus.HistogramVec
	sourceRetries   *prometheus.CounterVec
	sourceFallbacks prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "rentscore",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
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

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	latency := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

	m.regionsRequested = m.counter("regions_requested_total", "Region codes requested for analysis")
	m.regionsDuplicate = m.counter("regions_duplicate_total", "Duplicate region codes dropped before scheduling")
	m.regionsScored = m.counter("regions_scored_total", "Regions that produced an investment result")
	m.regionsSkipped = m.counterVec("regions_skipped_total", "Regions skipped for missing or failed data", "reason")
	m.scoringLatency = m.histogram("scoring_latency_milliseconds", "Time spent computing one investment result", m.histogramBuckets)
	m.investmentScore = m.histogram("investment_score", "Distribution of composite investment scores",
		prometheus.LinearBuckets(0, 10, 11))

	m.runsTotal = m.counter("analysis_runs_total", "Completed analysis runs")
	m.runDuration = m.histogram("analysis_duration_seconds", "Wall time of an analysis run", prometheus.ExponentialBuckets(0.1, 2, 12))
	m.runLastUnix = m.gauge("analysis_last_run_timestamp_seconds", "Unix time the last run finished")
	m.resultsStored = m.gauge("results_stored", "Results held by the current snapshot")
	m.reportsWritten = m.counterVec("reports_written_total", "Report files written by format", "format")

	m.sourceRequests = m.counterVec("source_requests_total", "Data source lookups by source and outcome", "source", "outcome")
	m.sourceLatency = m.histogramVec("source_latency_milliseconds", "Data source lookup latency", latency, "source")
	m.sourceRetries = m.counterVec("source_retries_total", "Retried data source calls", "source")
	m.sourceFallbacks = m.counter("source_fallbacks_total", "Rental lookups served by the fallback source")

	m.queueSize = m.gauge("queue_size", "Current number of queued region jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the region job queue")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Region jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Region jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Region jobs rejected by a full or closed queue")

	m.workerCount = m.gauge("worker_count", "Configured number of workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently processing a job")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "End to end processing time of one region job", latency)
	m.workerErrors = m.counter("worker_errors_total", "Jobs that failed inside a worker")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.histogramBuckets, "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// Enabled reports whether recording is on.
func (m *Manager) Enabled() bool { return m.enabled }

// CollectSystem refreshes system gauges every refresh interval until ctx is done.
func (m *Manager) CollectSystem(ctx context.Context) {
	t := time.NewTicker(m.refreshInterval)
	defer t.Stop()
	for {
		m.updateSystem()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (m *Manager) updateSystem() {
	if !m.enabled {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.HeapAlloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

func on() bool { return globalManager.enabled }

// Region pipeline.

// RecordRegionsRequested adds n requested region codes.
func RecordRegionsRequested(n int) {
	if on() {
		globalManager.regionsRequested.Add(float64(n))
	}
}

// RecordRegionsDuplicate adds n dropped duplicates.
func RecordRegionsDuplicate(n int) {
	if on() {
		globalManager.regionsDuplicate.Add(float64(n))
	}
}

// RecordRegionScored counts a scored region and observes its score.
func RecordRegionScored(score float64) {
	if on() {
		globalManager.regionsScored.Inc()
		globalManager.investmentScore.Observe(score)
	}
}

// RecordRegionSkipped counts a skipped region by reason.
func RecordRegionSkipped(reason string) {
	if on() {
		globalManager.regionsSkipped.WithLabelValues(reason).Inc()
	}
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	if on() {
		globalManager.scoringLatency.Observe(latencyMs)
	}
}

// Analysis runs.

// RecordAnalysisRun records a finished run and the size of its result snapshot.
func RecordAnalysisRun(d time.Duration, stored int) {
	if !on() {
		return
	}
	globalManager.runsTotal.Inc()
	globalManager.runDuration.Observe(d.Seconds())
	globalManager.runLastUnix.Set(float64(time.Now().Unix()))
	globalManager.resultsStored.Set(float64(stored))
}

// RecordReportWritten counts a report file by format.
func RecordReportWritten(format string) {
	if on() {
		globalManager.reportsWritten.WithLabelValues(format).Inc()
	}
}

// Data sources.

// RecordSourceRequest records one lookup against a data source.
func RecordSourceRequest(source, outcome string, latencyMs float64) {
	if !on() {
		return
	}
	globalManager.sourceRequests.WithLabelValues(source, outcome).Inc()
	globalManager.sourceLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordSourceRetry counts a retried call.
func RecordSourceRetry(source string) {
	if on() {
		globalManager.sourceRetries.WithLabelValues(source).Inc()
	}
}

// RecordSourceFallback counts a rental lookup served by the fallback source.
func RecordSourceFallback() {
	if on() {
		globalManager.sourceFallbacks.Inc()
	}
}

// Queue.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	if on() {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if on() {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if on() {
		globalManager.queueEnqueued.Inc()
	}
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if on() {
		globalManager.queueDequeued.Inc()
	}
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	if on() {
		globalManager.queueEnqueueErrors.Inc()
	}
}

// Workers.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	if on() {
		globalManager.workerCount.Set(float64(count))
	}
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	if on() {
		globalManager.workerActiveCount.Set(float64(count))
	}
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if on() {
		globalManager.workerProcessingLatency.Observe(latencyMs)
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if on() {
		globalManager.workerErrors.Inc()
	}
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if on() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if on() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if on() {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// System.

// UpdateSystemMetrics samples memory and goroutine gauges once.
func UpdateSystemMetrics() {
	globalManager.updateSystem()
}

// StartSystemCollector runs CollectSystem on the global manager.
func StartSystemCollector(ctx context.Context) {
	go globalManager.CollectSystem(ctx)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
