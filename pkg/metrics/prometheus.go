package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultRefreshInterval = 10 * time.Second
	pipelineSubsystem      = "pipeline"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace       string
	durationBuckets []float64
	enabled         bool
	refreshInterval time.Duration
	constLabels     map[string]string
	metricPrefix    string
	registry        prometheus.Registerer

	// Pipeline metrics
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	pipelineErrors   *prometheus.CounterVec
	rowsRead         *prometheus.CounterVec
	filesWritten     *prometheus.CounterVec
	mergedEntries    prometheus.Gauge
	pagesWritten     prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance and the registry it writes to.
var (
	mu            sync.RWMutex //nolint:gochecknoglobals // guards globalManager and registry
	globalManager *Manager     //nolint:gochecknoglobals // singleton used by the package helpers
)

// Custom registry to avoid default Go metrics.
var registry = prometheus.NewRegistry() //nolint:gochecknoglobals // replaced by Configure

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(registry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "rankmerge",
		durationBuckets: prometheus.DefBuckets,
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		constLabels:     make(map[string]string),
		registry:        prometheus.DefaultRegisterer,
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

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.pipelineRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   pipelineSubsystem,
		Name:        m.name("runs_total"),
		Help:        "Pipeline invocations by pipeline and outcome",
		ConstLabels: labels,
	}, []string{"pipeline", "status"})

	m.pipelineDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   pipelineSubsystem,
		Name:        m.name("duration_seconds"),
		Help:        "Wall time of one pipeline invocation",
		Buckets:     m.durationBuckets,
		ConstLabels: labels,
	}, []string{"pipeline"})

	m.pipelineErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   pipelineSubsystem,
		Name:        m.name("errors_total"),
		Help:        "Failed pipeline invocations by error kind",
		ConstLabels: labels,
	}, []string{"pipeline", "kind"})

	m.rowsRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   pipelineSubsystem,
		Name:        m.name("rows_read_total"),
		Help:        "Rows read from input files",
		ConstLabels: labels,
	}, []string{"pipeline"})

	m.filesWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   pipelineSubsystem,
		Name:        m.name("files_written_total"),
		Help:        "Output files written",
		ConstLabels: labels,
	}, []string{"pipeline"})

	m.mergedEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   pipelineSubsystem,
		Name:        m.name("merged_entries"),
		Help:        "Entries in the most recent merged ranking",
		ConstLabels: labels,
	})

	m.pagesWritten = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   pipelineSubsystem,
		Name:        m.name("pages"),
		Help:        "Pages in the most recent merged ranking",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("errors_total"),
		Help:        "HTTP error responses by endpoint and error type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("memory_usage_bytes"),
		Help:        "Current heap allocation in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("goroutines"),
		Help:        "Current number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("gc_pause_milliseconds"),
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval returns how often system gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RecordPipelineRun counts one invocation of pipeline ending with status.
func (m *Manager) RecordPipelineRun(pipeline, status string) {
	if m.enabled {
		m.pipelineRuns.WithLabelValues(pipeline, status).Inc()
	}
}

// RecordPipelineDuration observes the wall time of one invocation.
func (m *Manager) RecordPipelineDuration(pipeline string, d time.Duration) {
	if m.enabled {
		m.pipelineDuration.WithLabelValues(pipeline).Observe(d.Seconds())
	}
}

// RecordPipelineError counts a failed invocation by error kind.
func (m *Manager) RecordPipelineError(pipeline, kind string) {
	if m.enabled {
		m.pipelineErrors.WithLabelValues(pipeline, kind).Inc()
	}
}

// RecordRowsRead adds n input rows.
func (m *Manager) RecordRowsRead(pipeline string, n int) {
	if m.enabled {
		m.rowsRead.WithLabelValues(pipeline).Add(float64(n))
	}
}

// RecordFilesWritten adds n output files.
func (m *Manager) RecordFilesWritten(pipeline string, n int) {
	if m.enabled {
		m.filesWritten.WithLabelValues(pipeline).Add(float64(n))
	}
}

// UpdateMergedEntries sets the size of the latest merged ranking.
func (m *Manager) UpdateMergedEntries(n int) {
	if m.enabled {
		m.mergedEntries.Set(float64(n))
	}
}

// UpdatePagesWritten sets the page count of the latest merged ranking.
func (m *Manager) UpdatePagesWritten(n int) {
	if m.enabled {
		m.pagesWritten.Set(float64(n))
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByEndpoint counts an HTTP error response.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes an average GC pause in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if m.enabled {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

func global() *Manager {
	mu.RLock()
	defer mu.RUnlock()
	return globalManager
}

// Configure replaces the global manager with one built from opts on a fresh
// registry. Call it once at startup, before serving metrics.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(reg))...)
	mu.Lock()
	globalManager, registry = m, reg
	mu.Unlock()
}

// Global returns the manager used by the package-level helpers.
func Global() *Manager { return global() }

// RecordPipelineRun counts one invocation on the global manager.
func RecordPipelineRun(pipeline, status string) { global().RecordPipelineRun(pipeline, status) }

// RecordPipelineDuration observes invocation time on the global manager.
func RecordPipelineDuration(pipeline string, d time.Duration) {
	global().RecordPipelineDuration(pipeline, d)
}

// RecordPipelineError counts a failure on the global manager.
func RecordPipelineError(pipeline, kind string) { global().RecordPipelineError(pipeline, kind) }

// RecordRowsRead adds input rows on the global manager.
func RecordRowsRead(pipeline string, n int) { global().RecordRowsRead(pipeline, n) }

// RecordFilesWritten adds output files on the global manager.
func RecordFilesWritten(pipeline string, n int) { global().RecordFilesWritten(pipeline, n) }

// UpdateMergedEntries sets the merged entry gauge on the global manager.
func UpdateMergedEntries(n int) { global().UpdateMergedEntries(n) }

// UpdatePagesWritten sets the page gauge on the global manager.
func UpdatePagesWritten(n int) { global().UpdatePagesWritten(n) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	global().RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	global().RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	global().RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) { global().UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { global().UpdateSystemGoroutineCount(count) }

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) { global().RecordSystemGCPauseTime(pauseMs) }

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// Handler serves the global registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
