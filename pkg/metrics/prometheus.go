// Package metrics provides Prometheus metrics for the runscope viewer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the viewer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Host delivery metrics
	hostMessages        *prometheus.CounterVec
	hostMessagesDropped *prometheus.CounterVec
	capacityDrops       *prometheus.CounterVec
	deliveriesCompleted *prometheus.CounterVec
	deliveryLatency     *prometheus.HistogramVec
	loadTimeouts        *prometheus.CounterVec
	runsLoaded          prometheus.Gauge
	metricsLoaded       prometheus.Gauge

	// Inbox metrics
	inboxSize     prometheus.Gauge
	inboxCapacity prometheus.Gauge

	// Animation metrics
	animationsScheduled *prometheus.CounterVec
	animationsCancelled *prometheus.CounterVec
	animationsFinished  *prometheus.CounterVec
	frameDuration       prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorsByComponent *prometheus.CounterVec
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
		namespace:        "runscope",
		subsystem:        "viewer",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.hostMessages = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "host_messages_total",
		Help:      "Host messages applied to the snapshot by kind",
	}, []string{"kind"})

	m.hostMessagesDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "host_messages_dropped_total",
		Help:      "Host messages dropped before or during apply by reason",
	}, []string{"reason"})

	m.capacityDrops = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "capacity_drops_total",
		Help:      "Elements dropped because a bounded collection was full",
	}, []string{"collection"})

	m.deliveriesCompleted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "deliveries_completed_total",
		Help:      "Completed run and metric deliveries",
	}, []string{"view"})

	m.deliveryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "delivery_latency_milliseconds",
		Help:      "Time from a count announcement to delivery completion",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 8000},
	}, []string{"view"})

	m.loadTimeouts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_timeouts_total",
		Help:      "Deliveries that did not complete before the load timeout",
	}, []string{"view"})

	m.runsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_loaded",
		Help:      "Runs currently held by the snapshot",
	})

	m.metricsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "metrics_loaded",
		Help:      "Metrics currently held by the targeted run",
	})

	m.inboxSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inbox_size",
		Help:      "Current number of pending host messages",
	})

	m.inboxCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inbox_capacity",
		Help:      "Maximum number of pending host messages",
	})

	m.animationsScheduled = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "animations_scheduled_total",
		Help:      "Animations scheduled by kind",
	}, []string{"kind"})

	m.animationsCancelled = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "animations_cancelled_total",
		Help:      "Animations unscheduled before finishing by kind",
	}, []string{"kind"})

	m.animationsFinished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "animations_finished_total",
		Help:      "Animations that ran to completion by kind",
	}, []string{"kind"})

	m.frameDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frame_duration_milliseconds",
		Help:      "Time spent advancing animations for one frame",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// HTTP Performance Metrics
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

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Errors by component and type",
		},
		[]string{"component", "error_type"},
	)
}

// RecordHostMessage counts an applied host message.
func RecordHostMessage(kind string) {
	globalManager.hostMessages.WithLabelValues(kind).Inc()
}

// RecordHostMessageDropped counts a dropped host message.
func RecordHostMessageDropped(reason string) {
	globalManager.hostMessagesDropped.WithLabelValues(reason).Inc()
}

// RecordCapacityDrop counts an element rejected by a full collection.
func RecordCapacityDrop(collection string) {
	globalManager.capacityDrops.WithLabelValues(collection).Inc()
}

// RecordDeliveryCompleted counts a completed delivery and its latency.
func RecordDeliveryCompleted(view string, latencyMs float64) {
	globalManager.deliveriesCompleted.WithLabelValues(view).Inc()
	globalManager.deliveryLatency.WithLabelValues(view).Observe(latencyMs)
}

// RecordLoadTimeout counts a delivery that timed out.
func RecordLoadTimeout(view string) {
	globalManager.loadTimeouts.WithLabelValues(view).Inc()
}

// UpdateRunsLoaded sets the number of runs held.
func UpdateRunsLoaded(count int) {
	globalManager.runsLoaded.Set(float64(count))
}

// UpdateMetricsLoaded sets the number of metrics held by the targeted run.
func UpdateMetricsLoaded(count int) {
	globalManager.metricsLoaded.Set(float64(count))
}

// Inbox Metrics Functions.

// UpdateInboxSize sets the current inbox size.
func UpdateInboxSize(size int) {
	globalManager.inboxSize.Set(float64(size))
}

// UpdateInboxCapacity sets the maximum inbox capacity.
func UpdateInboxCapacity(capacity int) {
	globalManager.inboxCapacity.Set(float64(capacity))
}

// Animation Metrics Functions.

// RecordAnimationScheduled counts a scheduled animation.
func RecordAnimationScheduled(kind string) {
	globalManager.animationsScheduled.WithLabelValues(kind).Inc()
}

// RecordAnimationCancelled counts an unscheduled animation.
func RecordAnimationCancelled(kind string) {
	globalManager.animationsCancelled.WithLabelValues(kind).Inc()
}

// RecordAnimationFinished counts a completed animation.
func RecordAnimationFinished(kind string) {
	globalManager.animationsFinished.WithLabelValues(kind).Inc()
}

// RecordFrameDuration records the time spent on one frame in milliseconds.
func RecordFrameDuration(ms float64) {
	globalManager.frameDuration.Observe(ms)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
