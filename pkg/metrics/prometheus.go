// Package metrics provides Prometheus metrics for the AquaGuard services.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exposed by the dashboard and backend processes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP server metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Dashboard client metrics
	submissions       *prometheus.CounterVec
	loads             *prometheus.CounterVec
	apiCallDuration   *prometheus.HistogramVec
	notifications     *prometheus.CounterVec
	displayedRecords  *prometheus.GaugeVec
	highRiskAlertShow prometheus.Gauge

	// Backend metrics
	storedRecords *prometheus.CounterVec
	storeErrors   *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec
	storedTotal   prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record*/Update* helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // served on /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "aquaguard",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP responses with status >= 400 by endpoint and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_submissions_total",
		Help:        "Form submissions by outcome (invalid, submitted, rejected, unreachable)",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.loads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_loads_total",
		Help:        "Dashboard loads by outcome (ok, empty, failed)",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.apiCallDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_api_call_duration_milliseconds",
		Help:        "Latency of backend calls made by the dashboard client",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"operation", "result"})

	m.notifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_notifications_total",
		Help:        "Notifications shown to the user by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.displayedRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dashboard_records",
		Help:        "Records shown on the last rendered dashboard by risk category",
		ConstLabels: m.constLabels,
	}, []string{"risk"})

	m.highRiskAlertShow = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dashboard_high_risk_alert_visible",
		Help:        "1 when the high-risk banner is visible, 0 otherwise",
		ConstLabels: m.constLabels,
	})

	m.storedRecords = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "backend_records_stored_total",
		Help:        "Observations stored by the backend, by computed risk",
		ConstLabels: m.constLabels,
	}, []string{"risk"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "backend_store_errors_total",
		Help:        "Storage failures by operation",
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "backend_store_latency_milliseconds",
		Help:        "Storage operation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.storedTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "backend_records",
		Help:        "Records currently held by the backend store",
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest counts a served request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordSubmission counts a form submission outcome.
func (m *Manager) RecordSubmission(outcome string) {
	if !m.enabled {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// RecordLoad counts a dashboard load outcome.
func (m *Manager) RecordLoad(outcome string) {
	if !m.enabled {
		return
	}
	m.loads.WithLabelValues(outcome).Inc()
}

// RecordAPICall observes the latency of a backend call.
func (m *Manager) RecordAPICall(operation, result string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.apiCallDuration.WithLabelValues(operation, result).Observe(durationMs)
}

// RecordNotification counts a notification shown to the user.
func (m *Manager) RecordNotification(kind string) {
	if !m.enabled {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}

// UpdateDashboard sets the displayed record gauges.
func (m *Manager) UpdateDashboard(total, safe, medium, high int, alertVisible bool) {
	if !m.enabled {
		return
	}
	m.displayedRecords.WithLabelValues("total").Set(float64(total))
	m.displayedRecords.WithLabelValues("safe").Set(float64(safe))
	m.displayedRecords.WithLabelValues("medium").Set(float64(medium))
	m.displayedRecords.WithLabelValues("high").Set(float64(high))
	if alertVisible {
		m.highRiskAlertShow.Set(1)
	} else {
		m.highRiskAlertShow.Set(0)
	}
}

// RecordStored counts a stored observation.
func (m *Manager) RecordStored(risk string) {
	if !m.enabled {
		return
	}
	m.storedRecords.WithLabelValues(risk).Inc()
}

// RecordStoreError counts a storage failure.
func (m *Manager) RecordStoreError(operation string) {
	if !m.enabled {
		return
	}
	m.storeErrors.WithLabelValues(operation).Inc()
}

// RecordStoreLatency observes a storage operation latency.
func (m *Manager) RecordStoreLatency(operation string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateStoredTotal sets the number of records held by the store.
func (m *Manager) UpdateStoredTotal(n int) {
	if !m.enabled {
		return
	}
	m.storedTotal.Set(float64(n))
}

// Global helpers operating on the default manager.

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}

func RecordSubmission(outcome string) { globalManager.RecordSubmission(outcome) }

func RecordLoad(outcome string) { globalManager.RecordLoad(outcome) }

func RecordAPICall(operation, result string, durationMs float64) {
	globalManager.RecordAPICall(operation, result, durationMs)
}

func RecordNotification(kind string) { globalManager.RecordNotification(kind) }

func UpdateDashboard(total, safe, medium, high int, alertVisible bool) {
	globalManager.UpdateDashboard(total, safe, medium, high, alertVisible)
}

func RecordStored(risk string) { globalManager.RecordStored(risk) }

func RecordStoreError(operation string) { globalManager.RecordStoreError(operation) }

func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.RecordStoreLatency(operation, latencyMs)
}

func UpdateStoredTotal(n int) { globalManager.UpdateStoredTotal(n) }

// RegisterRuntimeCollectors adds Go runtime and process collectors to the
// registry served on /healthz. Calling it twice is harmless.
func RegisterRuntimeCollectors() error {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := customRegistry.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
