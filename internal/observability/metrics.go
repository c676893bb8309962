package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	oracleCalls     *prometheus.CounterVec
	clientsSkipped  prometheus.Counter
}

// NewMetrics initializes and registers all collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by path, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Request errors by path, method and error code.",
		}, []string{"path", "method", "code"}),
		oracleCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "oracle_calls_total",
			Help: "Oracle calls by kind (enrichment, sentiment) and outcome (ok, fallback).",
		}, []string{"kind", "outcome"}),
		clientsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_clients_skipped_total",
			Help: "Clients skipped because their record fetch or parse failed.",
		}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordOracleCall counts one oracle interaction.
func (m *Metrics) RecordOracleCall(kind, outcome string) {
	if m == nil {
		return
	}
	m.oracleCalls.WithLabelValues(kind, outcome).Inc()
}

// RecordClientSkipped counts one skipped client.
func (m *Metrics) RecordClientSkipped() {
	if m == nil {
		return
	}
	m.clientsSkipped.Inc()
}

// Handler serves the prometheus exposition endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
