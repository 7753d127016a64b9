package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedPattern labels requests that no route matched
const unmatchedPattern = "unmatched"

// Metrics holds the Prometheus collectors for the service
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authDecisions       *prometheus.CounterVec
	configReloads       *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics instance backed by its own registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelservice_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "pattern", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modelservice_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "pattern"},
		),

		authDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelservice_auth_decisions_total",
				Help: "API key gate decisions by outcome",
			},
			[]string{"decision"},
		),

		configReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelservice_config_reloads_total",
				Help: "Configuration reload attempts by status",
			},
			[]string{"status"},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.authDecisions,
		m.configReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordHTTPRequest records a completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, pattern string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, pattern, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, pattern).Observe(duration.Seconds())
}

// RecordAuthDecision counts one API key gate outcome. Any fmt.Stringer
// works, so the gate's Decision type can be passed directly.
func (m *Metrics) RecordAuthDecision(decision interface{ String() string }) {
	m.authDecisions.WithLabelValues(decision.String()).Inc()
}

// RecordConfigReload records a configuration reload attempt
func (m *Metrics) RecordConfigReload(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.configReloads.WithLabelValues(status).Inc()
}

// Handler returns the Prometheus exposition handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request metrics. It must wrap the ServeMux directly so
// the matched route pattern is visible once the request has been served.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = unmatchedPattern
		}
		m.RecordHTTPRequest(r.Method, pattern, wrapped.statusCode, time.Since(start))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
