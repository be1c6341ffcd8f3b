package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "jumak"

// Metrics holds the Prometheus collectors of the taste service. All methods
// are safe on a nil receiver so callers never need to check whether metrics
// are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	writeOps       *prometheus.HistogramVec
	writeConflicts *prometheus.CounterVec
	writeRetries   *prometheus.CounterVec

	classifications *prometheus.CounterVec
	retakes         *prometheus.HistogramVec
}

// NewMetrics builds a Metrics instance on its own registry, so tests can
// create as many as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "HTTP requests currently being served.",
		}),
		writeOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "taste",
			Name:      "write_duration_seconds",
			Help:      "Transactional taste writes by operation and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		writeConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "taste",
			Name:      "write_conflicts_total",
			Help:      "Taste writes that failed on a uniqueness conflict.",
		}, []string{"op"}),
		writeRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "taste",
			Name:      "write_retries_total",
			Help:      "Taste write attempts retried after a transient failure.",
		}, []string{"op"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "taste",
			Name:      "classifications_total",
			Help:      "Quiz classifications by resulting archetype.",
		}, []string{"label", "kind"}),
		retakes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "taste",
			Name:      "retake_influence",
			Help:      "Influence rate applied by committed retakes.",
			Buckets:   []float64{0.1, 0.4, 0.8},
		}, []string{"label"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.writeOps,
		m.writeConflicts,
		m.writeRetries,
		m.classifications,
		m.retakes,
	)
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.writeOps.WithLabelValues(op, status).Observe(dur.Seconds())
}

func (m *Metrics) IncConflict(op string) {
	if m == nil {
		return
	}
	m.writeConflicts.WithLabelValues(op).Inc()
}

func (m *Metrics) IncRetry(op string) {
	if m == nil {
		return
	}
	m.writeRetries.WithLabelValues(op).Inc()
}

func (m *Metrics) IncClassification(label, kind string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(label, kind).Inc()
}

func (m *Metrics) ObserveRetake(label string, influence float64) {
	if m == nil {
		return
	}
	m.retakes.WithLabelValues(label).Observe(influence)
}
