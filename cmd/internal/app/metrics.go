package app

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server-level Prometheus collectors.
type Metrics struct {
	reg *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics builds a fresh registry with the HTTP request collectors
// registered. Each App owns its registry so tests never collide on the
// global default.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		reg: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chirp",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests processed, by method, path, and status class.",
		}, []string{"method", "path", "class"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chirp",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

// Observe records one finished request.
func (m *Metrics) Observe(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(seconds)
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
