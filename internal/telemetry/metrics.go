// Package telemetry carries the monitoring surface: prometheus metrics
// around tool dispatch, an optional loopback HTTP server exposing them,
// and optional OTLP trace export.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts tool invocations and failures. Instance-based (not
// global) for better testability.
type Metrics struct {
	registry *prometheus.Registry

	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates a metrics set on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.calls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sapmcp",
		Name:      "tool_calls_total",
		Help:      "Tool invocations by tool name.",
	}, []string{"tool"})

	m.failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sapmcp",
		Name:      "tool_failures_total",
		Help:      "Tool invocations that produced an error response, by tool name and error kind.",
	}, []string{"tool", "kind"})

	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sapmcp",
		Name:      "tool_duration_seconds",
		Help:      "Tool invocation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tool"})

	m.registry.MustRegister(m.calls, m.failures, m.duration)
	return m
}

// ObserveCall records one tool invocation. kind is empty on success.
func (m *Metrics) ObserveCall(tool string, elapsed time.Duration, kind string) {
	m.calls.WithLabelValues(tool).Inc()
	m.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
	if kind != "" {
		m.failures.WithLabelValues(tool, kind).Inc()
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather exposes the registry for tests.
func (m *Metrics) Gather() *prometheus.Registry { return m.registry }
