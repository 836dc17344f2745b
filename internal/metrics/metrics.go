// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "talent_tracker"

// Transition outcomes
const (
	OutcomeApplied         = "applied"
	OutcomeNotFound        = "not_found"
	OutcomeConflict        = "conflict"
	OutcomeInvalid         = "invalid"
	OutcomeError           = "error"
	OutcomeUnauthenticated = "unauthenticated"
)

// Metrics holds all talent-tracker collectors
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Pipeline
	Transitions      *prometheus.CounterVec
	ActivityFailures *prometheus.CounterVec
	ProjectionSize   prometheus.Histogram

	// Infrastructure
	RateLimited  *prometheus.CounterVec
	CacheResults *prometheus.CounterVec
}

// New creates a registry with the Go and process collectors and registers
// every talent-tracker metric on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	m := &Metrics{registry: reg}
	m.initHTTPMetrics(factory)
	m.initPipelineMetrics(factory)
	m.initInfraMetrics(factory)
	return m
}

func (m *Metrics) initHTTPMetrics(factory promauto.Factory) {
	m.HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})

	m.HTTPDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})
}

func (m *Metrics) initPipelineMetrics(factory promauto.Factory) {
	m.Transitions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "transitions_total",
		Help:      "Status transition attempts by outcome",
	}, []string{"outcome"})

	m.ActivityFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "activity_write_failures_total",
		Help:      "Activity entries that could not be written after a successful mutation",
	}, []string{"action"})

	m.ProjectionSize = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "projection_applications",
		Help:      "Number of applications in each pipeline projection",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
	})
}

func (m *Metrics) initInfraMetrics(factory promauto.Factory) {
	m.RateLimited = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ratelimit",
		Name:      "rejected_total",
		Help:      "Requests rejected by the rate limiter by endpoint",
	}, []string{"endpoint"})

	m.CacheResults = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by key group and result",
	}, []string{"key", "result"})
}

// Handler returns the exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// TransitionObserved counts one status transition attempt.
func (m *Metrics) TransitionObserved(outcome string) {
	m.Transitions.WithLabelValues(outcome).Inc()
}

// ActivityWriteFailed counts a best-effort activity write that failed.
func (m *Metrics) ActivityWriteFailed(action string) {
	m.ActivityFailures.WithLabelValues(action).Inc()
}

// ProjectionBuilt records the size of a pipeline projection.
func (m *Metrics) ProjectionBuilt(applications int) {
	m.ProjectionSize.Observe(float64(applications))
}

// RateLimitRejected counts a 429 for endpoint.
func (m *Metrics) RateLimitRejected(endpoint string) {
	m.RateLimited.WithLabelValues(endpoint).Inc()
}

// CacheLookup counts a cache lookup result for a key group.
func (m *Metrics) CacheLookup(key, result string) {
	m.CacheResults.WithLabelValues(key, result).Inc()
}
