// Package metrics exposes Prometheus instruments for the HTTP surface, the
// classification pipeline, the recorder and the profile cache.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/health-signal-classifier/internal/domain"
)

const namespace = "hsc"

// Metrics holds every instrument registered by the service. Each instance
// owns its registry so tests and multiple binaries never collide.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	classificationsTotal   *prometheus.CounterVec
	classificationDuration prometheus.Histogram
	anomaliesTotal         prometheus.Counter
	environmentAdjusted    prometheus.Counter
	alertsTotal            *prometheus.CounterVec

	recorderQueueDepth prometheus.Gauge
	recorderWrites     *prometheus.CounterVec
	recorderDropped    prometheus.Counter
	breakerState       prometheus.Gauge

	cacheRequests *prometheus.CounterVec
}

// New registers all instruments on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),

		classificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Total number of classified health messages",
			},
			[]string{"diagnosis", "urgency"},
		),
		classificationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classification_duration_seconds",
				Help:      "Time spent classifying one message",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
		),
		anomaliesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "anomalies_detected_total",
				Help:      "Classifications flagged as anomalous presentations",
			},
		),
		environmentAdjusted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "environment_adjustments_total",
				Help:      "Classifications boosted by high environmental risk",
			},
		),
		alertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_published_total",
				Help:      "Alerts broadcast to live subscribers",
			},
			[]string{"disease"},
		),

		recorderQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "recorder_queue_depth",
				Help:      "Classification records waiting to be persisted",
			},
		),
		recorderWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recorder_writes_total",
				Help:      "Persist attempts by outcome",
			},
			[]string{"outcome"},
		),
		recorderDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recorder_dropped_total",
				Help:      "Records dropped because the queue was full or closed",
			},
		),
		breakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "recorder_breaker_state",
				Help:      "Recorder circuit state: 0 closed, 1 half-open, 2 open",
			},
		),

		cacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profile_cache_requests_total",
				Help:      "Environmental profile cache lookups by tier and result",
			},
			[]string{"tier", "result"},
		),
	}
}

// Registry returns the registry the instruments live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// HTTPStarted marks a request in flight. The returned func records the
// outcome.
func (m *Metrics) HTTPStarted() func(method, path string, status int, elapsed time.Duration) {
	m.httpRequestsInFlight.Inc()
	return func(method, path string, status int, elapsed time.Duration) {
		m.httpRequestsInFlight.Dec()
		m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
	}
}

// ObserveClassification records one finished classification.
func (m *Metrics) ObserveClassification(result *domain.ClassificationResult, elapsed time.Duration) {
	m.classificationsTotal.WithLabelValues(result.PrimaryDiagnosis.String(), result.UrgencyLevel.String()).Inc()
	m.classificationDuration.Observe(elapsed.Seconds())
	if result.AnomalyDetected {
		m.anomaliesTotal.Inc()
	}
	if result.EnvironmentAdjusted {
		m.environmentAdjusted.Inc()
	}
}

// AlertPublished counts an alert.
func (m *Metrics) AlertPublished(disease domain.Diagnosis) {
	m.alertsTotal.WithLabelValues(disease.String()).Inc()
}

// RecorderQueueDepth sets the current queue length.
func (m *Metrics) RecorderQueueDepth(n int) {
	m.recorderQueueDepth.Set(float64(n))
}

// RecorderWrite counts a persist attempt. outcome is "ok", "retry",
// "failed" or "rejected".
func (m *Metrics) RecorderWrite(outcome string) {
	m.recorderWrites.WithLabelValues(outcome).Inc()
}

// RecorderDropped counts a record that never reached the queue.
func (m *Metrics) RecorderDropped() {
	m.recorderDropped.Inc()
}

// BreakerState exports the recorder circuit state.
func (m *Metrics) BreakerState(state int) {
	m.breakerState.Set(float64(state))
}

// CacheLookup counts a cache lookup on tier ("memory" or "redis").
func (m *Metrics) CacheLookup(tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(tier, result).Inc()
}
