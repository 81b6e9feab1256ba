package core

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry          *prometheus.Registry
	requestTotal      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	transformTotal    *prometheus.CounterVec
	transformDuration prometheus.Histogram
	outputFrames      prometheus.Histogram
	rateLimitRejected prometheus.Counter
}

func newMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emodi_api_requests_total",
			Help: "Total HTTP requests handled by the API.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emodi_api_request_duration_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		transformTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emodi_transformations_total",
			Help: "Total transformations by outcome.",
		}, []string{"result"}),
		transformDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "emodi_transformation_duration_seconds",
			Help:    "Time spent running a transformation command.",
			Buckets: prometheus.DefBuckets,
		}),
		outputFrames: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "emodi_output_frames",
			Help:    "Frame count of successful transformation results.",
			Buckets: []float64{1, 2, 4, 8, 12, 24, 48, 96},
		}),
		rateLimitRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "emodi_rate_limit_rejections_total",
			Help: "Total chat commands rejected by rate limiting.",
		}),
	}
	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.transformTotal,
		m.transformDuration,
		m.outputFrames,
		m.rateLimitRejected,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	statusLabel := strconv.Itoa(status)
	m.requestTotal.WithLabelValues(method, route, statusLabel).Inc()
	m.requestDuration.WithLabelValues(method, route, statusLabel).Observe(elapsed.Seconds())
}

func (m *Metrics) observeTransformation(result string, frames int, elapsed time.Duration) {
	m.transformTotal.WithLabelValues(result).Inc()
	m.transformDuration.Observe(elapsed.Seconds())
	if frames > 0 {
		m.outputFrames.Observe(float64(frames))
	}
}
