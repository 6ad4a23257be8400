package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes application metrics that are safe to scrape via Prometheus.
type Metrics struct {
	registry            *prometheus.Registry
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	projectionsTotal    prometheus.Counter
	projectionDuration  prometheus.Histogram
	projectionMarkers   prometheus.Histogram
}

// New creates a fresh Metrics registry with HTTP and projection metrics
// registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gasmap",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests processed by core-go",
	}, []string{"method", "path", "status"})

	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gasmap",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served by core-go",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	projectionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gasmap",
		Name:      "projections_total",
		Help:      "Total number of map projections computed",
	})

	projectionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gasmap",
		Name:      "projection_duration_seconds",
		Help:      "Duration of a single map projection computation",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	projectionMarkers := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gasmap",
		Name:      "projection_markers",
		Help:      "Marker count per computed projection",
		Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
	})

	registry.MustRegister(
		httpRequests,
		httpRequestDuration,
		projectionsTotal,
		projectionDuration,
		projectionMarkers,
	)

	return &Metrics{
		registry:            registry,
		httpRequests:        httpRequests,
		httpRequestDuration: httpRequestDuration,
		projectionsTotal:    projectionsTotal,
		projectionDuration:  projectionDuration,
		projectionMarkers:   projectionMarkers,
	}
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
}

// ObserveProjection records one projection computation.
func (m *Metrics) ObserveProjection(markers int, duration time.Duration) {
	if m == nil {
		return
	}
	m.projectionsTotal.Inc()
	m.projectionDuration.Observe(duration.Seconds())
	m.projectionMarkers.Observe(float64(markers))
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
