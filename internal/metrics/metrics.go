// Package metrics holds the Prometheus instrumentation of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	readingsAnalyzed prometheus.Histogram
	storeErrors      *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	readingsAnalyzed := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "cgm_readings_analyzed",
		Help: "Number of readings per analyzed window",
		// one reading every 5 minutes: 1h, 1d, 1w, 30d
		Buckets: []float64{0, 12, 288, 2016, 8640},
	})

	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cgm_store_errors_total",
		Help: "Reading store failures by kind",
	}, []string{"kind"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cgm_cache_lookups_total",
		Help: "Analysis cache lookups by result",
	}, []string{"result"})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		readingsAnalyzed,
		storeErrors,
		cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		readingsAnalyzed: readingsAnalyzed,
		storeErrors:      storeErrors,
		cacheLookups:     cacheLookups,
	}
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

func (m *Metrics) ObserveAnalysis(readings int) {
	if m == nil {
		return
	}
	m.readingsAnalyzed.Observe(float64(readings))
}

func (m *Metrics) RecordStoreError(kind string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
