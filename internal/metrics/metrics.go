package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service encapsulates Prometheus instrumentation for the HTTP surface and
// for the adaptive scheduler's own run observability.
type Service struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	dbQueryDuration *prometheus.HistogramVec

	schedulerRuns        *prometheus.CounterVec
	schedulerGenerations prometheus.Histogram
	schedulerRestarts    prometheus.Counter
	schedulerDuration    prometheus.Histogram
}

// New registers the Prometheus collectors used across the service.
func New() *Service {
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

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total idempotency cache hits",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total idempotency cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	schedulerRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total scheduler runs, labelled by whether the best candidate was feasible",
	}, []string{"feasible"})

	schedulerGenerations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_generations",
		Help:    "Number of generations executed per scheduler run",
		Buckets: []float64{10, 50, 100, 300, 500, 1000, 2000, 5000, 10000},
	})

	schedulerRestarts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_restarts_total",
		Help: "Total population restarts triggered by the adaptive controller",
	})

	schedulerDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_run_duration_seconds",
		Help:    "Wall-clock duration of scheduler runs",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheHits, cacheMisses,
		dbQueryDuration,
		schedulerRuns, schedulerGenerations, schedulerRestarts, schedulerDuration,
	)

	return &Service{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		dbQueryDuration:      dbQueryDuration,
		schedulerRuns:        schedulerRuns,
		schedulerGenerations: schedulerGenerations,
		schedulerRestarts:    schedulerRestarts,
		schedulerDuration:    schedulerDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Service) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request latency and count.
func (m *Service) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records an idempotency cache hit or miss.
func (m *Service) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveDBQuery records history-repository query timing.
func (m *Service) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ObserveSchedulerRun records the outcome of one completed scheduler run.
func (m *Service) ObserveSchedulerRun(feasible bool, generations int, restarts int, duration time.Duration) {
	if m == nil {
		return
	}
	m.schedulerRuns.WithLabelValues(fmt.Sprintf("%t", feasible)).Inc()
	m.schedulerGenerations.Observe(float64(generations))
	m.schedulerDuration.Observe(duration.Seconds())
	for i := 0; i < restarts; i++ {
		m.schedulerRestarts.Inc()
	}
}
