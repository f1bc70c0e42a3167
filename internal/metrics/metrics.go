package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Insight outcomes.
const (
	OutcomeAnswered = "answered"
	OutcomeRejected = "rejected"
	OutcomeNotice   = "notice"
	OutcomeFailed   = "failed"
)

// Metrics owns a private registry so tests and multiple servers never collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	metricFailures *prometheus.CounterVec
	insightQueries *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		metricFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_metric_failures_total",
			Help: "KPI metrics that degraded to zero because their query failed.",
		}, []string{"metric"}),
		insightQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insight_queries_total",
			Help: "Natural-language questions handled by the assistant, by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.metricFailures,
		m.insightQueries,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

func (m *Metrics) MetricDegraded(metric string) {
	m.metricFailures.WithLabelValues(metric).Inc()
}

func (m *Metrics) InsightAnswered(outcome string) {
	m.insightQueries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records every request under its chi route pattern, so path parameters do not
// explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
