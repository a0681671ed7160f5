// Package metricsvc exposes the dashboard prometheus metrics.
package metricsvc

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mfanajozi/dipapa/core/page"
	"github.com/mfanajozi/dipapa/core/table"
)

const namespace = "dipapa"

// Metrics owns its registry so that several servers (tests) can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	views         *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		views: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_views_total",
			Help:      "Table views rendered by page and view status.",
		}, []string{"page", "status"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_seconds",
			Help:      "Record source latency by resource and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "outcome"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRequest(method, route string, code int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveView(pageName string, status table.Status) {
	m.views.WithLabelValues(pageName, status.String()).Inc()
}

func (m *Metrics) ObserveFetch(resource string, d time.Duration, err error) {
	outcome := "ok"
	switch {
	case err == context.Canceled || err == context.DeadlineExceeded:
		outcome = "cancelled"
	case err != nil:
		outcome = "error"
	}
	m.fetchDuration.WithLabelValues(resource, outcome).Observe(d.Seconds())
}

// Source times every query of src.
func (m *Metrics) Source(src page.Source) page.Source {
	return instrumentedSource{src: src, metrics: m}
}

type instrumentedSource struct {
	src     page.Source
	metrics *Metrics
}

func (s instrumentedSource) Query(ctx context.Context, resource string) ([]table.Record, error) {
	start := time.Now()
	recs, err := s.src.Query(ctx, resource)
	observed := err
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		observed = ctxErr
	}
	s.metrics.ObserveFetch(resource, time.Since(start), observed)
	return recs, err
}
