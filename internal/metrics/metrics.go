// Package metrics exposes load and query counters in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booksales"

type Metrics struct {
	registry       *prometheus.Registry
	fixtureRecords *prometheus.CounterVec
	salesQueries   *prometheus.CounterVec
	salesRows      prometheus.Counter
	queryDuration  prometheus.Histogram
}

// New builds a private registry so tests and multiple applications never
// collide on the global one.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fixtureRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixture_records_total",
			Help:      "Fixture records inserted, by model kind.",
		}, []string{"kind"}),
		salesQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_queries_total",
			Help:      "Sales queries executed, by filter type and outcome.",
		}, []string{"filter", "outcome"}),
		salesRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_rows_total",
			Help:      "Sale rows returned by sales queries.",
		}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sales_query_duration_seconds",
			Help:      "Latency of sales queries.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.fixtureRecords,
		m.salesQueries,
		m.salesRows,
		m.queryDuration,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) RecordsLoaded(kind string, n int) {
	m.fixtureRecords.WithLabelValues(kind).Add(float64(n))
}

// QueryObserved records one sales query. filter is "id" or "name".
func (m *Metrics) QueryObserved(filter string, d time.Duration, rows int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.salesQueries.WithLabelValues(filter, outcome).Inc()
	m.salesRows.Add(float64(rows))
	m.queryDuration.Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
