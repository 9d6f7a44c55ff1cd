// Package metrics exposes Prometheus collectors for the query engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups the engine metrics on a private registry so several
// engines (e.g. in tests) never collide on the default registerer.
type Collector struct {
	registry      *prometheus.Registry
	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
	tableRows     prometheus.Gauge
	indexMinutes  prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tickpulse",
			Name:      "query_duration_seconds",
			Help:      "Latency of analytical queries.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"query"}),
		queryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tickpulse",
			Name:      "query_errors_total",
			Help:      "Analytical queries that returned an error.",
		}, []string{"query"}),
		tableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tickpulse",
			Name:      "table_rows",
			Help:      "Trades held by the loaded table.",
		}),
		indexMinutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tickpulse",
			Name:      "index_minutes",
			Help:      "Distinct minutes in the interval index.",
		}),
	}
	c.registry.MustRegister(c.queryDuration, c.queryErrors, c.tableRows, c.indexMinutes)
	return c
}

// ObserveQuery records the latency of one query and counts it as failed when err is set.
func (c *Collector) ObserveQuery(query string, start time.Time, err error) {
	if c == nil {
		return
	}
	c.queryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	if err != nil {
		c.queryErrors.WithLabelValues(query).Inc()
	}
}

// SetDataset records the size of the loaded table and index.
func (c *Collector) SetDataset(rows, minutes int) {
	if c == nil {
		return
	}
	c.tableRows.Set(float64(rows))
	c.indexMinutes.Set(float64(minutes))
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
