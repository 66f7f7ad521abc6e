// Package metrics is an external, read-only collaborator: it observes a
// *searchserver.Server through its public API and exposes Prometheus
// metrics. It never participates in index mutation or scoring.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kestrelsearch/searchserver/internal/searchserver"
)

// Collector registers and updates the metrics surface for one Server.
type Collector struct {
	registry *prometheus.Registry
	server   *searchserver.Server

	documentCount     prometheus.GaugeFunc
	queriesTotal      *prometheus.CounterVec
	queryDuration     prometheus.Histogram
	duplicatesRemoved prometheus.Counter
}

// New builds a Collector on its own private registry observing server.
func New(server *searchserver.Server) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		server:   server,
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "searchserver_queries_total",
			Help: "Total number of FindTopDocuments-family calls, by outcome.",
		}, []string{"outcome"}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "searchserver_query_duration_seconds",
			Help:    "Latency of FindTopDocuments-family calls.",
			Buckets: prometheus.DefBuckets,
		}),
		duplicatesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "searchserver_duplicates_removed_total",
			Help: "Total number of documents removed by RemoveDuplicates.",
		}),
	}
	c.documentCount = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "searchserver_document_count",
		Help: "Current number of live documents.",
	}, func() float64 { return float64(server.DocumentCount()) })

	registry.MustRegister(c.documentCount, c.queriesTotal, c.queryDuration, c.duplicatesRemoved)
	return c
}

// Registry returns the collector's private Prometheus registry, suitable
// for serving with promhttp.HandlerFor.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveQuery records one query's outcome and latency.
func (c *Collector) ObserveQuery(found bool, duration time.Duration) {
	outcome := "empty"
	if found {
		outcome = "found"
	}
	c.queriesTotal.WithLabelValues(outcome).Inc()
	c.queryDuration.Observe(duration.Seconds())
}

// ObserveDuplicatesRemoved records how many documents RemoveDuplicates just
// removed.
func (c *Collector) ObserveDuplicatesRemoved(n int) {
	c.duplicatesRemoved.Add(float64(n))
}
