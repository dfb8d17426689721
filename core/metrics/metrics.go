// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	Queries         *prometheus.CounterVec
	Refreshes       *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	SnapshotSize    *prometheus.GaugeVec
	LoadMore        *prometheus.CounterVec
	OpenSessions    prometheus.Gauge
	VendorCache     *prometheus.CounterVec
}

// New registers every collector on a fresh registry, plus the Go and process
// collectors when withRuntime is set.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftshop",
			Subsystem: "catalog",
			Name:      "queries_total",
			Help:      "Catalog feed queries by feed.",
		}, []string{"feed"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftshop",
			Subsystem: "catalog",
			Name:      "refreshes_total",
			Help:      "Snapshot refreshes by result.",
		}, []string{"result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "giftshop",
			Subsystem: "catalog",
			Name:      "refresh_duration_seconds",
			Help:      "Time to fetch and normalize a snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		SnapshotSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "giftshop",
			Subsystem: "catalog",
			Name:      "snapshot_items",
			Help:      "Items in the loaded snapshot by kind.",
		}, []string{"kind"}),
		LoadMore: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftshop",
			Subsystem: "sessions",
			Name:      "load_more_total",
			Help:      "Load-more requests by outcome (appended, dropped).",
		}, []string{"outcome"}),
		OpenSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "giftshop",
			Subsystem: "sessions",
			Name:      "open",
			Help:      "Browse sessions currently open.",
		}),
		VendorCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftshop",
			Subsystem: "vendors",
			Name:      "cache_lookups_total",
			Help:      "Vendor cache lookups by result (hit, miss).",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(m.Queries, m.Refreshes, m.RefreshDuration, m.SnapshotSize, m.LoadMore, m.OpenSessions, m.VendorCache)
	if withRuntime {
		m.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}

// Handler exposes the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
