package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts answered queries by request type and outcome.
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_catalog_queries_total",
		Help: "Number of answered catalog queries by type and outcome (found, not_found, error)",
	}, []string{"type", "outcome"})

	// RouteSearchDuration observes the wall time of route queries.
	RouteSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transit_catalog_route_search_seconds",
		Help:    "Duration of fastest-route searches",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})
)

var (
	CatalogStops = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transit_catalog_stops",
		Help: "Number of stops in the loaded network",
	})

	CatalogBuses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transit_catalog_buses",
		Help: "Number of buses in the loaded network",
	})

	RoutingGraphVertices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transit_routing_graph_vertices",
		Help: "Number of vertices in the routing graph",
	})

	RoutingGraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transit_routing_graph_edges",
		Help: "Number of span edges in the routing graph",
	})
)

// Query outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// OutgoingLatency observes outgoing HTTP requests made while loading input documents.
	OutgoingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "transit_catalog_outgoing_request_seconds",
		Help:    "Latency of outgoing HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"url", "method", "status"})
)
