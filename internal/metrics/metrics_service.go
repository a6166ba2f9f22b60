package metrics

import (
	"log/slog"
	"time"
)

// CatalogStats is the part of a catalog the metrics service reports on.
type CatalogStats interface {
	StopCount() int
	BusCount() int
	GraphSize() (vertices, edges int)
}

type MetricsService struct {
	Logger *slog.Logger
}

func NewMetricsService(logger *slog.Logger) *MetricsService {
	return &MetricsService{
		Logger: logger,
	}
}

// ObserveCatalog publishes the size of a freshly built catalog.
func (ms *MetricsService) ObserveCatalog(stats CatalogStats) {
	vertices, edges := stats.GraphSize()

	CatalogStops.Set(float64(stats.StopCount()))
	CatalogBuses.Set(float64(stats.BusCount()))
	RoutingGraphVertices.Set(float64(vertices))
	RoutingGraphEdges.Set(float64(edges))

	if ms.Logger != nil {
		ms.Logger.Info("catalog loaded",
			"stops", stats.StopCount(),
			"buses", stats.BusCount(),
			"vertices", vertices,
			"edges", edges,
		)
	}
}

// ObserveQuery counts one answered query.
func (ms *MetricsService) ObserveQuery(queryType, outcome string) {
	QueriesTotal.WithLabelValues(queryType, outcome).Inc()
}

// ObserveRouteSearch records the duration of one route query started at start.
func (ms *MetricsService) ObserveRouteSearch(start time.Time) {
	RouteSearchDuration.Observe(time.Since(start).Seconds())
}
