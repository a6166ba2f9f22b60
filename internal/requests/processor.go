package requests

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"transitcatalog.org/internal/catalog"
	"transitcatalog.org/internal/metrics"
	"transitcatalog.org/internal/router"
)

// Catalog is the query interface the processor answers from.
type Catalog interface {
	GetStop(name string) (catalog.StopInfo, bool)
	GetBus(name string) (catalog.BusInfo, bool)
	FindRoute(from, to string) (*router.Itinerary, bool)
	RenderMap() (string, error)
}

// Processor answers requests from a catalog and records query metrics.
type Processor struct {
	Catalog Catalog
	Metrics *metrics.MetricsService
	Logger  *slog.Logger
}

func NewProcessor(c Catalog, metricsService *metrics.MetricsService, logger *slog.Logger) *Processor {
	return &Processor{
		Catalog: c,
		Metrics: metricsService,
		Logger:  logger,
	}
}

// Process answers one request. Absent stops, buses and routes yield an ErrorResponse
// with NotFoundMessage.
func (p *Processor) Process(req Request) any {
	var (
		resp    any
		outcome string
	)

	switch r := req.(type) {
	case StopRequest:
		resp, outcome = p.processStop(r)
	case BusRequest:
		resp, outcome = p.processBus(r)
	case RouteRequest:
		resp, outcome = p.processRoute(r)
	case MapRequest:
		resp, outcome = p.processMap(r)
	default:
		panic(fmt.Sprintf("unhandled request type %T", req))
	}

	if p.Metrics != nil {
		p.Metrics.ObserveQuery(req.Type(), outcome)
	}
	return resp
}

func (p *Processor) processStop(r StopRequest) (any, string) {
	info, ok := p.Catalog.GetStop(r.Name)
	if !ok {
		return notFound(r.ID), metrics.OutcomeNotFound
	}
	return StopResponse{Buses: info.Buses, RequestID: r.ID}, metrics.OutcomeFound
}

func (p *Processor) processBus(r BusRequest) (any, string) {
	info, ok := p.Catalog.GetBus(r.Name)
	if !ok {
		return notFound(r.ID), metrics.OutcomeNotFound
	}
	return BusResponse{
		RouteLength:     info.RoadRouteLength,
		Curvature:       info.Curvature,
		StopCount:       info.StopCount,
		UniqueStopCount: info.UniqueStopCount,
		RequestID:       r.ID,
	}, metrics.OutcomeFound
}

func (p *Processor) processRoute(r RouteRequest) (any, string) {
	start := time.Now()
	itinerary, ok := p.Catalog.FindRoute(r.From, r.To)
	if p.Metrics != nil {
		p.Metrics.ObserveRouteSearch(start)
	}
	if !ok {
		return notFound(r.ID), metrics.OutcomeNotFound
	}

	items := make([]RouteItem, 0, 2*len(itinerary.Segments))
	for _, segment := range itinerary.Segments {
		items = append(items,
			WaitItem{Type: "Wait", StopName: segment.DepartureStop, Time: segment.WaitTime},
			RideItem{Type: "Bus", Bus: segment.BusName, SpanCount: segment.SpanCount, Time: segment.RideTime},
		)
	}
	return RouteResponse{TotalTime: itinerary.TotalTime, Items: items, RequestID: r.ID}, metrics.OutcomeFound
}

func (p *Processor) processMap(r MapRequest) (any, string) {
	svg, err := p.Catalog.RenderMap()
	if err != nil {
		if p.Logger != nil {
			p.Logger.Error("failed to render map", "request_id", r.ID, "error", err)
		}
		return ErrorResponse{RequestID: r.ID, ErrorMessage: err.Error()}, metrics.OutcomeError
	}
	return MapResponse{Map: svg, RequestID: r.ID}, metrics.OutcomeFound
}

// ProcessAll answers a batch of raw requests in order. A request that cannot be decoded
// is answered with an ErrorResponse and does not affect the others.
func (p *Processor) ProcessAll(raws []json.RawMessage) []any {
	responses := make([]any, 0, len(raws))
	for _, raw := range raws {
		req, err := Read(raw)
		if err != nil {
			if p.Logger != nil {
				p.Logger.Warn("skipping invalid request", "error", err)
			}
			if p.Metrics != nil {
				p.Metrics.ObserveQuery("invalid", metrics.OutcomeError)
			}
			responses = append(responses, ErrorResponse{RequestID: requestID(raw), ErrorMessage: err.Error()})
			continue
		}
		responses = append(responses, p.Process(req))
	}
	return responses
}

func notFound(id int) ErrorResponse {
	return ErrorResponse{RequestID: id, ErrorMessage: NotFoundMessage}
}
