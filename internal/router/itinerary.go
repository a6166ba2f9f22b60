package router

import "transitcatalog.org/internal/graph"

// Segment is one "wait, then ride" unit of an itinerary.
type Segment struct {
	DepartureStop string
	ArrivalStop   string
	BusName       string
	SpanCount     int
	WaitTime      float64
	RideTime      float64
}

// Time returns the wait plus ride time of the segment.
func (s Segment) Time() float64 {
	return s.WaitTime + s.RideTime
}

// Itinerary is the answer to a route query. TotalTime is in minutes.
type Itinerary struct {
	TotalTime float64
	Segments  []Segment
}

// FindRoute returns the fastest itinerary between two stops.
// The boolean is false if either stop is unknown or the stops are not connected.
func (r *TransportRouter) FindRoute(from, to string) (*Itinerary, bool) {
	fromID, ok := r.stopIDs[from]
	if !ok {
		return nil, false
	}
	toID, ok := r.stopIDs[to]
	if !ok {
		return nil, false
	}
	if fromID == toID {
		return &Itinerary{Segments: []Segment{}}, true
	}

	info, ok := r.router.BuildRoute(fromID, toID)
	if !ok {
		return nil, false
	}
	return r.reconstruct(info), true
}

// reconstruct maps the edges of a path to segments. The total is summed in path order,
// the same order the search accumulated it in, so it equals info.Weight exactly.
func (r *TransportRouter) reconstruct(info graph.RouteInfo) *Itinerary {
	itinerary := &Itinerary{
		Segments: make([]Segment, 0, len(info.Edges)),
	}
	for _, id := range info.Edges {
		edge := r.graph.Edge(id)
		meta := r.edges[id]
		itinerary.Segments = append(itinerary.Segments, Segment{
			DepartureStop: r.stopNames[edge.From],
			ArrivalStop:   r.stopNames[edge.To],
			BusName:       meta.bus,
			SpanCount:     meta.spanCount,
			WaitTime:      meta.waitTime,
			RideTime:      meta.rideTime,
		})
		itinerary.TotalTime += edge.Weight
	}
	return itinerary
}
