// Package router turns a bus network into a routing graph and answers fastest-itinerary
// queries over it.
//
// Every edge of the graph means "board bus B at stop S and ride it without leaving until
// stop T": its weight is the wait for the bus plus the ride time, and it spans one or more
// stop-to-stop hops. A path therefore pays the wait exactly once per boarding, and each
// edge of a path maps to one itinerary segment.
package router

import (
	"errors"
	"fmt"
	"sort"

	"transitcatalog.org/internal/graph"
	"transitcatalog.org/internal/models"
)

var (
	// ErrUnknownStop is returned when a bus references a stop that is not in the registry.
	ErrUnknownStop = errors.New("unknown stop")
	// ErrMissingDistance is returned when two consecutive stops of a bus have no declared road distance.
	ErrMissingDistance = errors.New("missing road distance")
)

// metersPerKilometer and minutesPerHour convert km/h velocities into meters per minute.
const (
	metersPerKilometer = 1000.0
	minutesPerHour     = 60.0
)

// edgeInfo annotates a graph edge with the bus ridden and the number of hops covered.
type edgeInfo struct {
	bus       string
	spanCount int
	waitTime  float64
	rideTime  float64
}

// TransportRouter owns the routing graph and the stop index table. It is immutable
// after construction and safe for concurrent queries.
type TransportRouter struct {
	graph     *graph.Graph
	router    *graph.Router
	stopIDs   map[string]graph.VertexID
	stopNames []string
	edges     []edgeInfo
	distances map[string]map[string]int
	settings  models.RoutingSettings
}

// NewTransportRouter builds the routing graph for the given network.
//
// For every bus and every pair of positions i < j on its expanded route, an edge from
// stop i to stop j is added, weighted with the wait time plus the road distance
// between them divided by the bus velocity, in minutes.
func NewTransportRouter(stops []models.StopDescription, buses []models.BusDescription, settings models.RoutingSettings) (*TransportRouter, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	r := &TransportRouter{
		stopIDs:   make(map[string]graph.VertexID, len(stops)),
		stopNames: make([]string, 0, len(stops)),
		settings:  settings,
	}

	r.distances = make(map[string]map[string]int, len(stops))
	for _, stop := range stops {
		if _, exists := r.stopIDs[stop.Name]; exists {
			return nil, fmt.Errorf("duplicate stop %q", stop.Name)
		}
		r.stopIDs[stop.Name] = graph.VertexID(len(r.stopNames))
		r.stopNames = append(r.stopNames, stop.Name)
		r.distances[stop.Name] = stop.RoadDistances
	}

	r.graph = graph.New(len(r.stopNames))

	// Sorted bus order keeps edge insertion order, and with it tie-breaks, independent
	// of the input order of buses.
	sorted := append([]models.BusDescription(nil), buses...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	metersPerMinute := settings.BusVelocity * metersPerKilometer / minutesPerHour
	waitTime := float64(settings.BusWaitTime)

	for _, bus := range sorted {
		route := bus.ExpandedStops()
		if len(route) == 0 {
			continue
		}
		ids := make([]graph.VertexID, len(route))
		for i, name := range route {
			id, ok := r.stopIDs[name]
			if !ok {
				return nil, fmt.Errorf("bus %q: %w %q", bus.Name, ErrUnknownStop, name)
			}
			ids[i] = id
		}

		// hops[k] is the road distance from route[k] to route[k+1].
		hops := make([]int, len(route)-1)
		for k := range hops {
			d, err := roadDistance(r.distances, route[k], route[k+1])
			if err != nil {
				return nil, fmt.Errorf("bus %q: %w", bus.Name, err)
			}
			hops[k] = d
		}

		for i := 0; i < len(route); i++ {
			meters := 0
			for j := i + 1; j < len(route); j++ {
				meters += hops[j-1]
				rideTime := float64(meters) / metersPerMinute
				if _, err := r.graph.AddEdge(graph.Edge{
					From:   ids[i],
					To:     ids[j],
					Weight: waitTime + rideTime,
				}); err != nil {
					return nil, fmt.Errorf("bus %q: %w", bus.Name, err)
				}
				r.edges = append(r.edges, edgeInfo{
					bus:       bus.Name,
					spanCount: j - i,
					waitTime:  waitTime,
					rideTime:  rideTime,
				})
			}
		}
	}

	r.router = graph.NewRouter(r.graph)
	return r, nil
}

// roadDistance returns the declared road distance from one stop to the next, falling
// back to the distance declared in the opposite direction.
func roadDistance(distances map[string]map[string]int, from, to string) (int, error) {
	if d, ok := distances[from][to]; ok {
		return d, nil
	}
	if d, ok := distances[to][from]; ok {
		return d, nil
	}
	if from == to {
		return 0, nil
	}
	return 0, fmt.Errorf("%w between %q and %q", ErrMissingDistance, from, to)
}

// RoadDistance returns the road distance in meters between two consecutive stops,
// resolved the same way the graph builder resolves it.
func (r *TransportRouter) RoadDistance(from, to string) (int, error) {
	return roadDistance(r.distances, from, to)
}

// VertexCount returns the number of stops in the routing graph.
func (r *TransportRouter) VertexCount() int {
	return r.graph.VertexCount()
}

// EdgeCount returns the number of span edges in the routing graph.
func (r *TransportRouter) EdgeCount() int {
	return r.graph.EdgeCount()
}

// Settings returns the routing settings the graph was built with.
func (r *TransportRouter) Settings() models.RoutingSettings {
	return r.settings
}
