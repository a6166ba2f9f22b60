// Package catalog holds the stop and bus registries of a transit network and answers
// queries about them.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"transitcatalog.org/internal/geo"
	"transitcatalog.org/internal/models"
	"transitcatalog.org/internal/render"
	"transitcatalog.org/internal/router"
)

// StopInfo is the answer to a stop query. Buses is sorted by name.
type StopInfo struct {
	Name  string
	Buses []string
}

// BusInfo is the answer to a bus query. Lengths are in meters.
type BusInfo struct {
	Name            string
	StopCount       int
	UniqueStopCount int
	RoadRouteLength int
	GeoRouteLength  float64
	Curvature       float64
}

// Catalog is an immutable view of a network. It is safe for concurrent use.
type Catalog struct {
	stops    map[string]StopInfo
	buses    map[string]BusInfo
	router   *router.TransportRouter
	renderer *render.MapRenderer

	mapOnce sync.Once
	mapSVG  string
	mapErr  error
}

// NewCatalog builds the registries, the routing graph and the map renderer for a network.
// Any inconsistency in the network aborts construction.
func NewCatalog(network *models.Network, routing models.RoutingSettings, settings render.RenderSettings) (*Catalog, error) {
	if network == nil {
		return nil, fmt.Errorf("nil network")
	}

	transportRouter, err := router.NewTransportRouter(network.Stops, network.Buses, routing)
	if err != nil {
		return nil, fmt.Errorf("failed to build routing graph: %w", err)
	}
	renderer, err := render.NewMapRenderer(network.Stops, network.Buses, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare map renderer: %w", err)
	}

	c := &Catalog{
		stops:    make(map[string]StopInfo, len(network.Stops)),
		buses:    make(map[string]BusInfo, len(network.Buses)),
		router:   transportRouter,
		renderer: renderer,
	}

	positions := make(map[string]geo.Point, len(network.Stops))
	for _, stop := range network.Stops {
		positions[stop.Name] = geo.Point{Latitude: stop.Latitude, Longitude: stop.Longitude}
	}

	busesAtStop := make(map[string]map[string]struct{}, len(network.Stops))
	for _, bus := range network.Buses {
		if _, exists := c.buses[bus.Name]; exists {
			return nil, fmt.Errorf("duplicate bus %q", bus.Name)
		}
		info, err := c.busInfo(bus, positions)
		if err != nil {
			return nil, err
		}
		c.buses[bus.Name] = info

		for _, name := range bus.Stops {
			if busesAtStop[name] == nil {
				busesAtStop[name] = make(map[string]struct{})
			}
			busesAtStop[name][bus.Name] = struct{}{}
		}
	}

	for _, stop := range network.Stops {
		buses := make([]string, 0, len(busesAtStop[stop.Name]))
		for name := range busesAtStop[stop.Name] {
			buses = append(buses, name)
		}
		sort.Strings(buses)
		c.stops[stop.Name] = StopInfo{Name: stop.Name, Buses: buses}
	}

	return c, nil
}

func (c *Catalog) busInfo(bus models.BusDescription, positions map[string]geo.Point) (BusInfo, error) {
	route := bus.ExpandedStops()

	unique := make(map[string]struct{}, len(bus.Stops))
	for _, name := range bus.Stops {
		unique[name] = struct{}{}
	}

	info := BusInfo{
		Name:            bus.Name,
		StopCount:       len(route),
		UniqueStopCount: len(unique),
	}
	for k := 1; k < len(route); k++ {
		d, err := c.router.RoadDistance(route[k-1], route[k])
		if err != nil {
			return BusInfo{}, fmt.Errorf("bus %q: %w", bus.Name, err)
		}
		info.RoadRouteLength += d
		info.GeoRouteLength += geo.Distance(positions[route[k-1]], positions[route[k]])
	}
	if info.GeoRouteLength > 0 {
		info.Curvature = float64(info.RoadRouteLength) / info.GeoRouteLength
	}
	return info, nil
}

// GetStop returns the buses passing through a stop.
func (c *Catalog) GetStop(name string) (StopInfo, bool) {
	info, ok := c.stops[name]
	return info, ok
}

// GetBus returns the route statistics of a bus.
func (c *Catalog) GetBus(name string) (BusInfo, bool) {
	info, ok := c.buses[name]
	return info, ok
}

// FindRoute returns the fastest itinerary between two stops.
func (c *Catalog) FindRoute(from, to string) (*router.Itinerary, bool) {
	return c.router.FindRoute(from, to)
}

// RenderMap returns the SVG map of the network. The map is rendered once.
func (c *Catalog) RenderMap() (string, error) {
	c.mapOnce.Do(func() {
		c.mapSVG, c.mapErr = c.renderer.Render()
	})
	return c.mapSVG, c.mapErr
}

// StopCount returns the number of stops in the catalog.
func (c *Catalog) StopCount() int {
	return len(c.stops)
}

// BusCount returns the number of buses in the catalog.
func (c *Catalog) BusCount() int {
	return len(c.buses)
}

// GraphSize returns the vertex and edge counts of the routing graph.
func (c *Catalog) GraphSize() (vertices, edges int) {
	return c.router.VertexCount(), c.router.EdgeCount()
}

// FromDocument builds a catalog from a decoded input document.
func FromDocument(doc *models.Document) (*Catalog, error) {
	network, err := doc.Network()
	if err != nil {
		return nil, err
	}
	routing, err := doc.Routing()
	if err != nil {
		return nil, err
	}
	settings, err := render.ParseRenderSettings(doc.RenderSettings)
	if err != nil {
		return nil, err
	}
	return NewCatalog(network, routing, settings)
}
