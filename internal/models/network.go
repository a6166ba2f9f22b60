package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// StopDescription is a stop record of the network description.
// RoadDistances holds the declared road distance in meters to neighboring stops.
type StopDescription struct {
	Name          string         `json:"name" validate:"required"`
	Latitude      float64        `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64        `json:"longitude" validate:"gte=-180,lte=180"`
	RoadDistances map[string]int `json:"road_distances" validate:"dive,gte=0"`
}

// BusDescription is a bus record of the network description.
// Stops is the sequence as declared in the input, not yet expanded.
type BusDescription struct {
	Name        string   `json:"name" validate:"required"`
	Stops       []string `json:"stops" validate:"required,min=1"`
	IsRoundtrip bool     `json:"is_roundtrip"`
}

// ExpandedStops returns the stop sequence as physically traveled.
//
// Round-trip routes are closed back to their origin if the declared sequence does not
// already end there. Linear routes are mirrored, so [A B C] becomes [A B C B A].
func (b BusDescription) ExpandedStops() []string {
	if len(b.Stops) == 0 {
		return nil
	}
	if b.IsRoundtrip {
		stops := append([]string(nil), b.Stops...)
		if len(stops) > 1 && stops[len(stops)-1] != stops[0] {
			stops = append(stops, stops[0])
		}
		return stops
	}
	stops := make([]string, 0, 2*len(b.Stops)-1)
	stops = append(stops, b.Stops...)
	for i := len(b.Stops) - 2; i >= 0; i-- {
		stops = append(stops, b.Stops[i])
	}
	return stops
}

// RoutingSettings are the two scalar routing parameters of the network.
type RoutingSettings struct {
	BusWaitTime int     `json:"bus_wait_time" yaml:"bus_wait_time" validate:"gte=0"`
	BusVelocity float64 `json:"bus_velocity" yaml:"bus_velocity" validate:"gt=0"`
}

// Validate checks the routing settings against their struct tags.
func (rs RoutingSettings) Validate() error {
	if err := validator.New().Struct(rs); err != nil {
		return fmt.Errorf("invalid routing settings: %w", err)
	}
	return nil
}

// Network is the parsed network description: every stop and bus record, in input order.
type Network struct {
	Stops []StopDescription
	Buses []BusDescription
}

// Validate checks every stop and bus record against its struct tags.
func (n *Network) Validate() error {
	v := validator.New()
	for _, stop := range n.Stops {
		if err := v.Struct(stop); err != nil {
			return fmt.Errorf("invalid stop %q: %w", stop.Name, err)
		}
	}
	for _, bus := range n.Buses {
		if err := v.Struct(bus); err != nil {
			return fmt.Errorf("invalid bus %q: %w", bus.Name, err)
		}
	}
	return nil
}
