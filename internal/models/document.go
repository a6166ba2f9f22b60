package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMissingRoutingSettings is returned when the document carries no routing_settings.
	ErrMissingRoutingSettings = errors.New("missing routing_settings")
	// ErrUnknownBaseRequest is returned for base requests that are neither stops nor buses.
	ErrUnknownBaseRequest = errors.New("unknown base request type")
)

// Document is the input document: the network description, the routing and render
// settings and the batch of statistics requests to answer.
type Document struct {
	BaseRequests    []json.RawMessage `json:"base_requests"`
	RoutingSettings *RoutingSettings  `json:"routing_settings"`
	RenderSettings  json.RawMessage   `json:"render_settings"`
	StatRequests    []json.RawMessage `json:"stat_requests"`
}

// DecodeDocument reads a JSON input document.
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode input document: %w", err)
	}
	return &doc, nil
}

// Routing returns the validated routing settings of the document.
func (d *Document) Routing() (RoutingSettings, error) {
	if d.RoutingSettings == nil {
		return RoutingSettings{}, ErrMissingRoutingSettings
	}
	if err := d.RoutingSettings.Validate(); err != nil {
		return RoutingSettings{}, err
	}
	return *d.RoutingSettings, nil
}

// Network parses the base requests into stop and bus descriptions.
func (d *Document) Network() (*Network, error) {
	return ParseBaseRequests(d.BaseRequests)
}

// ParseBaseRequests decodes a list of base requests tagged with "type": "Stop" or "Bus".
func ParseBaseRequests(raws []json.RawMessage) (*Network, error) {
	network := &Network{}
	for i, raw := range raws {
		var tag struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, fmt.Errorf("base request %d: %w", i, err)
		}

		switch tag.Type {
		case "Stop":
			var stop StopDescription
			if err := json.Unmarshal(raw, &stop); err != nil {
				return nil, fmt.Errorf("base request %d: failed to decode stop: %w", i, err)
			}
			network.Stops = append(network.Stops, stop)
		case "Bus":
			var bus BusDescription
			if err := json.Unmarshal(raw, &bus); err != nil {
				return nil, fmt.Errorf("base request %d: failed to decode bus: %w", i, err)
			}
			network.Buses = append(network.Buses, bus)
		default:
			return nil, fmt.Errorf("base request %d: %w %q", i, ErrUnknownBaseRequest, tag.Type)
		}
	}

	if err := network.Validate(); err != nil {
		return nil, err
	}
	return network, nil
}
