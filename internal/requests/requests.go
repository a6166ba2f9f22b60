// Package requests decodes statistics requests and answers them from a catalog.
package requests

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Request types as they appear in the "type" field of a statistics request.
const (
	TypeStop  = "Stop"
	TypeBus   = "Bus"
	TypeRoute = "Route"
	TypeMap   = "Map"
)

// ErrUnknownRequestType is returned for requests whose type is not one of the four query kinds.
var ErrUnknownRequestType = errors.New("unknown request type")

var validate = validator.New()

// Request is one statistics request. It is implemented only by StopRequest,
// BusRequest, RouteRequest and MapRequest.
type Request interface {
	RequestID() int
	Type() string
	isRequest()
}

// StopRequest asks for the buses serving a stop.
type StopRequest struct {
	ID   int    `json:"id"`
	Name string `json:"name" validate:"required"`
}

// BusRequest asks for the route statistics of a bus.
type BusRequest struct {
	ID   int    `json:"id"`
	Name string `json:"name" validate:"required"`
}

// RouteRequest asks for the fastest itinerary between two stops.
type RouteRequest struct {
	ID   int    `json:"id"`
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// MapRequest asks for the SVG map of the network.
type MapRequest struct {
	ID int `json:"id"`
}

func (r StopRequest) RequestID() int  { return r.ID }
func (r BusRequest) RequestID() int   { return r.ID }
func (r RouteRequest) RequestID() int { return r.ID }
func (r MapRequest) RequestID() int   { return r.ID }

func (StopRequest) Type() string  { return TypeStop }
func (BusRequest) Type() string   { return TypeBus }
func (RouteRequest) Type() string { return TypeRoute }
func (MapRequest) Type() string   { return TypeMap }

func (StopRequest) isRequest()  {}
func (BusRequest) isRequest()   {}
func (RouteRequest) isRequest() {}
func (MapRequest) isRequest()   {}

// header holds the fields shared by every request.
type header struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Read decodes one request by its "type" field and validates it.
func Read(raw json.RawMessage) (Request, error) {
	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}

	var req Request
	switch h.Type {
	case TypeStop:
		var r StopRequest
		if err := decodeRequest(raw, &r); err != nil {
			return nil, err
		}
		req = r
	case TypeBus:
		var r BusRequest
		if err := decodeRequest(raw, &r); err != nil {
			return nil, err
		}
		req = r
	case TypeRoute:
		var r RouteRequest
		if err := decodeRequest(raw, &r); err != nil {
			return nil, err
		}
		req = r
	case TypeMap:
		req = MapRequest{ID: h.ID}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownRequestType, h.Type)
	}
	return req, nil
}

func decodeRequest(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// requestID extracts the id of a request that could not be decoded, or 0.
func requestID(raw json.RawMessage) int {
	var h header
	_ = json.Unmarshal(raw, &h)
	return h.ID
}
