package requests

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"transitcatalog.org/internal/catalog"
	"transitcatalog.org/internal/metrics"
	"transitcatalog.org/internal/models"
	"transitcatalog.org/internal/render"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	network := &models.Network{
		Stops: []models.StopDescription{
			{Name: "A", Latitude: 55.60, Longitude: 37.20, RoadDistances: map[string]int{"B": 1000}},
			{Name: "B", Latitude: 55.61, Longitude: 37.21, RoadDistances: map[string]int{"C": 1000}},
			{Name: "C", Latitude: 55.62, Longitude: 37.22},
			{Name: "D", Latitude: 55.63, Longitude: 37.23},
		},
		Buses: []models.BusDescription{
			{Name: "1", Stops: []string{"A", "B", "C"}},
		},
	}
	c, err := catalog.NewCatalog(network, models.RoutingSettings{BusWaitTime: 5, BusVelocity: 60}, render.DefaultRenderSettings())
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return NewProcessor(c, metrics.NewMetricsService(nil), nil)
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Request
		wantErr bool
	}{
		{name: "Stop", raw: `{"id": 1, "type": "Stop", "name": "A"}`, want: StopRequest{ID: 1, Name: "A"}},
		{name: "Bus", raw: `{"id": 2, "type": "Bus", "name": "1"}`, want: BusRequest{ID: 2, Name: "1"}},
		{name: "Route", raw: `{"id": 3, "type": "Route", "from": "A", "to": "C"}`, want: RouteRequest{ID: 3, From: "A", To: "C"}},
		{name: "Map", raw: `{"id": 4, "type": "Map"}`, want: MapRequest{ID: 4}},
		{name: "Missing name", raw: `{"id": 5, "type": "Stop"}`, wantErr: true},
		{name: "Missing destination", raw: `{"id": 6, "type": "Route", "from": "A"}`, wantErr: true},
		{name: "Unknown type", raw: `{"id": 7, "type": "Train"}`, wantErr: true},
		{name: "Malformed", raw: `{"id": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(json.RawMessage(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got request %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}

	t.Run("Unknown type error", func(t *testing.T) {
		_, err := Read(json.RawMessage(`{"id": 7, "type": "Train"}`))
		if !errors.Is(err, ErrUnknownRequestType) {
			t.Errorf("expected ErrUnknownRequestType, got %v", err)
		}
	})
}

func TestProcess(t *testing.T) {
	p := newTestProcessor(t)

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "Stop",
			req:  StopRequest{ID: 1, Name: "B"},
			want: `{"buses":["1"],"request_id":1}`,
		},
		{
			name: "Stop without buses",
			req:  StopRequest{ID: 2, Name: "D"},
			want: `{"buses":[],"request_id":2}`,
		},
		{
			name: "Unknown stop",
			req:  StopRequest{ID: 3, Name: "Z"},
			want: `{"request_id":3,"error_message":"not found"}`,
		},
		{
			name: "Unknown bus",
			req:  BusRequest{ID: 4, Name: "2"},
			want: `{"request_id":4,"error_message":"not found"}`,
		},
		{
			name: "Route",
			req:  RouteRequest{ID: 5, From: "A", To: "C"},
			want: `{"total_time":7,"items":[{"type":"Wait","stop_name":"A","time":5},{"type":"Bus","bus":"1","span_count":2,"time":2}],"request_id":5}`,
		},
		{
			name: "Same stop",
			req:  RouteRequest{ID: 6, From: "B", To: "B"},
			want: `{"total_time":0,"items":[],"request_id":6}`,
		},
		{
			name: "Unreachable",
			req:  RouteRequest{ID: 7, From: "A", To: "D"},
			want: `{"request_id":7,"error_message":"not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(p.Process(tt.req))
			if err != nil {
				t.Fatalf("failed to marshal response: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("Bus", func(t *testing.T) {
		resp, ok := p.Process(BusRequest{ID: 8, Name: "1"}).(BusResponse)
		if !ok {
			t.Fatalf("expected BusResponse")
		}
		if resp.RouteLength != 4000 || resp.StopCount != 5 || resp.UniqueStopCount != 3 || resp.RequestID != 8 {
			t.Errorf("unexpected bus response %+v", resp)
		}
		if resp.Curvature <= 0 {
			t.Errorf("expected positive curvature, got %v", resp.Curvature)
		}
	})

	t.Run("Map", func(t *testing.T) {
		resp, ok := p.Process(MapRequest{ID: 9}).(MapResponse)
		if !ok {
			t.Fatalf("expected MapResponse")
		}
		if !strings.HasPrefix(resp.Map, "<?xml") || resp.RequestID != 9 {
			t.Errorf("unexpected map response %.80s", resp.Map)
		}
	})
}

func TestProcessAll(t *testing.T) {
	p := newTestProcessor(t)

	raws := []json.RawMessage{
		json.RawMessage(`{"id": 1, "type": "Bus", "name": "1"}`),
		json.RawMessage(`{"id": 2, "type": "Train", "name": "1"}`),
		json.RawMessage(`{"id": 3, "type": "Stop", "name": "Z"}`),
		json.RawMessage(`{"id": 4, "type": "Stop", "name": "A"}`),
	}
	responses := p.ProcessAll(raws)
	if len(responses) != len(raws) {
		t.Fatalf("expected %d responses, got %d", len(raws), len(responses))
	}

	if _, ok := responses[0].(BusResponse); !ok {
		t.Errorf("expected first response to be a BusResponse, got %T", responses[0])
	}
	if errResp, ok := responses[1].(ErrorResponse); !ok || errResp.RequestID != 2 || errResp.ErrorMessage == NotFoundMessage {
		t.Errorf("expected an invalid-request error for id 2, got %+v", responses[1])
	}
	if errResp, ok := responses[2].(ErrorResponse); !ok || errResp.ErrorMessage != NotFoundMessage {
		t.Errorf("expected not found for id 3, got %+v", responses[2])
	}
	if stop, ok := responses[3].(StopResponse); !ok || stop.RequestID != 4 {
		t.Errorf("expected a stop response for id 4, got %+v", responses[3])
	}
}
