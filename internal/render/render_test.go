package render

import (
	"encoding/json"
	"strings"
	"testing"

	"transitcatalog.org/internal/models"
)

func TestColorJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: `"white"`, want: "white"},
		{input: `[255, 160, 0]`, want: "rgb(255,160,0)"},
		{input: `[255, 255, 255, 0.85]`, want: "rgba(255,255,255,0.85)"},
		{input: `[1, 2]`, wantErr: true},
		{input: `[300, 0, 0]`, wantErr: true},
		{input: `{"r": 1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var c Color
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s, got color %s", tt.input, c)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, c.String())
			}
		})
	}

	if NoneColor.String() != "none" {
		t.Errorf("expected none color to render as none, got %q", NoneColor.String())
	}
}

func TestParseRenderSettings(t *testing.T) {
	t.Run("Defaults for empty input", func(t *testing.T) {
		settings, err := ParseRenderSettings(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.Width != 1200 || len(settings.Layers) != 4 {
			t.Errorf("expected default settings, got %+v", settings)
		}
	})

	t.Run("Overrides keep other defaults", func(t *testing.T) {
		raw := json.RawMessage(`{"width": 600, "color_palette": ["blue"], "stop_label_offset": [1, 2], "layers": ["stop_points"]}`)
		settings, err := ParseRenderSettings(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.Width != 600 || settings.Height != 1200 {
			t.Errorf("expected width 600 and default height, got %v and %v", settings.Width, settings.Height)
		}
		if len(settings.ColorPalette) != 1 || settings.ColorPalette[0].String() != "blue" {
			t.Errorf("expected palette [blue], got %v", settings.ColorPalette)
		}
		if settings.StopLabelOffset != (Point{X: 1, Y: 2}) {
			t.Errorf("expected offset (1, 2), got %+v", settings.StopLabelOffset)
		}
	})

	t.Run("Unknown layer", func(t *testing.T) {
		if _, err := ParseRenderSettings(json.RawMessage(`{"layers": ["roads"]}`)); err == nil {
			t.Error("expected error for unknown layer, got none")
		}
	})

	t.Run("Negative width", func(t *testing.T) {
		if _, err := ParseRenderSettings(json.RawMessage(`{"width": -1}`)); err == nil {
			t.Error("expected error for negative width, got none")
		}
	})

	t.Run("Bad offset", func(t *testing.T) {
		if _, err := ParseRenderSettings(json.RawMessage(`{"bus_label_offset": [1]}`)); err == nil {
			t.Error("expected error for one-element offset, got none")
		}
	})
}

func testNetwork() ([]models.StopDescription, []models.BusDescription) {
	stops := []models.StopDescription{
		{Name: "B", Latitude: 55.0, Longitude: 37.5},
		{Name: "A", Latitude: 56.0, Longitude: 37.0},
		{Name: "C", Latitude: 55.5, Longitude: 38.0},
	}
	buses := []models.BusDescription{
		{Name: "14", Stops: []string{"A", "B", "C"}},
		{Name: "1", Stops: []string{"C", "A", "C"}, IsRoundtrip: true},
	}
	return stops, buses
}

func TestProjection(t *testing.T) {
	stops, buses := testNetwork()
	settings := DefaultRenderSettings()
	settings.Width, settings.Height, settings.Padding = 200, 300, 50

	m, err := NewMapRenderer(stops, buses, settings)
	if err != nil {
		t.Fatalf("NewMapRenderer failed: %v", err)
	}

	// Width zoom is 100 per degree, height zoom 200 per degree; the smaller one wins.
	tests := []struct {
		stop string
		want Point
	}{
		{stop: "A", want: Point{X: 50, Y: 50}},
		{stop: "B", want: Point{X: 100, Y: 150}},
		{stop: "C", want: Point{X: 150, Y: 100}},
	}
	for _, tt := range tests {
		got, ok := m.StopPosition(tt.stop)
		if !ok {
			t.Fatalf("expected a position for %s", tt.stop)
		}
		if got != tt.want {
			t.Errorf("%s: expected %+v, got %+v", tt.stop, tt.want, got)
		}
	}
}

func TestProjectionSingleStop(t *testing.T) {
	stops := []models.StopDescription{{Name: "Only", Latitude: 10, Longitude: 20}}
	m, err := NewMapRenderer(stops, nil, DefaultRenderSettings())
	if err != nil {
		t.Fatalf("NewMapRenderer failed: %v", err)
	}
	got, _ := m.StopPosition("Only")
	if got != (Point{X: 50, Y: 50}) {
		t.Errorf("expected the padding corner, got %+v", got)
	}
}

func TestRender(t *testing.T) {
	stops, buses := testNetwork()
	m, err := NewMapRenderer(stops, buses, DefaultRenderSettings())
	if err != nil {
		t.Fatalf("NewMapRenderer failed: %v", err)
	}

	svg, err := m.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.HasPrefix(svg, `<?xml version="1.0" encoding="UTF-8" ?><svg xmlns="http://www.w3.org/2000/svg" version="1.1">`) {
		t.Errorf("unexpected document header: %.120s", svg)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected document to end with </svg>")
	}

	counts := map[string]int{
		"<polyline": 2,
		"<circle":   3,
		// Bus 14 is linear with a distinct terminal: 2 labels of 2 texts each.
		// Bus 1 is a round trip: 1 label of 2 texts. Stops: 3 labels of 2 texts each.
		"<text": 12,
	}
	for tag, want := range counts {
		if got := strings.Count(svg, tag); got != want {
			t.Errorf("expected %d %s elements, got %d", want, tag, got)
		}
	}

	// Buses are drawn in name order and take palette colors in that order.
	first := strings.Index(svg, `stroke="green"`)
	second := strings.Index(svg, `stroke="rgb(255,160,0)"`)
	if first == -1 || second == -1 || first > second {
		t.Errorf("expected bus 1 in green before bus 14 in orange")
	}
}

func TestRenderLayerOrder(t *testing.T) {
	stops, buses := testNetwork()
	settings := DefaultRenderSettings()
	settings.Layers = []string{LayerStopPoints, LayerBusLines}

	m, err := NewMapRenderer(stops, buses, settings)
	if err != nil {
		t.Fatalf("NewMapRenderer failed: %v", err)
	}
	svg, err := m.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Index(svg, "<circle") > strings.Index(svg, "<polyline") {
		t.Error("expected stop points to be drawn before bus lines")
	}
	if strings.Contains(svg, "<text") {
		t.Error("expected no labels when label layers are disabled")
	}
}

func TestRenderEscapesLabels(t *testing.T) {
	stops := []models.StopDescription{{Name: "Fish & Chips <Pier>", Latitude: 1, Longitude: 1}}
	m, err := NewMapRenderer(stops, nil, DefaultRenderSettings())
	if err != nil {
		t.Fatalf("NewMapRenderer failed: %v", err)
	}
	svg, _ := m.Render()
	if !strings.Contains(svg, "Fish &amp; Chips &lt;Pier&gt;") {
		t.Errorf("expected escaped stop label in %s", svg)
	}
}

func TestNewMapRendererUnknownStop(t *testing.T) {
	stops := []models.StopDescription{{Name: "A"}}
	buses := []models.BusDescription{{Name: "1", Stops: []string{"A", "Z"}}}
	if _, err := NewMapRenderer(stops, buses, DefaultRenderSettings()); err == nil {
		t.Error("expected error for unknown stop, got none")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		50:           "50",
		0.85:         "0.85",
		-3:           "-3",
		1234.5678912: "1234.567891",
	}
	for in, want := range tests {
		if got := formatNumber(in); got != want {
			t.Errorf("formatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}
