package render

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Layer names, drawn in the order listed in RenderSettings.Layers.
const (
	LayerBusLines   = "bus_lines"
	LayerBusLabels  = "bus_labels"
	LayerStopPoints = "stop_points"
	LayerStopLabels = "stop_labels"
)

// Color is an SVG paint: none, a named color, rgb or rgba.
type Color struct {
	name       string
	rgb        bool
	alpha      bool
	r, g, b    uint8
	alphaValue float64
}

// NoneColor paints nothing.
var NoneColor = Color{}

// NamedColor returns a color given by its SVG name, e.g. "white".
func NamedColor(name string) Color {
	return Color{name: name}
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{rgb: true, r: r, g: g, b: b}
}

// RGBA returns a color with an opacity in [0, 1].
func RGBA(r, g, b uint8, alpha float64) Color {
	return Color{rgb: true, alpha: true, r: r, g: g, b: b, alphaValue: alpha}
}

// String renders the color as an SVG attribute value.
func (c Color) String() string {
	switch {
	case c.alpha:
		return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.r, c.g, c.b, formatNumber(c.alphaValue))
	case c.rgb:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.r, c.g, c.b)
	case c.name != "":
		return c.name
	default:
		return "none"
	}
}

// UnmarshalJSON reads a color written as a string, [r, g, b] or [r, g, b, a].
func (c *Color) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*c = NamedColor(name)
		return nil
	}

	var parts []float64
	if err := json.Unmarshal(b, &parts); err != nil {
		return fmt.Errorf("unknown color %s", string(b))
	}
	channel := func(v float64) (uint8, error) {
		if v < 0 || v > 255 || v != float64(int(v)) {
			return 0, fmt.Errorf("invalid color channel %v", v)
		}
		return uint8(v), nil
	}

	if len(parts) != 3 && len(parts) != 4 {
		return fmt.Errorf("color must have 3 or 4 components, got %d", len(parts))
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := channel(parts[i])
		if err != nil {
			return err
		}
		rgb[i] = v
	}
	if len(parts) == 3 {
		*c = RGB(rgb[0], rgb[1], rgb[2])
	} else {
		*c = RGBA(rgb[0], rgb[1], rgb[2], parts[3])
	}
	return nil
}

// RenderSettings controls the look of the network map.
type RenderSettings struct {
	Width             float64  `json:"width" validate:"gt=0"`
	Height            float64  `json:"height" validate:"gt=0"`
	Padding           float64  `json:"padding" validate:"gte=0"`
	StopRadius        float64  `json:"stop_radius" validate:"gte=0"`
	LineWidth         float64  `json:"line_width" validate:"gte=0"`
	StopLabelFontSize int      `json:"stop_label_font_size" validate:"gte=0"`
	StopLabelOffset   Point    `json:"stop_label_offset"`
	UnderlayerColor   Color    `json:"underlayer_color"`
	UnderlayerWidth   float64  `json:"underlayer_width" validate:"gte=0"`
	ColorPalette      []Color  `json:"color_palette"`
	BusLabelFontSize  int      `json:"bus_label_font_size" validate:"gte=0"`
	BusLabelOffset    Point    `json:"bus_label_offset"`
	Layers            []string `json:"layers" validate:"dive,oneof=bus_lines bus_labels stop_points stop_labels"`
}

// DefaultRenderSettings returns the settings used for any field the input leaves out.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Width:             1200,
		Height:            1200,
		Padding:           50,
		StopRadius:        5,
		LineWidth:         14,
		StopLabelFontSize: 20,
		StopLabelOffset:   Point{X: 7, Y: -3},
		UnderlayerColor:   RGBA(255, 255, 255, 0.85),
		UnderlayerWidth:   3,
		ColorPalette:      []Color{NamedColor("green"), RGB(255, 160, 0), NamedColor("red")},
		BusLabelFontSize:  20,
		BusLabelOffset:    Point{X: 7, Y: 15},
		Layers:            []string{LayerBusLines, LayerBusLabels, LayerStopPoints, LayerStopLabels},
	}
}

// ParseRenderSettings decodes render settings over the defaults and validates them.
// An empty input yields the defaults.
func ParseRenderSettings(raw json.RawMessage) (RenderSettings, error) {
	settings := DefaultRenderSettings()
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &settings); err != nil {
			return RenderSettings{}, fmt.Errorf("failed to decode render settings: %w", err)
		}
	}
	if err := validator.New().Struct(settings); err != nil {
		return RenderSettings{}, fmt.Errorf("invalid render settings: %w", err)
	}
	return settings, nil
}
