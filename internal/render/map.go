// Package render draws the bus network as an SVG map.
package render

import (
	"fmt"
	"math"
	"sort"

	"transitcatalog.org/internal/geo"
	"transitcatalog.org/internal/models"
)

type mapStop struct {
	name     string
	position Point
}

type mapBus struct {
	name        string
	stops       []string
	isRoundtrip bool
}

// MapRenderer projects stop coordinates onto the canvas and draws the configured layers.
type MapRenderer struct {
	settings RenderSettings
	stops    []mapStop
	buses    []mapBus
	points   map[string]Point
}

// NewMapRenderer prepares a renderer for the network. Stops and buses are drawn in name order.
func NewMapRenderer(stops []models.StopDescription, buses []models.BusDescription, settings RenderSettings) (*MapRenderer, error) {
	m := &MapRenderer{
		settings: settings,
		points:   make(map[string]Point, len(stops)),
	}

	positions := make([]geo.Point, 0, len(stops))
	for _, stop := range stops {
		positions = append(positions, geo.Point{Latitude: stop.Latitude, Longitude: stop.Longitude})
	}
	project := projection(positions, settings)
	for _, stop := range stops {
		point := project(geo.Point{Latitude: stop.Latitude, Longitude: stop.Longitude})
		m.stops = append(m.stops, mapStop{name: stop.Name, position: point})
		m.points[stop.Name] = point
	}
	sort.Slice(m.stops, func(i, j int) bool { return m.stops[i].name < m.stops[j].name })

	for _, bus := range buses {
		route := bus.ExpandedStops()
		for _, name := range route {
			if _, ok := m.points[name]; !ok {
				return nil, fmt.Errorf("bus %q references unknown stop %q", bus.Name, name)
			}
		}
		m.buses = append(m.buses, mapBus{name: bus.Name, stops: route, isRoundtrip: bus.IsRoundtrip})
	}
	sort.Slice(m.buses, func(i, j int) bool { return m.buses[i].name < m.buses[j].name })

	return m, nil
}

// projection scales the stops' bounding box into the padded canvas, keeping the aspect
// ratio. North is up.
func projection(positions []geo.Point, settings RenderSettings) func(geo.Point) Point {
	bbox, err := geo.ComputeBoundingBox(positions)
	if err != nil {
		return func(geo.Point) Point { return Point{X: settings.Padding, Y: settings.Padding} }
	}

	widthZoom := math.Inf(1)
	if bbox.Width() != 0 {
		widthZoom = (settings.Width - 2*settings.Padding) / bbox.Width()
	}
	heightZoom := math.Inf(1)
	if bbox.Height() != 0 {
		heightZoom = (settings.Height - 2*settings.Padding) / bbox.Height()
	}
	zoom := math.Min(widthZoom, heightZoom)
	if math.IsInf(zoom, 1) {
		zoom = 0
	}

	return func(p geo.Point) Point {
		return Point{
			X: (p.Longitude-bbox.MinLon)*zoom + settings.Padding,
			Y: (bbox.MaxLat-p.Latitude)*zoom + settings.Padding,
		}
	}
}

// StopPosition returns the canvas position of a stop.
func (m *MapRenderer) StopPosition(name string) (Point, bool) {
	p, ok := m.points[name]
	return p, ok
}

// Render draws every configured layer and returns the SVG document.
func (m *MapRenderer) Render() (string, error) {
	var doc Document
	for _, layer := range m.settings.Layers {
		switch layer {
		case LayerBusLines:
			m.drawBusLines(&doc)
		case LayerBusLabels:
			m.drawBusLabels(&doc)
		case LayerStopPoints:
			m.drawStopPoints(&doc)
		case LayerStopLabels:
			m.drawStopLabels(&doc)
		default:
			return "", fmt.Errorf("unknown map layer %q", layer)
		}
	}
	return doc.Render(), nil
}

func (m *MapRenderer) paletteColor(i int) Color {
	if len(m.settings.ColorPalette) == 0 {
		return NoneColor
	}
	return m.settings.ColorPalette[i%len(m.settings.ColorPalette)]
}

func (m *MapRenderer) drawBusLines(doc *Document) {
	for i, bus := range m.buses {
		line := Polyline{shape: newShape()}
		line.stroke = m.paletteColor(i)
		line.strokeWidth = m.settings.LineWidth
		line.strokeLineCap = "round"
		line.strokeLineJoin = "round"
		for _, name := range bus.stops {
			line.Points = append(line.Points, m.points[name])
		}
		doc.Add(line)
	}
}

func (m *MapRenderer) drawBusLabels(doc *Document) {
	for i, bus := range m.buses {
		if len(bus.stops) == 0 {
			continue
		}
		terminals := []string{bus.stops[0]}
		middle := bus.stops[len(bus.stops)/2]
		if !bus.isRoundtrip && middle != bus.stops[0] {
			terminals = append(terminals, middle)
		}

		for _, stop := range terminals {
			label := Text{
				shape:      newShape(),
				Position:   m.points[stop],
				Offset:     m.settings.BusLabelOffset,
				FontSize:   m.settings.BusLabelFontSize,
				FontFamily: "Verdana",
				FontWeight: "bold",
				Data:       bus.name,
			}
			doc.Add(m.underlayer(label))
			label.fill = m.paletteColor(i)
			doc.Add(label)
		}
	}
}

func (m *MapRenderer) drawStopPoints(doc *Document) {
	for _, stop := range m.stops {
		circle := Circle{shape: newShape(), Center: stop.position, Radius: m.settings.StopRadius}
		circle.fill = NamedColor("white")
		doc.Add(circle)
	}
}

func (m *MapRenderer) drawStopLabels(doc *Document) {
	for _, stop := range m.stops {
		label := Text{
			shape:      newShape(),
			Position:   stop.position,
			Offset:     m.settings.StopLabelOffset,
			FontSize:   m.settings.StopLabelFontSize,
			FontFamily: "Verdana",
			Data:       stop.name,
		}
		doc.Add(m.underlayer(label))
		label.fill = NamedColor("black")
		doc.Add(label)
	}
}

// underlayer returns the outlined backdrop drawn beneath a label.
func (m *MapRenderer) underlayer(label Text) Text {
	label.fill = m.settings.UnderlayerColor
	label.stroke = m.settings.UnderlayerColor
	label.strokeWidth = m.settings.UnderlayerWidth
	label.strokeLineCap = "round"
	label.strokeLineJoin = "round"
	return label
}
