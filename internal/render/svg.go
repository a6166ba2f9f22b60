package render

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Point is a position on the SVG canvas.
type Point struct {
	X float64
	Y float64
}

// UnmarshalJSON reads a point written as a two-element array [x, y].
func (p *Point) UnmarshalJSON(b []byte) error {
	var xy []float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("point must have 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// formatNumber prints a number with up to 10 significant digits.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// shape holds the presentation attributes shared by every SVG element.
type shape struct {
	fill           Color
	stroke         Color
	strokeWidth    float64
	strokeLineCap  string
	strokeLineJoin string
}

func newShape() shape {
	return shape{strokeWidth: 1}
}

func (s shape) writeAttributes(sb *strings.Builder) {
	fmt.Fprintf(sb, `fill="%s" stroke="%s" stroke-width="%s" `, s.fill, s.stroke, formatNumber(s.strokeWidth))
	if s.strokeLineCap != "" {
		fmt.Fprintf(sb, `stroke-linecap="%s" `, s.strokeLineCap)
	}
	if s.strokeLineJoin != "" {
		fmt.Fprintf(sb, `stroke-linejoin="%s" `, s.strokeLineJoin)
	}
}

// element is one SVG element of a Document.
type element interface {
	writeSVG(sb *strings.Builder)
}

// Circle is an SVG circle.
type Circle struct {
	shape
	Center Point
	Radius float64
}

func (c Circle) writeSVG(sb *strings.Builder) {
	fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="%s" `, formatNumber(c.Center.X), formatNumber(c.Center.Y), formatNumber(c.Radius))
	c.writeAttributes(sb)
	sb.WriteString("/>")
}

// Polyline is an SVG polyline.
type Polyline struct {
	shape
	Points []Point
}

func (p Polyline) writeSVG(sb *strings.Builder) {
	sb.WriteString(`<polyline points="`)
	for _, pt := range p.Points {
		fmt.Fprintf(sb, "%s,%s ", formatNumber(pt.X), formatNumber(pt.Y))
	}
	sb.WriteString(`" `)
	p.writeAttributes(sb)
	sb.WriteString("/>")
}

// Text is an SVG text label.
type Text struct {
	shape
	Position   Point
	Offset     Point
	FontSize   int
	FontFamily string
	FontWeight string
	Data       string
}

func (t Text) writeSVG(sb *strings.Builder) {
	fmt.Fprintf(sb, `<text x="%s" y="%s" dx="%s" dy="%s" font-size="%d" `,
		formatNumber(t.Position.X), formatNumber(t.Position.Y),
		formatNumber(t.Offset.X), formatNumber(t.Offset.Y), t.FontSize)
	if t.FontFamily != "" {
		fmt.Fprintf(sb, `font-family="%s" `, t.FontFamily)
	}
	if t.FontWeight != "" {
		fmt.Fprintf(sb, `font-weight="%s" `, t.FontWeight)
	}
	t.writeAttributes(sb)
	sb.WriteString(">")
	// strings.Builder never fails to write.
	_ = xml.EscapeText(sb, []byte(t.Data))
	sb.WriteString("</text>")
}

// Document is an ordered list of SVG elements.
type Document struct {
	elements []element
}

// Add appends an element; later elements are drawn on top.
func (d *Document) Add(e element) {
	d.elements = append(d.elements, e)
}

// Len returns the number of elements in the document.
func (d *Document) Len() int {
	return len(d.elements)
}

// Render serializes the document.
func (d *Document) Render() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" ?>`)
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1">`)
	for _, e := range d.elements {
		e.writeSVG(&sb)
	}
	sb.WriteString("</svg>")
	return sb.String()
}
