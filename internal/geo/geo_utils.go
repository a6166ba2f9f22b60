package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// Point is a geographic position in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// BoundingBox defines the corners of a lat/lon box
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains checks whether the given latitude and longitude are within the bounding box
func (b *BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Width returns the longitude extent of the box in degrees.
func (b *BoundingBox) Width() float64 {
	return b.MaxLon - b.MinLon
}

// Height returns the latitude extent of the box in degrees.
func (b *BoundingBox) Height() float64 {
	return b.MaxLat - b.MinLat
}

// ComputeBoundingBox computes the bounding box of all given points
func ComputeBoundingBox(points []Point) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, fmt.Errorf("no points to compute bounding box")
	}

	minLat := math.MaxFloat64
	maxLat := -math.MaxFloat64
	minLon := math.MaxFloat64
	maxLon := -math.MaxFloat64

	for _, p := range points {
		minLat = math.Min(minLat, p.Latitude)
		maxLat = math.Max(maxLat, p.Latitude)
		minLon = math.Min(minLon, p.Longitude)
		maxLon = math.Max(maxLon, p.Longitude)
	}

	return BoundingBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLon: minLon,
		MaxLon: maxLon,
	}, nil
}

// IsValidLatLon returns true if the given latitude and longitude values
// fall within the valid geographic coordinate bounds.
//
// Latitude must be between -90 and 90 degrees, and longitude must be
// between -180 and 180 degrees.
func IsValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// earthRadiusInMeters represents the mean radius of the Earth in meters.
//
// Reference: NASA Planetary Fact Sheet – Earth
// https://nssdc.gsfc.nasa.gov/planetary/factsheet/earthfact.html
const earthRadiusInMeters = 6371000

// Distance returns the great-circle distance between two points in meters.
func Distance(from, to Point) float64 {
	p1 := s2.LatLngFromDegrees(from.Latitude, from.Longitude)
	p2 := s2.LatLngFromDegrees(to.Latitude, to.Longitude)
	return p1.Distance(p2).Radians() * earthRadiusInMeters
}
