package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry marks structurally impossible coordinates or polygons
// reaching the planner from a misbehaving caller.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Immutable geographic position (longitude, latitude) in decimal degrees.
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Return the point as [lng, lat] for GeoJSON and external API compatibility.
func (p Point) CoordsToList() []float64 { return []float64{p.Lng, p.Lat} }

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.Lng, p.Lat)
}

// Validate rejects NaN components and coordinates outside the WGS84 ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lng) || math.IsNaN(p.Lat) {
		return fmt.Errorf("point %s: component is NaN: %w", p, ErrInvalidGeometry)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("point %s: longitude out of range: %w", p, ErrInvalidGeometry)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("point %s: latitude out of range: %w", p, ErrInvalidGeometry)
	}
	return nil
}
