// Package geometry holds the pure planar functions the planner is built on:
// degree-space distance, compass stepping, point-in-polygon and buffered
// obstacle tests. Nothing here keeps state.
package geometry

import (
	"math"

	"drone-delivery-planner/internal/domain"

	"github.com/paulmach/orb"
)

// Step is the fixed flight move distance in degrees. It is both the search
// grid resolution and the unit of one move for cost accounting.
const Step = 0.00015

// Distance is the Euclidean distance in degree-space (not great-circle).
func Distance(a, b domain.Point) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// IsCloseTo reports whether two points are strictly less than one Step apart.
func IsCloseTo(a, b domain.Point) bool {
	return Distance(a, b) < Step
}

func toOrb(p domain.Point) orb.Point { return orb.Point{p.Lng, p.Lat} }

// FromOrb converts an orb point (X=lng, Y=lat) back to a domain point.
func FromOrb(p orb.Point) domain.Point { return domain.Point{Lng: p.X(), Lat: p.Y()} }

// ToOrb converts a domain point to an orb point (X=lng, Y=lat).
func ToOrb(p domain.Point) orb.Point { return toOrb(p) }
