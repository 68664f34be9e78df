package geometry

import (
	"math"

	"drone-delivery-planner/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// BufferedRegion is a polygon inflated by a clearance distance: a point is in
// the region when it lies inside the polygon or within buffer of its boundary.
//
// Build it once per obstacle and reuse it for every test in a search.
type BufferedRegion struct {
	ring   []orb.Point
	raw    []domain.Point
	buffer float64
	bound  orb.Bound
}

// NewBufferedRegion inflates ring by buffer.
func NewBufferedRegion(ring []domain.Point, buffer float64) BufferedRegion {
	pts := make([]orb.Point, len(ring))
	for i, v := range ring {
		pts[i] = toOrb(v)
	}

	var bound orb.Bound
	if len(pts) > 0 {
		bound = orb.MultiPoint(pts).Bound().Pad(buffer)
	}

	return BufferedRegion{
		ring:   pts,
		raw:    ring,
		buffer: buffer,
		bound:  bound,
	}
}

// Buffer returns the clearance distance of the region.
func (r BufferedRegion) Buffer() float64 { return r.buffer }

// Bound returns the padded bounding box of the region.
func (r BufferedRegion) Bound() orb.Bound { return r.bound }

// Contains reports whether p lies in the inflated polygon.
func (r BufferedRegion) Contains(p domain.Point) bool {
	if len(r.ring) == 0 {
		return false
	}

	op := toOrb(p)
	if !r.bound.Contains(op) {
		return false
	}

	if PointInPolygon(p, r.raw) {
		return true
	}

	return r.distanceToBoundary(op) <= r.buffer
}

// SegmentIntersects reports whether the segment a-b touches the inflated polygon.
func (r BufferedRegion) SegmentIntersects(a, b domain.Point) bool {
	if len(r.ring) == 0 {
		return false
	}

	oa, ob := toOrb(a), toOrb(b)
	seg := orb.MultiPoint{oa, ob}
	if !seg.Bound().Intersects(r.bound) {
		return false
	}

	if r.Contains(a) || r.Contains(b) {
		return true
	}

	for i := 0; i+1 < len(r.ring); i++ {
		if segmentDistance(oa, ob, r.ring[i], r.ring[i+1]) <= r.buffer {
			return true
		}
	}

	return false
}

func (r BufferedRegion) distanceToBoundary(p orb.Point) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(r.ring); i++ {
		best = math.Min(best, planar.DistanceFromSegment(r.ring[i], r.ring[i+1], p))
	}
	return best
}

// BufferedContains reports whether p lies inside ring inflated by buffer.
func BufferedContains(p domain.Point, ring []domain.Point, buffer float64) bool {
	return NewBufferedRegion(ring, buffer).Contains(p)
}

// SegmentIntersectsBuffered reports whether a-b touches ring inflated by buffer.
func SegmentIntersectsBuffered(a, b domain.Point, ring []domain.Point, buffer float64) bool {
	return NewBufferedRegion(ring, buffer).SegmentIntersects(a, b)
}

// segmentDistance is the minimum distance between segments p1-p2 and q1-q2.
func segmentDistance(p1, p2, q1, q2 orb.Point) float64 {
	if segmentsIntersect(p1, p2, q1, q2) {
		return 0
	}
	return math.Min(
		math.Min(planar.DistanceFromSegment(q1, q2, p1), planar.DistanceFromSegment(q1, q2, p2)),
		math.Min(planar.DistanceFromSegment(p1, p2, q1), planar.DistanceFromSegment(p1, p2, q2)),
	)
}

func orientation(a, b, c orb.Point) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())
}

func onSegment(a, b, p orb.Point) bool {
	return p.X() <= math.Max(a.X(), b.X()) && p.X() >= math.Min(a.X(), b.X()) &&
		p.Y() <= math.Max(a.Y(), b.Y()) && p.Y() >= math.Min(a.Y(), b.Y())
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear touches.
	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}

	return false
}
