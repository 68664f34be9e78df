package pathfinding

import (
	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/geometry"
)

// StraightLinePath linearly interpolates segments+1 points from start to goal.
// It is the no-obstacle fast path and the planner's fallback when a search
// cannot finish.
func StraightLinePath(start, goal domain.Point, segments int) []domain.Point {
	if segments < 1 {
		segments = 1
	}

	pts := make([]domain.Point, 0, segments+1)
	for i := 0; i < segments; i++ {
		t := float64(i) / float64(segments)
		pts = append(pts, domain.Point{
			Lng: start.Lng + (goal.Lng-start.Lng)*t,
			Lat: start.Lat + (goal.Lat-start.Lat)*t,
		})
	}
	return append(pts, goal)
}

// StraightLineSegments is the number of step-sized segments between two
// points, never less than one.
func StraightLineSegments(start, goal domain.Point, step float64) int {
	return max(1, int(geometry.Distance(start, goal)/step))
}

// StraightLine is StraightLinePath at the fixed flight step.
func StraightLine(start, goal domain.Point) []domain.Point {
	return StraightLinePath(start, goal, StraightLineSegments(start, goal, geometry.Step))
}
