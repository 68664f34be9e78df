// Package pathfinding finds collision-free routes between two points across
// a 16-direction compass grid, inflating every no-fly zone by one grid step.
package pathfinding

import (
	"container/heap"
	"context"
	"errors"
	"fmt"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/geometry"
	"drone-delivery-planner/internal/platform/logger"

	"github.com/paulmach/orb"
)

// ErrSearchExhausted is returned when the bounded search ends without
// reaching the goal. Callers are expected to fall back to a straight line.
var ErrSearchExhausted = errors.New("path search exhausted")

const (
	DefaultMaxIterations = 200_000
	DefaultPaddingSteps  = 20

	// How often, in popped nodes, the search polls its context.
	cancelCheckInterval = 1024
)

// Finder is a grid A* path finder. It holds configuration only and is safe
// for concurrent use.
type Finder struct {
	step          float64
	maxIterations int
	paddingSteps  int
	log           logger.Logger
}

type Option func(*Finder)

// WithStep overrides the grid resolution.
func WithStep(step float64) Option {
	return func(f *Finder) {
		if step > 0 {
			f.step = step
		}
	}
}

// WithMaxIterations overrides the search iteration budget.
func WithMaxIterations(n int) Option {
	return func(f *Finder) {
		if n > 0 {
			f.maxIterations = n
		}
	}
}

// WithPaddingSteps overrides the bounding box padding, in grid steps.
func WithPaddingSteps(n int) Option {
	return func(f *Finder) {
		if n >= 0 {
			f.paddingSteps = n
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(f *Finder) {
		if l != nil {
			f.log = l
		}
	}
}

func NewFinder(opts ...Option) *Finder {
	f := &Finder{
		step:          geometry.Step,
		maxIterations: DefaultMaxIterations,
		paddingSteps:  DefaultPaddingSteps,
		log:           logger.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Step returns the grid resolution of the finder.
func (f *Finder) Step() float64 { return f.step }

// FindPath returns a route from start to goal that keeps at least one step of
// clearance from every restricted area.
//
// When the straight line is clear it is returned directly without searching.
// A search that runs out of iterations returns ErrSearchExhausted; a
// cancelled context returns the context error.
func (f *Finder) FindPath(
	ctx context.Context,
	start domain.Point,
	goal domain.Point,
	areas []domain.RestrictedArea,
) ([]domain.Point, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("find path: start: %w", err)
	}
	if err := goal.Validate(); err != nil {
		return nil, fmt.Errorf("find path: goal: %w", err)
	}
	for _, a := range areas {
		if err := domain.ValidateRing(a.Vertices); err != nil {
			return nil, fmt.Errorf("find path: restricted area %d: %w", a.ID, err)
		}
	}

	if geometry.Distance(start, goal) <= f.step {
		return []domain.Point{start, goal}, nil
	}

	regions := make([]geometry.BufferedRegion, 0, len(areas))
	for _, a := range areas {
		regions = append(regions, geometry.NewBufferedRegion(a.Vertices, f.step))
	}

	segments := StraightLineSegments(start, goal, f.step)

	if len(regions) == 0 || !straightLineBlocked(start, goal, segments, regions) {
		return StraightLinePath(start, goal, segments), nil
	}

	return f.search(ctx, start, goal, areas, regions)
}

func straightLineBlocked(start, goal domain.Point, segments int, regions []geometry.BufferedRegion) bool {
	prev := start
	for s := 1; s <= segments; s++ {
		t := float64(s) / float64(segments)
		cur := domain.Point{
			Lng: start.Lng + (goal.Lng-start.Lng)*t,
			Lat: start.Lat + (goal.Lat-start.Lat)*t,
		}
		for _, r := range regions {
			if r.Contains(cur) || r.SegmentIntersects(prev, cur) {
				return true
			}
		}
		prev = cur
	}
	return false
}

func (f *Finder) searchBound(start, goal domain.Point, areas []domain.RestrictedArea) orb.Bound {
	b := orb.Bound{Min: geometry.ToOrb(start), Max: geometry.ToOrb(start)}
	b = b.Extend(geometry.ToOrb(goal))
	for _, a := range areas {
		for _, v := range a.Vertices {
			b = b.Extend(geometry.ToOrb(v))
		}
	}
	return b.Pad(float64(f.paddingSteps) * f.step)
}

func (f *Finder) search(
	ctx context.Context,
	start domain.Point,
	goal domain.Point,
	areas []domain.RestrictedArea,
	regions []geometry.BufferedRegion,
) ([]domain.Point, error) {
	step := f.step
	bound := f.searchBound(start, goal, areas)
	offs := offsets(step)

	startCell := snap(start, step)
	goalCell := snap(goal, step)
	goalCentre := goalCell.point(step)
	startCentre := startCell.point(step)

	// A start inside a buffer may only step outward; otherwise every edge
	// from it would count as a collision.
	startTrapped := anyContains(regions, startCentre)

	open := &priorityQueue{}
	heap.Push(open, &pqItem{node: startCell, f: geometry.Distance(startCentre, goalCentre)})

	gScore := map[cell]float64{startCell: 0}
	cameFrom := make(map[cell]cell)
	closed := make(map[cell]struct{})

	iterations := 0
	for ; open.Len() > 0 && iterations < f.maxIterations; iterations++ {
		if iterations%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		item := heap.Pop(open).(*pqItem)
		current := item.node
		if _, done := closed[current]; done {
			continue
		}
		if item.g > gScore[current] {
			continue
		}

		currentPt := current.point(step)
		if current == goalCell || geometry.Distance(currentPt, goal) <= step {
			path := reconstructPath(cameFrom, current, step)
			if last := path[len(path)-1]; last != goal {
				path = append(path, goal)
			}
			return path, nil
		}

		closed[current] = struct{}{}
		escaping := startTrapped && current == startCell

		for _, neighbor := range current.neighbors(step, &offs) {
			if _, done := closed[neighbor]; done {
				continue
			}

			neighborPt := neighbor.point(step)
			if !bound.Contains(geometry.ToOrb(neighborPt)) {
				continue
			}
			if edgeBlocked(currentPt, neighborPt, regions, escaping) {
				continue
			}

			tentative := gScore[current] + geometry.Distance(currentPt, neighborPt)
			if old, ok := gScore[neighbor]; ok && tentative >= old {
				continue
			}

			gScore[neighbor] = tentative
			cameFrom[neighbor] = current
			heap.Push(open, &pqItem{
				node: neighbor,
				g:    tentative,
				f:    tentative + geometry.Distance(neighborPt, goalCentre),
			})
		}
	}

	f.log.Warn("path search failed to reach goal",
		"start", start.String(),
		"goal", goal.String(),
		"iterations", iterations,
		"max_iterations", f.maxIterations,
	)

	return nil, fmt.Errorf("find path %s -> %s after %d iterations: %w", start, goal, iterations, ErrSearchExhausted)
}

func anyContains(regions []geometry.BufferedRegion, p domain.Point) bool {
	for _, r := range regions {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

func edgeBlocked(from, to domain.Point, regions []geometry.BufferedRegion, escaping bool) bool {
	for _, r := range regions {
		if r.Contains(to) {
			return true
		}
		if !escaping && r.SegmentIntersects(from, to) {
			return true
		}
	}
	return false
}

func reconstructPath(cameFrom map[cell]cell, current cell, step float64) []domain.Point {
	var cells []cell
	for c, ok := current, true; ok; c, ok = cameFrom[c] {
		cells = append(cells, c)
	}

	path := make([]domain.Point, len(cells))
	for i, c := range cells {
		path[len(cells)-1-i] = c.point(step)
	}
	return path
}
