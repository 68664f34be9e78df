package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/geometry"
	"drone-delivery-planner/internal/pathfinding"
)

// PathFinder finds a route between two points around restricted areas.
// *pathfinding.Finder satisfies it; tests inject slow or failing finders.
type PathFinder interface {
	FindPath(ctx context.Context, start, goal domain.Point, areas []domain.RestrictedArea) ([]domain.Point, error)
}

type searchResult struct {
	path []domain.Point
	err  error
}

// legOutcome is one bounded search as seen by the planner.
type legOutcome struct {
	path     []domain.Point
	err      error
	fallback bool
}

// boundedFindPath runs one search on the shared worker pool under the leg
// deadline. Any failure, including an empty path, is replaced by the
// straight line between the same points.
func (p *Planner) boundedFindPath(
	ctx context.Context,
	start domain.Point,
	goal domain.Point,
	areas []domain.RestrictedArea,
) legOutcome {
	started := time.Now()
	defer func() {
		p.metrics.SearchDuration.Observe(time.Since(started).Seconds())
	}()

	path, err := p.runSearch(ctx, start, goal, areas)
	if err == nil && len(path) == 0 {
		err = fmt.Errorf("%w: empty path", ErrSearchExecution)
	}
	if err == nil {
		return legOutcome{path: path}
	}

	return legOutcome{
		path:     pathfinding.StraightLinePath(start, goal, pathfinding.StraightLineSegments(start, goal, geometry.Step)),
		err:      err,
		fallback: true,
	}
}

func (p *Planner) runSearch(
	ctx context.Context,
	start domain.Point,
	goal domain.Point,
	areas []domain.RestrictedArea,
) ([]domain.Point, error) {
	legCtx, cancel := context.WithTimeout(ctx, p.legTimeout)
	defer cancel()

	if err := p.sem.Acquire(legCtx, 1); err != nil {
		return nil, classifyContextErr(ctx, legCtx)
	}

	resultCh := make(chan searchResult, 1)
	go func() {
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				resultCh <- searchResult{err: fmt.Errorf("%w: panic: %v", ErrSearchExecution, r)}
			}
		}()

		path, err := p.finder.FindPath(legCtx, start, goal, areas)
		resultCh <- searchResult{path: path, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err == nil {
			return res.path, nil
		}
		switch {
		case errors.Is(res.err, context.DeadlineExceeded) || errors.Is(res.err, context.Canceled):
			return nil, classifyContextErr(ctx, legCtx)
		case errors.Is(res.err, pathfinding.ErrSearchExhausted):
			return nil, res.err
		default:
			return nil, fmt.Errorf("%w: %w", ErrSearchExecution, res.err)
		}
	case <-legCtx.Done():
		return nil, classifyContextErr(ctx, legCtx)
	}
}

// classifyContextErr tells a leg deadline apart from the caller going away.
func classifyContextErr(parent, leg context.Context) error {
	if parent.Err() != nil {
		return fmt.Errorf("%w: %w", ErrSearchInterrupted, parent.Err())
	}
	if errors.Is(leg.Err(), context.DeadlineExceeded) {
		return ErrSearchTimeout
	}
	return fmt.Errorf("%w: %w", ErrSearchInterrupted, leg.Err())
}
