package handlers

import (
	"context"
	"fmt"

	"drone-delivery-planner/internal/domain"

	"golang.org/x/sync/errgroup"
)

// referenceSnapshot is the reference data one planning call works on.
type referenceSnapshot struct {
	drones             []domain.Drone
	servicePoints      []domain.ServicePoint
	servicePointDrones []domain.ServicePointDrones
	restrictedAreas    []domain.RestrictedArea
}

// fetch runs one upstream read and counts failures by resource.
func fetch[T any](ctx context.Context, h *Handler, resource string, get func(context.Context) ([]T, error)) ([]T, error) {
	out, err := get(ctx)
	if err != nil {
		h.metrics.UpstreamErrors.WithLabelValues(resource).Inc()
		return nil, fmt.Errorf("fetch %s: %w", resource, err)
	}
	return out, nil
}

func (h *Handler) drones(ctx context.Context) ([]domain.Drone, error) {
	return fetch(ctx, h, "drones", h.refData.Drones)
}

// snapshot loads all reference collections concurrently.
func (h *Handler) snapshot(ctx context.Context) (referenceSnapshot, error) {
	var snap referenceSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.drones, err = fetch(gctx, h, "drones", h.refData.Drones)
		return err
	})
	g.Go(func() (err error) {
		snap.servicePoints, err = fetch(gctx, h, "service-points", h.refData.ServicePoints)
		return err
	})
	g.Go(func() (err error) {
		snap.servicePointDrones, err = fetch(gctx, h, "drones-for-service-points", h.refData.ServicePointDrones)
		return err
	})
	g.Go(func() (err error) {
		snap.restrictedAreas, err = fetch(gctx, h, "restricted-areas", h.refData.RestrictedAreas)
		return err
	})

	if err := g.Wait(); err != nil {
		return referenceSnapshot{}, err
	}
	return snap, nil
}
