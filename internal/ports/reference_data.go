package ports

import (
	"context"

	"drone-delivery-planner/internal/domain"
)

// ReferenceDataProvider is the boundary for the fleet, base and airspace data
// every planning request is computed against. Each call returns fresh values
// the caller may freely modify.
type ReferenceDataProvider interface {
	Drones(ctx context.Context) ([]domain.Drone, error)
	ServicePoints(ctx context.Context) ([]domain.ServicePoint, error)
	ServicePointDrones(ctx context.Context) ([]domain.ServicePointDrones, error)
	RestrictedAreas(ctx context.Context) ([]domain.RestrictedArea, error)
}
