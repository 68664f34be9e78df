package dto

import "drone-delivery-planner/internal/domain"

// Pointers distinguish a missing field from a zero coordinate.

type PositionPairRequest struct {
	Position1 *domain.Point `json:"position1"`
	Position2 *domain.Point `json:"position2"`
}

type NextPositionRequest struct {
	Start *domain.Point `json:"start"`
	Angle *float64      `json:"angle"`
}

type RegionRequest struct {
	Name     string         `json:"name"`
	Vertices []domain.Point `json:"vertices"`
}

type IsInRegionRequest struct {
	Position *domain.Point  `json:"position"`
	Region   *RegionRequest `json:"region"`
}
