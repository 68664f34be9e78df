package domain

import (
	"fmt"
	"strings"
)

// Altitude band of a restricted area. Unused by 2-D planning but kept as part
// of the upstream data contract.
type AltitudeLimits struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// Represents a named no-fly zone.
// Vertices form a closed ring: at least four points where the first and last
// are coordinate-identical.
type RestrictedArea struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	Limits   AltitudeLimits `json:"limits"`
	Vertices []Point        `json:"vertices"`
}

// ValidateRing checks that vertices describe a closed polygon of valid points.
func ValidateRing(vertices []Point) error {
	if len(vertices) < 4 {
		return fmt.Errorf("ring has %d vertices, need at least 4: %w", len(vertices), ErrInvalidGeometry)
	}

	first, last := vertices[0], vertices[len(vertices)-1]
	if first != last {
		return fmt.Errorf("ring is not closed: first %s, last %s: %w", first, last, ErrInvalidGeometry)
	}

	for i, v := range vertices {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("vertex %d: %w", i+1, err)
		}
	}

	return nil
}

// Validate checks the area name and ring.
func (r RestrictedArea) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("restricted area %d: name must not be empty: %w", r.ID, ErrInvalidGeometry)
	}
	if err := ValidateRing(r.Vertices); err != nil {
		return fmt.Errorf("restricted area %q: %w", r.Name, err)
	}
	return nil
}
