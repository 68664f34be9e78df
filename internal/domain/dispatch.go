package domain

import "fmt"

// Payload and capability requirements of one dispatch.
type Requirements struct {
	Capacity float64  `json:"capacity"`
	Cooling  bool     `json:"cooling"`
	Heating  bool     `json:"heating"`
	MaxCost  *float64 `json:"maxCost,omitempty"`
}

// DispatchRequest is a single delivery ask: what to carry and where.
// Date and Time are optional scheduling constraints.
type DispatchRequest struct {
	ID           int          `json:"id"`
	Date         *Date        `json:"date,omitempty"`
	Time         *TimeOfDay   `json:"time,omitempty"`
	Requirements Requirements `json:"requirements"`
	Delivery     *Point       `json:"delivery,omitempty"`
}

// Validate checks the fields the planner depends on.
func (r DispatchRequest) Validate() error {
	if r.Delivery == nil {
		return fmt.Errorf("dispatch %d: delivery location is required: %w", r.ID, ErrInvalidGeometry)
	}
	if err := r.Delivery.Validate(); err != nil {
		return fmt.Errorf("dispatch %d: %w", r.ID, err)
	}
	if r.Requirements.Capacity < 0 {
		return fmt.Errorf("dispatch %d: capacity must not be negative", r.ID)
	}
	return nil
}
