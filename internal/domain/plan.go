package domain

// ReasonCode summarizes how a planning call concluded.
type ReasonCode string

const (
	ReasonOK                  ReasonCode = "OK"
	ReasonPlannedWithWarnings ReasonCode = "PLANNED_WITH_WARNINGS"
	ReasonNoAvailableDrones   ReasonCode = "NO_AVAILABLE_DRONES"
)

// Represents a single leg flown by a drone.
// DeliveryID is nil for the return-to-base leg so its moves and cost stay
// attributable without being tied to a dispatch.
type Delivery struct {
	DeliveryID *int    `json:"deliveryId"`
	FlightPath []Point `json:"flightPath"`
}

// Moves is the number of STEP moves in the leg.
func (d Delivery) Moves() int {
	return max(0, len(d.FlightPath)-1)
}

// IsReturn reports whether the leg is a return-to-base flight.
func (d Delivery) IsReturn() bool { return d.DeliveryID == nil }

// Represents the ordered flight plan of one drone.
type DronePlan struct {
	DroneID    string     `json:"droneId"`
	Deliveries []Delivery `json:"deliveries"`
}

// Counters describing how a planning call went.
type Diagnostics struct {
	RequestID             string     `json:"requestId"`
	DurationMs            int64      `json:"durationMs"`
	ReasonCode            ReasonCode `json:"reasonCode"`
	LegsPlanned           int        `json:"legsPlanned"`
	LegsFailed            int        `json:"legsFailed"`
	SearchInvocations     int        `json:"aStarInvocations"`
	StraightLineFallbacks int        `json:"straightLineFallbacks"`
}

// PlanningResult is the output of one planning call.
// It is immutable planning data and contains no side effects.
type PlanningResult struct {
	TotalCost   float64      `json:"totalCost"`
	TotalMoves  int          `json:"totalMoves"`
	DronePaths  []DronePlan  `json:"dronePaths"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}
