package domain

// Fixed base a drone departs from and returns to.
type ServicePoint struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Location Point   `json:"location"`
	Altitude float64 `json:"altitude,omitempty"`
}

// FallbackServicePointID identifies the synthetic origin used when no home
// base is known for a drone.
const FallbackServicePointID = -1

// FallbackOrigin builds the synthetic origin placed at the given location.
func FallbackOrigin(at Point) ServicePoint {
	return ServicePoint{
		ID:       FallbackServicePointID,
		Name:     "fallback-origin",
		Location: at,
	}
}
