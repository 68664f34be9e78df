package domain

// Capability flags, payload and cost model of a drone.
type Capability struct {
	Cooling     bool    `json:"cooling"`
	Heating     bool    `json:"heating"`
	Capacity    float64 `json:"capacity"`
	MaxMoves    int     `json:"maxMoves"`
	CostPerMove float64 `json:"costPerMove"`
	CostInitial float64 `json:"costInitial"`
	CostFinal   float64 `json:"costFinal"`
}

// Drone is materialized fresh for every planning request.
// Capacity holds the remaining payload and is only decremented on
// request-scoped copies during eligibility filtering.
type Drone struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Capability Capability `json:"capability"`
}

// LegCost returns the cost of flying one leg of the given number of moves.
func (d Drone) LegCost(moves int) float64 {
	c := d.Capability
	return c.CostInitial + c.CostFinal + c.CostPerMove*float64(moves)
}

// CloneDrones returns an independent copy of the slice.
func CloneDrones(drones []Drone) []Drone {
	out := make([]Drone, len(drones))
	copy(out, drones)
	return out
}
