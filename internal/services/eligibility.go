package services

import (
	"fmt"
	"time"

	"drone-delivery-planner/internal/domain"
)

// filterStep narrows the candidate set for one request. It must return a new
// slice and never modify its input.
type filterStep func(candidates []domain.Drone, r domain.DispatchRequest) []domain.Drone

// QueryAvailableDrones returns the ids of drones that can serve every request,
// in catalogue order.
//
// Requests are applied one after another to a private copy of the catalogue.
// Each request consumes capacity on the surviving copies, so later requests
// see what earlier ones left. A nil request list matches every drone.
func QueryAvailableDrones(
	requests []domain.DispatchRequest,
	drones []domain.Drone,
	servicePointDrones []domain.ServicePointDrones,
) []string {
	candidates := domain.CloneDrones(drones)
	if requests == nil {
		return droneIDs(candidates)
	}

	windows := availabilityIndex(servicePointDrones)
	steps := []filterStep{
		availableAt(windows),
		withinCost,
		hasCooling,
		hasHeating,
		consumeCapacity,
	}

	for _, r := range requests {
		for _, step := range steps {
			candidates = step(candidates, r)
		}
	}

	return droneIDs(candidates)
}

func availabilityIndex(records []domain.ServicePointDrones) map[string][]domain.Availability {
	idx := make(map[string][]domain.Availability)
	for _, rec := range records {
		for _, d := range rec.Drones {
			idx[d.DroneID] = append(idx[d.DroneID], d.Availability...)
		}
	}
	return idx
}

func keep(candidates []domain.Drone, pred func(domain.Drone) bool) []domain.Drone {
	out := make([]domain.Drone, 0, len(candidates))
	for _, d := range candidates {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}

func availableAt(windows map[string][]domain.Availability) filterStep {
	return func(candidates []domain.Drone, r domain.DispatchRequest) []domain.Drone {
		if r.Date == nil && r.Time == nil {
			return keep(candidates, func(domain.Drone) bool { return true })
		}

		return keep(candidates, func(d domain.Drone) bool {
			for _, w := range windows[d.ID] {
				if r.Date != nil && time.Weekday(w.DayOfWeek) != r.Date.Weekday() {
					continue
				}
				if r.Time != nil && !r.Time.Within(w.From, w.Until) {
					continue
				}
				return true
			}
			return false
		})
	}
}

// withinCost drops drones whose cheapest possible leg, a single move,
// already exceeds the request's budget.
func withinCost(candidates []domain.Drone, r domain.DispatchRequest) []domain.Drone {
	maxCost := r.Requirements.MaxCost
	if maxCost == nil {
		return keep(candidates, func(domain.Drone) bool { return true })
	}

	return keep(candidates, func(d domain.Drone) bool {
		if d.Capability.MaxMoves < 1 {
			return false
		}
		return d.LegCost(1) <= *maxCost
	})
}

func hasCooling(candidates []domain.Drone, r domain.DispatchRequest) []domain.Drone {
	return keep(candidates, func(d domain.Drone) bool {
		return !r.Requirements.Cooling || d.Capability.Cooling
	})
}

func hasHeating(candidates []domain.Drone, r domain.DispatchRequest) []domain.Drone {
	return keep(candidates, func(d domain.Drone) bool {
		return !r.Requirements.Heating || d.Capability.Heating
	})
}

func consumeCapacity(candidates []domain.Drone, r domain.DispatchRequest) []domain.Drone {
	need := r.Requirements.Capacity
	out := make([]domain.Drone, 0, len(candidates))
	for _, d := range candidates {
		if d.Capability.Capacity < need {
			continue
		}
		d.Capability.Capacity -= need
		out = append(out, d)
	}
	return out
}

func droneIDs(drones []domain.Drone) []string {
	ids := make([]string, 0, len(drones))
	for _, d := range drones {
		ids = append(ids, d.ID)
	}
	return ids
}

// DronesWithCooling returns the ids of drones whose cooling flag equals state.
func DronesWithCooling(state bool, drones []domain.Drone) []string {
	return droneIDs(keep(drones, func(d domain.Drone) bool {
		return d.Capability.Cooling == state
	}))
}

// DroneDetails returns the first drone with the given id.
func DroneDetails(id string, drones []domain.Drone) (domain.Drone, error) {
	for _, d := range drones {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Drone{}, fmt.Errorf("drone details %q: %w", id, ErrDroneNotFound)
}
