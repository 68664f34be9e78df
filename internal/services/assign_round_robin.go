package services

import "drone-delivery-planner/internal/domain"

// DroneAssignment is the ordered batch of dispatches given to one drone.
type DroneAssignment struct {
	DroneID  string
	Requests []domain.DispatchRequest
}

// AssignRoundRobin deals requests across droneIDs in input order, so request
// i goes to droneIDs[i % n].
//
// The result has one entry per distinct drone id in first-seen order, even
// when a drone receives nothing; a repeated id collects every share dealt to
// it. Load is not balanced by distance or cost.
func AssignRoundRobin(requests []domain.DispatchRequest, droneIDs []string) []DroneAssignment {
	if len(droneIDs) == 0 {
		return nil
	}

	index := make(map[string]int, len(droneIDs))
	out := make([]DroneAssignment, 0, len(droneIDs))
	for _, id := range droneIDs {
		if _, ok := index[id]; ok {
			continue
		}
		index[id] = len(out)
		out = append(out, DroneAssignment{DroneID: id})
	}

	for i, r := range requests {
		slot := index[droneIDs[i%len(droneIDs)]]
		out[slot].Requests = append(out[slot].Requests, r)
	}

	return out
}
