package services

import "drone-delivery-planner/internal/domain"

// BuildDroneHomes maps every drone stationed at a known service point to that
// point. Records naming an unknown service point are ignored; a drone listed
// under more than one point keeps the last one seen.
func BuildDroneHomes(
	servicePoints []domain.ServicePoint,
	servicePointDrones []domain.ServicePointDrones,
) map[string]domain.ServicePoint {
	byID := make(map[int]domain.ServicePoint, len(servicePoints))
	for _, sp := range servicePoints {
		byID[sp.ID] = sp
	}

	homes := make(map[string]domain.ServicePoint)
	for _, rec := range servicePointDrones {
		sp, ok := byID[rec.ServicePointID]
		if !ok {
			continue
		}
		for _, d := range rec.Drones {
			if d.DroneID == "" {
				continue
			}
			homes[d.DroneID] = sp
		}
	}
	return homes
}
