package services

import (
	"strconv"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/geometry"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BuildGeoJSON renders each drone plan as one LineString feature through
// every waypoint of its legs.
//
// Feature properties carry the drone id, the flown degree distance, the
// number of moves and the delivery ids ("null" marks a return leg). A result
// with a single drone plan reports the plan-wide move count and cost instead.
func BuildGeoJSON(result *domain.PlanningResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if result == nil {
		return fc
	}

	for _, dp := range result.DronePaths {
		var (
			line        orb.LineString
			deliveryIDs = make([]string, 0, len(dp.Deliveries))
			distance    float64
			moves       int
		)

		var prev *domain.Point
		for _, d := range dp.Deliveries {
			if d.DeliveryID == nil {
				deliveryIDs = append(deliveryIDs, "null")
			} else {
				deliveryIDs = append(deliveryIDs, strconv.Itoa(*d.DeliveryID))
			}

			for i := range d.FlightPath {
				p := d.FlightPath[i]
				line = append(line, geometry.ToOrb(p))
				if prev != nil {
					distance += geometry.Distance(*prev, p)
					moves++
				}
				prev = &p
			}
		}

		f := geojson.NewFeature(line)
		f.Properties["droneId"] = dp.DroneID
		f.Properties["totalDistance"] = distance
		f.Properties["totalMoves"] = moves
		f.Properties["deliveryIds"] = deliveryIDs

		if len(result.DronePaths) == 1 {
			f.Properties["totalMoves"] = result.TotalMoves
			f.Properties["totalCost"] = result.TotalCost
		}

		fc.Append(f)
	}

	return fc
}
