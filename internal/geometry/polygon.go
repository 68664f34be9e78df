package geometry

import "drone-delivery-planner/internal/domain"

// Coordinates are compared at micro-degree resolution; six decimal places are
// preserved after truncation.
const polygonScale = 1_000_000

func scaled(v float64) int64 { return int64(v * polygonScale) }

// PointInPolygon runs an even-odd test of p against a closed ring on scaled
// integer coordinates. A point coincident with any vertex is inside.
func PointInPolygon(p domain.Point, ring []domain.Point) bool {
	if len(ring) < 3 {
		return false
	}

	for _, v := range ring {
		if v == p {
			return true
		}
	}

	px, py := scaled(p.Lng), scaled(p.Lat)
	inside := false

	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := scaled(ring[i].Lng), scaled(ring[i].Lat)
		xj, yj := scaled(ring[j].Lng), scaled(ring[j].Lat)

		if (yi > py) == (yj > py) {
			continue
		}

		// px < xi + (py-yi)*(xj-xi)/(yj-yi), cross-multiplied to stay integral.
		den := yj - yi
		lhs := (px - xi) * den
		rhs := (py - yi) * (xj - xi)
		if (den > 0 && lhs < rhs) || (den < 0 && lhs > rhs) {
			inside = !inside
		}
	}

	return inside
}
