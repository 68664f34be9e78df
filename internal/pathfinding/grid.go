package pathfinding

import (
	"math"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/geometry"
)

// cell is a search node identified by its integer grid index. Snapping to
// the grid keeps the visited set well defined despite float accumulation.
type cell struct {
	gx, gy int64
}

func snap(p domain.Point, step float64) cell {
	return cell{
		gx: int64(math.Round(p.Lng / step)),
		gy: int64(math.Round(p.Lat / step)),
	}
}

func (c cell) point(step float64) domain.Point {
	return domain.Point{Lng: float64(c.gx) * step, Lat: float64(c.gy) * step}
}

// offsets are the 16 compass displacements of one move.
func offsets(step float64) [16][2]float64 {
	var out [16][2]float64
	for i, a := range geometry.Directions {
		dLng, dLat := a.Offset(step)
		out[i] = [2]float64{dLng, dLat}
	}
	return out
}

// neighbors returns the distinct grid cells one compass move away from c.
func (c cell) neighbors(step float64, offs *[16][2]float64) []cell {
	centre := c.point(step)
	out := make([]cell, 0, len(offs))
	for _, o := range offs {
		n := snap(domain.Point{Lng: centre.Lng + o[0], Lat: centre.Lat + o[1]}, step)
		if n == c || containsCell(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func containsCell(cells []cell, c cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
