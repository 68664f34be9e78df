package ilp

import (
	"fmt"

	"drone-delivery-planner/internal/domain"
)

// Wire shapes of the upstream REST service. Nullable upstream fields are
// pointers so a missing value is told apart from a zero.

type capabilityDTO struct {
	Cooling     *bool    `json:"cooling"`
	Heating     *bool    `json:"heating"`
	Capacity    *float64 `json:"capacity"`
	MaxMoves    *int     `json:"maxMoves"`
	CostPerMove *float64 `json:"costPerMove"`
	CostInitial *float64 `json:"costInitial"`
	CostFinal   *float64 `json:"costFinal"`
}

type droneDTO struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Capability capabilityDTO `json:"capability"`
}

type locationDTO struct {
	Lng float64  `json:"lng"`
	Lat float64  `json:"lat"`
	Alt *float64 `json:"alt,omitempty"`
}

type servicePointDTO struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Location locationDTO `json:"location"`
}

type availabilityDTO struct {
	DayOfWeek domain.Weekday   `json:"dayOfWeek"`
	From      domain.TimeOfDay `json:"from"`
	Until     domain.TimeOfDay `json:"until"`
}

type droneAvailabilityDTO struct {
	ID           string            `json:"id"`
	Availability []availabilityDTO `json:"availability"`
}

type servicePointDronesDTO struct {
	ServicePointID int                    `json:"servicePointId"`
	Drones         []droneAvailabilityDTO `json:"drones"`
}

type restrictedAreaDTO struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Limits struct {
		Lower int `json:"lower"`
		Upper int `json:"upper"`
	} `json:"limits"`
	Vertices []locationDTO `json:"vertices"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (d droneDTO) toDomain() (domain.Drone, error) {
	if d.ID == "" {
		return domain.Drone{}, fmt.Errorf("drone %q: missing id", d.Name)
	}
	c := d.Capability
	return domain.Drone{
		ID:   d.ID,
		Name: d.Name,
		Capability: domain.Capability{
			Cooling:     deref(c.Cooling),
			Heating:     deref(c.Heating),
			Capacity:    deref(c.Capacity),
			MaxMoves:    deref(c.MaxMoves),
			CostPerMove: deref(c.CostPerMove),
			CostInitial: deref(c.CostInitial),
			CostFinal:   deref(c.CostFinal),
		},
	}, nil
}

func (l locationDTO) point() domain.Point {
	return domain.Point{Lng: l.Lng, Lat: l.Lat}
}

func (s servicePointDTO) toDomain() (domain.ServicePoint, error) {
	sp := domain.ServicePoint{
		ID:       s.ID,
		Name:     s.Name,
		Location: s.Location.point(),
		Altitude: deref(s.Location.Alt),
	}
	if err := sp.Location.Validate(); err != nil {
		return domain.ServicePoint{}, fmt.Errorf("service point %d: %w", s.ID, err)
	}
	return sp, nil
}

func (s servicePointDronesDTO) toDomain() domain.ServicePointDrones {
	out := domain.ServicePointDrones{
		ServicePointID: s.ServicePointID,
		Drones:         make([]domain.DroneAvailability, 0, len(s.Drones)),
	}
	for _, d := range s.Drones {
		da := domain.DroneAvailability{DroneID: d.ID}
		for _, a := range d.Availability {
			da.Availability = append(da.Availability, domain.Availability{
				DayOfWeek: a.DayOfWeek,
				From:      a.From,
				Until:     a.Until,
			})
		}
		out.Drones = append(out.Drones, da)
	}
	return out
}

func (r restrictedAreaDTO) toDomain() (domain.RestrictedArea, error) {
	area := domain.RestrictedArea{
		ID:     r.ID,
		Name:   r.Name,
		Limits: domain.AltitudeLimits{Lower: r.Limits.Lower, Upper: r.Limits.Upper},
	}
	for _, v := range r.Vertices {
		area.Vertices = append(area.Vertices, v.point())
	}
	if err := area.Validate(); err != nil {
		return domain.RestrictedArea{}, err
	}
	return area, nil
}
