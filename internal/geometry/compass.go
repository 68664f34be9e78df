package geometry

import (
	"errors"
	"fmt"
	"math"

	"drone-delivery-planner/internal/domain"
)

// ErrInvalidAngle is returned for angles that are not one of the 16 compass
// directions.
var ErrInvalidAngle = errors.New("invalid compass angle")

// Angle is one of the 16 compass directions, counter-clockwise from east in
// 22.5 degree sectors.
type Angle int

const (
	East Angle = iota
	EastNorthEast
	NorthEast
	NorthNorthEast
	North
	NorthNorthWest
	NorthWest
	WestNorthWest
	West
	WestSouthWest
	SouthWest
	SouthSouthWest
	South
	SouthSouthEast
	SouthEast
	EastSouthEast
)

// Sector is the angular width of one compass direction.
const Sector = 22.5

// Directions lists all compass angles in increasing order.
var Directions = [16]Angle{
	East, EastNorthEast, NorthEast, NorthNorthEast,
	North, NorthNorthWest, NorthWest, WestNorthWest,
	West, WestSouthWest, SouthWest, SouthSouthWest,
	South, SouthSouthEast, SouthEast, EastSouthEast,
}

// AngleFromDegrees maps a multiple of 22.5 in [0, 360] to its direction.
// 360 normalizes to 0.
func AngleFromDegrees(degrees float64) (Angle, error) {
	if math.IsNaN(degrees) || degrees < 0 || degrees > 360 {
		return 0, fmt.Errorf("angle %v: out of range [0,360]: %w", degrees, ErrInvalidAngle)
	}
	if degrees == 360 {
		degrees = 0
	}
	if math.Mod(degrees, Sector) != 0 {
		return 0, fmt.Errorf("angle %v: not a multiple of %v: %w", degrees, Sector, ErrInvalidAngle)
	}
	return Angle(int(degrees / Sector)), nil
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 { return float64(a) * Sector }

// Offset is the (dlng, dlat) displacement of one move of length step.
func (a Angle) Offset(step float64) (float64, float64) {
	rad := a.Degrees() * math.Pi / 180
	return step * math.Cos(rad), step * math.Sin(rad)
}

// CompassStep moves start by step in the given compass direction.
func CompassStep(start domain.Point, degrees, step float64) (domain.Point, error) {
	a, err := AngleFromDegrees(degrees)
	if err != nil {
		return domain.Point{}, err
	}
	dLng, dLat := a.Offset(step)
	return domain.Point{Lng: start.Lng + dLng, Lat: start.Lat + dLat}, nil
}

// NextPosition is CompassStep with the fixed flight Step.
func NextPosition(start domain.Point, degrees float64) (domain.Point, error) {
	return CompassStep(start, degrees, Step)
}
