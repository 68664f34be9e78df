package geometry

import (
	"math"
	"testing"

	"drone-delivery-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// George Square area in Edinburgh, used across the planning tests upstream.
var georgeSquare = []domain.Point{
	{Lng: -3.190578818321228, Lat: 55.94402412577528},
	{Lng: -3.1899887323379517, Lat: 55.94284650540911},
	{Lng: -3.187097311019897, Lat: 55.94328811724263},
	{Lng: -3.187682032585144, Lat: 55.944477740393744},
	{Lng: -3.190578818321228, Lat: 55.94402412577528},
}

func unitSquare() []domain.Point {
	return []domain.Point{{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0}, {Lng: 1, Lat: 1}, {Lng: 0, Lat: 1}, {Lng: 0, Lat: 0}}
}

func TestDistance(t *testing.T) {
	a := domain.Point{Lng: 0, Lat: 0}
	b := domain.Point{Lng: 3, Lat: 4}

	assert.InDelta(t, 5.0, Distance(a, b), 1e-12)
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-12)
	assert.Zero(t, Distance(a, a))
}

func TestIsCloseTo(t *testing.T) {
	a := domain.Point{Lng: -3.192473, Lat: 55.946233}
	assert.True(t, IsCloseTo(a, domain.Point{Lng: a.Lng + 0.0001, Lat: a.Lat}))
	assert.False(t, IsCloseTo(a, domain.Point{Lng: a.Lng + 0.0002, Lat: a.Lat}))
}

func TestAngleFromDegrees(t *testing.T) {
	for i, want := range Directions {
		got, err := AngleFromDegrees(float64(i) * Sector)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	a, err := AngleFromDegrees(360)
	require.NoError(t, err)
	assert.Equal(t, East, a)

	for _, bad := range []float64{-22.5, 10, 382.5, 360.1, math.NaN()} {
		_, err := AngleFromDegrees(bad)
		assert.ErrorIs(t, err, ErrInvalidAngle, "degrees=%v", bad)
	}
}

func TestCompassStep(t *testing.T) {
	start := domain.Point{Lng: -3.192473, Lat: 55.946233}

	east, err := NextPosition(start, 0)
	require.NoError(t, err)
	assert.InDelta(t, start.Lng+Step, east.Lng, 1e-12)
	assert.InDelta(t, start.Lat, east.Lat, 1e-12)

	north, err := NextPosition(start, 90)
	require.NoError(t, err)
	assert.InDelta(t, start.Lng, north.Lng, 1e-12)
	assert.InDelta(t, start.Lat+Step, north.Lat, 1e-12)

	southWest, err := CompassStep(start, 225, 1)
	require.NoError(t, err)
	assert.InDelta(t, start.Lng-math.Sqrt2/2, southWest.Lng, 1e-12)
	assert.InDelta(t, start.Lat-math.Sqrt2/2, southWest.Lat, 1e-12)

	for _, deg := range []float64{0, 22.5, 135, 337.5} {
		next, err := NextPosition(start, deg)
		require.NoError(t, err)
		assert.InDelta(t, Step, Distance(start, next), 1e-12, "degrees=%v", deg)
	}

	_, err = NextPosition(start, 11.25)
	assert.ErrorIs(t, err, ErrInvalidAngle)
}

func TestPointInPolygon(t *testing.T) {
	sq := unitSquare()

	tests := []struct {
		name string
		p    domain.Point
		want bool
	}{
		{name: "centre", p: domain.Point{Lng: 0.5, Lat: 0.5}, want: true},
		{name: "outside right", p: domain.Point{Lng: 1.5, Lat: 0.5}},
		{name: "outside below", p: domain.Point{Lng: 0.5, Lat: -0.1}},
		{name: "vertex", p: domain.Point{Lng: 1, Lat: 1}, want: true},
		{name: "far away", p: domain.Point{Lng: 100, Lat: 45}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointInPolygon(tt.p, sq))
		})
	}

	inside := domain.Point{Lng: -3.1890, Lat: 55.9437}
	outside := domain.Point{Lng: -3.1860, Lat: 55.9437}
	assert.True(t, PointInPolygon(inside, georgeSquare))
	assert.False(t, PointInPolygon(outside, georgeSquare))

	assert.False(t, PointInPolygon(inside, georgeSquare[:2]), "degenerate ring")
}

func TestBufferedRegionContains(t *testing.T) {
	region := NewBufferedRegion(unitSquare(), 0.1)

	assert.True(t, region.Contains(domain.Point{Lng: 0.5, Lat: 0.5}), "inside polygon")
	assert.True(t, region.Contains(domain.Point{Lng: 1.05, Lat: 0.5}), "inside buffer")
	assert.True(t, region.Contains(domain.Point{Lng: 1.05, Lat: 1.05}), "rounded corner")
	assert.False(t, region.Contains(domain.Point{Lng: 1.09, Lat: 1.09}), "outside rounded corner")
	assert.False(t, region.Contains(domain.Point{Lng: 1.2, Lat: 0.5}), "clear of buffer")

	assert.Equal(t, 0.1, region.Buffer())
	assert.True(t, BufferedContains(domain.Point{Lng: -0.05, Lat: 0.5}, unitSquare(), 0.1))
}

func TestBufferedRegionSegmentIntersects(t *testing.T) {
	region := NewBufferedRegion(unitSquare(), 0.1)

	tests := []struct {
		name string
		a, b domain.Point
		want bool
	}{
		{name: "crosses polygon", a: domain.Point{Lng: -1, Lat: 0.5}, b: domain.Point{Lng: 2, Lat: 0.5}, want: true},
		{name: "grazes buffer", a: domain.Point{Lng: -1, Lat: 1.05}, b: domain.Point{Lng: 2, Lat: 1.05}, want: true},
		{name: "clears buffer", a: domain.Point{Lng: -1, Lat: 1.2}, b: domain.Point{Lng: 2, Lat: 1.2}},
		{name: "ends inside", a: domain.Point{Lng: -1, Lat: 0.5}, b: domain.Point{Lng: 0.5, Lat: 0.5}, want: true},
		{name: "far away", a: domain.Point{Lng: 5, Lat: 5}, b: domain.Point{Lng: 6, Lat: 6}},
		{name: "diagonal past corner", a: domain.Point{Lng: 1.3, Lat: 0.9}, b: domain.Point{Lng: 0.9, Lat: 1.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, region.SegmentIntersects(tt.a, tt.b))
		})
	}

	assert.True(t, SegmentIntersectsBuffered(
		domain.Point{Lng: -3.1920, Lat: 55.9437},
		domain.Point{Lng: -3.1850, Lat: 55.9437},
		georgeSquare, Step,
	))
}

func TestEmptyBufferedRegion(t *testing.T) {
	region := NewBufferedRegion(nil, Step)
	assert.False(t, region.Contains(domain.Point{}))
	assert.False(t, region.SegmentIntersects(domain.Point{}, domain.Point{Lng: 1, Lat: 1}))
}
