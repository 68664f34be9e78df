package services

import (
	"testing"

	"drone-delivery-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fleet() []domain.Drone {
	return []domain.Drone{
		{ID: "1", Name: "Drone 1", Capability: domain.Capability{Cooling: true, Heating: true, Capacity: 4, MaxMoves: 2000, CostPerMove: 0.01, CostInitial: 4.3, CostFinal: 6.5}},
		{ID: "2", Name: "Drone 2", Capability: domain.Capability{Cooling: false, Heating: true, Capacity: 8, MaxMoves: 1000, CostPerMove: 0.03, CostInitial: 2.6, CostFinal: 5.4}},
		{ID: "3", Name: "Drone 3", Capability: domain.Capability{Cooling: false, Heating: false, Capacity: 20, MaxMoves: 4000, CostPerMove: 0.05, CostInitial: 9.5, CostFinal: 11.5}},
		{ID: "4", Name: "Drone 4", Capability: domain.Capability{Cooling: false, Heating: true, Capacity: 8, MaxMoves: 0, CostPerMove: 0.02, CostInitial: 1.4, CostFinal: 2.5}},
	}
}

func schedule() []domain.ServicePointDrones {
	return []domain.ServicePointDrones{
		{
			ServicePointID: 1,
			Drones: []domain.DroneAvailability{
				{DroneID: "1", Availability: []domain.Availability{
					{DayOfWeek: domain.Weekday(1), From: domain.MustTimeOfDay("00:00"), Until: domain.MustTimeOfDay("23:59:59")},
				}},
				{DroneID: "2", Availability: []domain.Availability{
					{DayOfWeek: domain.Weekday(2), From: domain.MustTimeOfDay("12:00"), Until: domain.MustTimeOfDay("23:59:59")},
				}},
				{DroneID: "3", Availability: []domain.Availability{
					{DayOfWeek: domain.Weekday(1), From: domain.MustTimeOfDay("00:00"), Until: domain.MustTimeOfDay("11:59:59")},
				}},
			},
		},
	}
}

func TestQueryAvailableDronesNilRequests(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "4"}, QueryAvailableDrones(nil, fleet(), schedule()))
}

func TestQueryAvailableDrones(t *testing.T) {
	monday := domain.MustDate("2025-12-22")
	morning := domain.MustTimeOfDay("09:30")
	evening := domain.MustTimeOfDay("18:00")
	budget := 11.0

	tests := []struct {
		name string
		reqs []domain.DispatchRequest
		want []string
	}{
		{
			name: "no scheduling constraint",
			reqs: []domain.DispatchRequest{{ID: 1, Requirements: domain.Requirements{Capacity: 1}}},
			want: []string{"1", "2", "3", "4"},
		},
		{
			name: "monday morning",
			reqs: []domain.DispatchRequest{{ID: 1, Date: &monday, Time: &morning, Requirements: domain.Requirements{Capacity: 1}}},
			want: []string{"1", "3"},
		},
		{
			name: "monday evening",
			reqs: []domain.DispatchRequest{{ID: 1, Date: &monday, Time: &evening}},
			want: []string{"1"},
		},
		{
			name: "time only matches any day",
			reqs: []domain.DispatchRequest{{ID: 1, Time: &evening}},
			want: []string{"1", "2"},
		},
		{
			name: "cooling",
			reqs: []domain.DispatchRequest{{ID: 1, Requirements: domain.Requirements{Cooling: true}}},
			want: []string{"1"},
		},
		{
			name: "heating",
			reqs: []domain.DispatchRequest{{ID: 1, Requirements: domain.Requirements{Heating: true}}},
			want: []string{"1", "2", "4"},
		},
		{
			name: "cost budget rejects expensive and immobile drones",
			reqs: []domain.DispatchRequest{{ID: 1, Requirements: domain.Requirements{MaxCost: &budget}}},
			want: []string{"1", "2"},
		},
		{
			name: "capacity is consumed across requests",
			reqs: []domain.DispatchRequest{
				{ID: 1, Requirements: domain.Requirements{Capacity: 3}},
				{ID: 2, Requirements: domain.Requirements{Capacity: 3}},
			},
			want: []string{"2", "3", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryAvailableDrones(tt.reqs, fleet(), schedule()))
		})
	}
}

func TestQueryAvailableDronesDoesNotMutateInput(t *testing.T) {
	drones := fleet()
	before := domain.CloneDrones(drones)

	reqs := []domain.DispatchRequest{
		{ID: 1, Requirements: domain.Requirements{Capacity: 2}},
		{ID: 2, Requirements: domain.Requirements{Capacity: 2}},
	}
	QueryAvailableDrones(reqs, drones, schedule())

	assert.Equal(t, before, drones)
}

func TestDronesWithCooling(t *testing.T) {
	assert.Equal(t, []string{"1"}, DronesWithCooling(true, fleet()))
	assert.Equal(t, []string{"2", "3", "4"}, DronesWithCooling(false, fleet()))
}

func TestDroneDetails(t *testing.T) {
	d, err := DroneDetails("3", fleet())
	require.NoError(t, err)
	assert.Equal(t, "Drone 3", d.Name)

	_, err = DroneDetails("99", fleet())
	require.ErrorIs(t, err, ErrDroneNotFound)
}
