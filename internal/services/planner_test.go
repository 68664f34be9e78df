package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/pathfinding"
	"drone-delivery-planner/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finderFunc func(ctx context.Context, start, goal domain.Point, areas []domain.RestrictedArea) ([]domain.Point, error)

func (f finderFunc) FindPath(ctx context.Context, start, goal domain.Point, areas []domain.RestrictedArea) ([]domain.Point, error) {
	return f(ctx, start, goal, areas)
}

// segmentsFinder always returns a straight line split into n segments.
func segmentsFinder(n int) PathFinder {
	return finderFunc(func(_ context.Context, start, goal domain.Point, _ []domain.RestrictedArea) ([]domain.Point, error) {
		return pathfinding.StraightLinePath(start, goal, n), nil
	})
}

var (
	appletonTower = domain.Point{Lng: -3.186874, Lat: 55.944494}

	georgeSquare = domain.RestrictedArea{
		ID:   1,
		Name: "George Square Area",
		Vertices: []domain.Point{
			{Lng: -3.190578818321228, Lat: 55.94402412577528},
			{Lng: -3.1899887323379517, Lat: 55.94284650540911},
			{Lng: -3.187097311019897, Lat: 55.94328811724263},
			{Lng: -3.187682032585144, Lat: 55.944477740393744},
			{Lng: -3.190578818321228, Lat: 55.94402412577528},
		},
	}

	homeBase = domain.ServicePoint{ID: 1, Name: "Appleton Tower", Location: appletonTower}
)

func testDrone(id string) domain.Drone {
	return domain.Drone{
		ID:   id,
		Name: "Drone " + id,
		Capability: domain.Capability{
			Capacity:    10,
			MaxMoves:    2000,
			CostPerMove: 1,
			CostInitial: 1,
			CostFinal:   1,
		},
	}
}

func dispatch(id int, at domain.Point) domain.DispatchRequest {
	p := at
	return domain.DispatchRequest{
		ID:           id,
		Requirements: domain.Requirements{Capacity: 1},
		Delivery:     &p,
	}
}

func TestCalcDeliveryPathNoEligibleDrones(t *testing.T) {
	p := NewPlanner(segmentsFinder(1))

	res, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests: []domain.DispatchRequest{dispatch(1, appletonTower)},
		Drones:   []domain.Drone{testDrone("1")},
	})
	require.NoError(t, err)

	assert.Zero(t, res.TotalMoves)
	assert.Zero(t, res.TotalCost)
	assert.Empty(t, res.DronePaths)
	require.NotNil(t, res.Diagnostics)
	assert.Equal(t, domain.ReasonNoAvailableDrones, res.Diagnostics.ReasonCode)
	assert.NotEmpty(t, res.Diagnostics.RequestID)
}

func TestCalcDeliveryPathNoRequests(t *testing.T) {
	p := NewPlanner(segmentsFinder(1))

	res, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Drones:           []domain.Drone{testDrone("1")},
		EligibleDroneIDs: []string{"1"},
	})
	require.NoError(t, err)

	assert.Empty(t, res.DronePaths)
	assert.Equal(t, domain.ReasonOK, res.Diagnostics.ReasonCode)
}

func TestCalcDeliveryPathRoundTrip(t *testing.T) {
	p := NewPlanner(pathfinding.NewFinder())
	target := domain.Point{Lng: -3.1925, Lat: 55.9435}

	res, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         []domain.DispatchRequest{dispatch(7, target)},
		Drones:           []domain.Drone{testDrone("1")},
		RestrictedAreas:  []domain.RestrictedArea{georgeSquare},
		EligibleDroneIDs: []string{"1"},
		DroneHomes:       map[string]domain.ServicePoint{"1": homeBase},
	})
	require.NoError(t, err)

	require.Len(t, res.DronePaths, 1)
	plan := res.DronePaths[0]
	assert.Equal(t, "1", plan.DroneID)
	require.Len(t, plan.Deliveries, 2)

	out, ret := plan.Deliveries[0], plan.Deliveries[1]
	require.NotNil(t, out.DeliveryID)
	assert.Equal(t, 7, *out.DeliveryID)
	assert.Nil(t, ret.DeliveryID)

	// Outbound ends with a hover over the drop-off.
	n := len(out.FlightPath)
	require.GreaterOrEqual(t, n, 3)
	assert.Equal(t, out.FlightPath[n-2], out.FlightPath[n-1])
	assert.Equal(t, target, out.FlightPath[n-1])
	assert.Equal(t, appletonTower, ret.FlightPath[len(ret.FlightPath)-1])

	assert.Equal(t, len(out.FlightPath)-1+len(ret.FlightPath)-1, res.TotalMoves)
	assert.Equal(t, domain.ReasonOK, res.Diagnostics.ReasonCode)
	assert.Equal(t, 2, res.Diagnostics.LegsPlanned)
	assert.Equal(t, 2, res.Diagnostics.SearchInvocations)
	assert.Zero(t, res.Diagnostics.LegsFailed)
}

func TestCalcDeliveryPathDeterministic(t *testing.T) {
	p := NewPlanner(pathfinding.NewFinder(), WithWorkers(2))
	in := PlanInput{
		Requests: []domain.DispatchRequest{
			dispatch(1, domain.Point{Lng: -3.1925, Lat: 55.9435}),
			dispatch(2, domain.Point{Lng: -3.1880, Lat: 55.9415}),
			dispatch(3, domain.Point{Lng: -3.1915, Lat: 55.9450}),
		},
		Drones:           []domain.Drone{testDrone("1"), testDrone("2")},
		RestrictedAreas:  []domain.RestrictedArea{georgeSquare},
		EligibleDroneIDs: []string{"1", "2"},
		DroneHomes: map[string]domain.ServicePoint{
			"1": homeBase,
			"2": homeBase,
		},
	}

	first, err := p.CalcDeliveryPath(context.Background(), in)
	require.NoError(t, err)
	second, err := p.CalcDeliveryPath(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.TotalMoves, second.TotalMoves)
	assert.Equal(t, first.TotalCost, second.TotalCost)
	assert.Equal(t, first.DronePaths, second.DronePaths)
	assert.NotEqual(t, first.Diagnostics.RequestID, second.Diagnostics.RequestID)

	require.Len(t, first.DronePaths, 2)
	assert.Equal(t, "1", first.DronePaths[0].DroneID)
	assert.Len(t, first.DronePaths[0].Deliveries, 3)
	assert.Len(t, first.DronePaths[1].Deliveries, 2)
}

func TestCalcDeliveryPathCostModel(t *testing.T) {
	p := NewPlanner(segmentsFinder(4))

	res, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         []domain.DispatchRequest{dispatch(1, domain.Point{Lng: -3.19, Lat: 55.94})},
		Drones:           []domain.Drone{testDrone("1")},
		EligibleDroneIDs: []string{"1"},
		DroneHomes:       map[string]domain.ServicePoint{"1": homeBase},
	})
	require.NoError(t, err)

	legs := res.DronePaths[0].Deliveries
	require.Len(t, legs, 2)

	// Four segments plus the hover make five moves: 1 + 1 + 1*5.
	assert.Equal(t, 5, legs[0].Moves())
	assert.Equal(t, 7.0, testDrone("1").LegCost(legs[0].Moves()))
	assert.Equal(t, 4, legs[1].Moves())

	assert.Equal(t, 9, res.TotalMoves)
	assert.InDelta(t, 7.0+6.0, res.TotalCost, 1e-9)
}

func TestCalcDeliveryPathMissingDroneRecordCostsNothing(t *testing.T) {
	p := NewPlanner(segmentsFinder(2))

	res, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         []domain.DispatchRequest{dispatch(1, domain.Point{Lng: -3.19, Lat: 55.94})},
		EligibleDroneIDs: []string{"ghost"},
		DroneHomes:       map[string]domain.ServicePoint{"ghost": homeBase},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.TotalMoves)
	assert.Zero(t, res.TotalCost)
}

func TestCalcDeliveryPathTimeoutFallsBack(t *testing.T) {
	slow := finderFunc(func(ctx context.Context, _, _ domain.Point, _ []domain.RestrictedArea) ([]domain.Point, error) {
		select {
		case <-time.After(5 * time.Second):
			return nil, errors.New("should have been cancelled")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	p := NewPlanner(slow, WithLegTimeout(20*time.Millisecond))

	target := domain.Point{Lng: -3.1925, Lat: 55.9435}
	res, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         []domain.DispatchRequest{dispatch(1, target)},
		Drones:           []domain.Drone{testDrone("1")},
		EligibleDroneIDs: []string{"1"},
		DroneHomes:       map[string]domain.ServicePoint{"1": homeBase},
	})
	require.NoError(t, err)

	d := res.Diagnostics
	assert.Equal(t, domain.ReasonPlannedWithWarnings, d.ReasonCode)
	assert.Equal(t, 2, d.LegsPlanned)
	assert.Equal(t, 2, d.LegsFailed)
	assert.Equal(t, 2, d.StraightLineFallbacks)
	assert.Equal(t, 2, d.SearchInvocations)

	straight := pathfinding.StraightLine(appletonTower, target)
	out := res.DronePaths[0].Deliveries[0].FlightPath
	assert.Equal(t, straight, out[:len(out)-1])
	assert.Positive(t, res.TotalMoves)
	assert.Positive(t, res.TotalCost)
}

func TestBoundedFindPathFailureModes(t *testing.T) {
	start := appletonTower
	goal := domain.Point{Lng: -3.1925, Lat: 55.9435}

	tests := []struct {
		name   string
		finder PathFinder
		ctx    func() context.Context
		want   error
	}{
		{
			name: "exhausted",
			finder: finderFunc(func(context.Context, domain.Point, domain.Point, []domain.RestrictedArea) ([]domain.Point, error) {
				return nil, pathfinding.ErrSearchExhausted
			}),
			want: pathfinding.ErrSearchExhausted,
		},
		{
			name: "execution error",
			finder: finderFunc(func(context.Context, domain.Point, domain.Point, []domain.RestrictedArea) ([]domain.Point, error) {
				return nil, errors.New("boom")
			}),
			want: ErrSearchExecution,
		},
		{
			name: "empty path",
			finder: finderFunc(func(context.Context, domain.Point, domain.Point, []domain.RestrictedArea) ([]domain.Point, error) {
				return nil, nil
			}),
			want: ErrSearchExecution,
		},
		{
			name: "panic",
			finder: finderFunc(func(context.Context, domain.Point, domain.Point, []domain.RestrictedArea) ([]domain.Point, error) {
				panic("search blew up")
			}),
			want: ErrSearchExecution,
		},
		{
			name: "caller cancelled",
			finder: finderFunc(func(ctx context.Context, _, _ domain.Point, _ []domain.RestrictedArea) ([]domain.Point, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}),
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			want: ErrSearchInterrupted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlanner(tt.finder, WithWorkers(1))
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			res := p.boundedFindPath(ctx, start, goal, nil)

			assert.True(t, res.fallback)
			assert.ErrorIs(t, res.err, tt.want)
			assert.Equal(t, pathfinding.StraightLine(start, goal), res.path)
		})
	}
}

func TestCalcDeliveryPathFallbackOrigin(t *testing.T) {
	p := NewPlanner(pathfinding.NewFinder())
	first := domain.Point{Lng: -3.1925, Lat: 55.9435}
	second := domain.Point{Lng: -3.1930, Lat: 55.9440}

	res, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         []domain.DispatchRequest{dispatch(1, first), dispatch(2, second)},
		Drones:           []domain.Drone{testDrone("1")},
		EligibleDroneIDs: []string{"1"},
	})
	require.NoError(t, err)

	legs := res.DronePaths[0].Deliveries
	require.Len(t, legs, 3)

	// Origin coincides with the first drop-off: the opening leg is a hover.
	assert.Equal(t, []domain.Point{first, first, first}, legs[0].FlightPath)
	ret := legs[2].FlightPath
	assert.Nil(t, legs[2].DeliveryID)
	assert.Equal(t, first, ret[len(ret)-1])
}

func TestCalcDeliveryPathDerivesHomes(t *testing.T) {
	var seenStart domain.Point
	var once sync.Once
	finder := finderFunc(func(_ context.Context, start, goal domain.Point, _ []domain.RestrictedArea) ([]domain.Point, error) {
		once.Do(func() { seenStart = start })
		return []domain.Point{start, goal}, nil
	})
	p := NewPlanner(finder)

	_, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:      []domain.DispatchRequest{dispatch(1, domain.Point{Lng: -3.19, Lat: 55.94})},
		Drones:        []domain.Drone{testDrone("1")},
		ServicePoints: []domain.ServicePoint{homeBase},
		ServicePointDrones: []domain.ServicePointDrones{
			{ServicePointID: homeBase.ID, Drones: []domain.DroneAvailability{{DroneID: "1"}}},
		},
		EligibleDroneIDs: []string{"1"},
	})
	require.NoError(t, err)
	assert.Equal(t, appletonTower, seenStart)
}

func TestCalcDeliveryPathSkipsIdleDrones(t *testing.T) {
	p := NewPlanner(segmentsFinder(1))

	res, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         []domain.DispatchRequest{dispatch(1, domain.Point{Lng: -3.19, Lat: 55.94})},
		Drones:           []domain.Drone{testDrone("1"), testDrone("2"), testDrone("3")},
		EligibleDroneIDs: []string{"3", "1", "2"},
	})
	require.NoError(t, err)

	require.Len(t, res.DronePaths, 1)
	assert.Equal(t, "3", res.DronePaths[0].DroneID)
}

func TestCalcDeliveryPathInvalidInput(t *testing.T) {
	p := NewPlanner(segmentsFinder(1))

	_, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         []domain.DispatchRequest{{ID: 1}},
		EligibleDroneIDs: []string{"1"},
	})
	require.ErrorIs(t, err, ErrInvalidPlanInput)
	assert.ErrorIs(t, err, domain.ErrInvalidGeometry)

	open := georgeSquare
	open.Vertices = open.Vertices[:3]
	_, err = p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         []domain.DispatchRequest{dispatch(1, appletonTower)},
		RestrictedAreas:  []domain.RestrictedArea{open},
		EligibleDroneIDs: []string{"1"},
	})
	require.ErrorIs(t, err, ErrInvalidPlanInput)
}

func TestPlannerWorkerPoolIsBounded(t *testing.T) {
	var running, peak atomic.Int32
	finder := finderFunc(func(_ context.Context, start, goal domain.Point, _ []domain.RestrictedArea) ([]domain.Point, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return []domain.Point{start, goal}, nil
	})

	p := NewPlanner(finder, WithWorkers(1), WithDroneConcurrency(4))
	ids := []string{"1", "2", "3", "4"}
	requests := make([]domain.DispatchRequest, 0, len(ids))
	for i := range ids {
		requests = append(requests, dispatch(i+1, domain.Point{Lng: -3.19, Lat: 55.94 + float64(i)*0.001}))
	}

	res, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         requests,
		EligibleDroneIDs: ids,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), peak.Load())
	assert.Len(t, res.DronePaths, 4)
	assert.Equal(t, 8, res.Diagnostics.LegsPlanned)
}

func TestPlannerRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)
	p := NewPlanner(segmentsFinder(1), WithMetrics(m))

	_, err := p.CalcDeliveryPath(context.Background(), PlanInput{
		Requests:         []domain.DispatchRequest{dispatch(1, domain.Point{Lng: -3.19, Lat: 55.94})},
		EligibleDroneIDs: []string{"1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlansTotal.WithLabelValues(string(domain.ReasonOK))))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LegsPlanned))
	assert.Zero(t, testutil.ToFloat64(m.StraightLineFallbacks))
}

func TestAssignRoundRobin(t *testing.T) {
	reqs := []domain.DispatchRequest{
		dispatch(1, appletonTower),
		dispatch(2, appletonTower),
		dispatch(3, appletonTower),
		dispatch(4, appletonTower),
		dispatch(5, appletonTower),
	}

	got := AssignRoundRobin(reqs, []string{"a", "b"})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].DroneID)

	ids := func(rs []domain.DispatchRequest) []int {
		out := make([]int, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}
	assert.Equal(t, []int{1, 3, 5}, ids(got[0].Requests))
	assert.Equal(t, []int{2, 4}, ids(got[1].Requests))

	assert.Nil(t, AssignRoundRobin(reqs, nil))
}

func TestBuildDroneHomes(t *testing.T) {
	other := domain.ServicePoint{ID: 2, Name: "Ocean Terminal", Location: domain.Point{Lng: -3.17732, Lat: 55.98186}}

	homes := BuildDroneHomes(
		[]domain.ServicePoint{homeBase, other},
		[]domain.ServicePointDrones{
			{ServicePointID: 1, Drones: []domain.DroneAvailability{{DroneID: "1"}, {DroneID: "2"}}},
			{ServicePointID: 2, Drones: []domain.DroneAvailability{{DroneID: "3"}}},
			{ServicePointID: 99, Drones: []domain.DroneAvailability{{DroneID: "4"}}},
		},
	)

	assert.Len(t, homes, 3)
	assert.Equal(t, homeBase, homes["1"])
	assert.Equal(t, other, homes["3"])
	assert.NotContains(t, homes, "4")
}
