package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/platform/logger"
	"drone-delivery-planner/internal/platform/metrics"
	"drone-delivery-planner/internal/platform/obs"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultLegTimeout       = 180 * time.Second
	DefaultDroneConcurrency = 4
)

// Planner composes per-drone flight plans from dispatch requests.
//
// All searches started by one Planner share a single bounded worker pool, so
// concurrent planning calls compete for the same workers.
type Planner struct {
	finder     PathFinder
	sem        *semaphore.Weighted
	workers    int
	legTimeout time.Duration
	droneLimit int
	log        logger.Logger
	metrics    *metrics.Metrics
}

type PlannerOption func(*Planner)

// WithWorkers sizes the shared search pool.
func WithWorkers(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLegTimeout sets the time budget of a single leg search.
func WithLegTimeout(d time.Duration) PlannerOption {
	return func(p *Planner) {
		if d > 0 {
			p.legTimeout = d
		}
	}
}

// WithDroneConcurrency caps how many drones of one call are planned at once.
func WithDroneConcurrency(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.droneLimit = n
		}
	}
}

func WithLogger(l logger.Logger) PlannerOption {
	return func(p *Planner) {
		if l != nil {
			p.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) PlannerOption {
	return func(p *Planner) {
		if m != nil {
			p.metrics = m
		}
	}
}

func NewPlanner(finder PathFinder, opts ...PlannerOption) *Planner {
	p := &Planner{
		finder:     finder,
		workers:    runtime.NumCPU(),
		legTimeout: DefaultLegTimeout,
		droneLimit: DefaultDroneConcurrency,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = metrics.NewMetrics("drone_planner", nil)
	}
	p.sem = semaphore.NewWeighted(int64(p.workers))
	return p
}

// PlanInput is everything one planning call needs.
//
// DroneHomes maps a drone id to its base. When nil it is derived from
// ServicePoints and ServicePointDrones.
type PlanInput struct {
	Requests           []domain.DispatchRequest
	Drones             []domain.Drone
	ServicePoints      []domain.ServicePoint
	ServicePointDrones []domain.ServicePointDrones
	RestrictedAreas    []domain.RestrictedArea
	EligibleDroneIDs   []string
	DroneHomes         map[string]domain.ServicePoint
}

// droneOutcome is the planned route of one drone and its share of the totals.
type droneOutcome struct {
	plan        *domain.DronePlan
	moves       int
	cost        float64
	legsPlanned int
	legsFailed  int
	invocations int
	fallbacks   int
}

func (o *droneOutcome) add(d domain.Delivery, drone *domain.Drone) {
	moves := d.Moves()
	o.moves += moves
	if drone != nil {
		o.cost += drone.LegCost(moves)
	}
	o.plan.Deliveries = append(o.plan.Deliveries, d)
}

// CalcDeliveryPath assigns requests round-robin to the eligible drones and
// plans every leg, including the return to base.
//
// Search failures never fail the call: the leg is flown as a straight line
// and the plan is tagged PLANNED_WITH_WARNINGS. Only malformed input returns
// an error, wrapping ErrInvalidPlanInput.
func (p *Planner) CalcDeliveryPath(ctx context.Context, in PlanInput) (*domain.PlanningResult, error) {
	started := time.Now()
	requestID := uuid.NewString()

	log := p.log.With("request_id", requestID)
	if reqID := obs.RequestID(ctx); reqID != "" {
		log = log.With("req_id", reqID)
	}

	if err := validatePlanInput(in); err != nil {
		return nil, fmt.Errorf("calc delivery path: %w", err)
	}

	diag := &domain.Diagnostics{RequestID: requestID}
	result := &domain.PlanningResult{DronePaths: []domain.DronePlan{}, Diagnostics: diag}

	if len(in.EligibleDroneIDs) == 0 {
		diag.ReasonCode = domain.ReasonNoAvailableDrones
		return p.finish(log, started, result), nil
	}
	if len(in.Requests) == 0 {
		diag.ReasonCode = domain.ReasonOK
		return p.finish(log, started, result), nil
	}

	homes := in.DroneHomes
	if homes == nil {
		homes = BuildDroneHomes(in.ServicePoints, in.ServicePointDrones)
	}

	droneByID := make(map[string]domain.Drone, len(in.Drones))
	for _, d := range domain.CloneDrones(in.Drones) {
		droneByID[d.ID] = d
	}

	assignments := AssignRoundRobin(in.Requests, in.EligibleDroneIDs)
	log.Info("assignments built", "drones", len(assignments), "requests", len(in.Requests))

	outcomes := make([]droneOutcome, len(assignments))

	var g errgroup.Group
	g.SetLimit(p.droneLimit)
	for i, a := range assignments {
		i, a := i, a
		if len(a.Requests) == 0 {
			log.Debug("no deliveries assigned, skipping drone", "drone_id", a.DroneID)
			continue
		}

		var drone *domain.Drone
		if d, ok := droneByID[a.DroneID]; ok {
			drone = &d
		}

		g.Go(func() error {
			outcomes[i] = p.planDrone(ctx, log, a, drone, homes, in.RestrictedAreas)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.plan == nil {
			continue
		}
		result.DronePaths = append(result.DronePaths, *o.plan)
		result.TotalMoves += o.moves
		result.TotalCost += o.cost
		diag.LegsPlanned += o.legsPlanned
		diag.LegsFailed += o.legsFailed
		diag.SearchInvocations += o.invocations
		diag.StraightLineFallbacks += o.fallbacks
	}

	diag.ReasonCode = domain.ReasonOK
	if diag.LegsFailed > 0 {
		diag.ReasonCode = domain.ReasonPlannedWithWarnings
	}

	return p.finish(log, started, result), nil
}

func (p *Planner) planDrone(
	ctx context.Context,
	log logger.Logger,
	a DroneAssignment,
	drone *domain.Drone,
	homes map[string]domain.ServicePoint,
	areas []domain.RestrictedArea,
) droneOutcome {
	log = log.With("drone_id", a.DroneID)

	origin, ok := homes[a.DroneID]
	if !ok {
		origin = domain.FallbackOrigin(*a.Requests[0].Delivery)
		log.Info("no service point mapped for drone, using first delivery as origin",
			"origin", origin.Location.String(),
		)
	}
	if drone == nil {
		log.Warn("drone record missing, legs will not be costed")
	}

	out := droneOutcome{plan: &domain.DronePlan{DroneID: a.DroneID}}

	prev := origin.Location
	for _, r := range a.Requests {
		dest := *r.Delivery
		id := r.ID

		leg := p.flyLeg(ctx, log, prev, dest, areas, &out)
		// Hover over the drop-off before moving on.
		leg = append(leg, leg[len(leg)-1])

		out.add(domain.Delivery{DeliveryID: &id, FlightPath: leg}, drone)
		prev = dest
	}

	ret := p.flyLeg(ctx, log, prev, origin.Location, areas, &out)
	out.add(domain.Delivery{FlightPath: ret}, drone)

	log.Debug("drone plan built", "deliveries", len(out.plan.Deliveries), "moves", out.moves)
	return out
}

func (p *Planner) flyLeg(
	ctx context.Context,
	log logger.Logger,
	from domain.Point,
	to domain.Point,
	areas []domain.RestrictedArea,
	out *droneOutcome,
) []domain.Point {
	out.legsPlanned++
	out.invocations++

	res := p.boundedFindPath(ctx, from, to, areas)
	if res.fallback {
		out.legsFailed++
		out.fallbacks++
		log.Warn("leg search failed, using straight-line fallback",
			"from", from.String(),
			"to", to.String(),
			"err", res.err,
		)
	}

	path := make([]domain.Point, len(res.path), len(res.path)+1)
	copy(path, res.path)
	return path
}

func (p *Planner) finish(log logger.Logger, started time.Time, result *domain.PlanningResult) *domain.PlanningResult {
	dur := time.Since(started)
	diag := result.Diagnostics
	diag.DurationMs = dur.Milliseconds()

	p.metrics.PlansTotal.WithLabelValues(string(diag.ReasonCode)).Inc()
	p.metrics.PlanDuration.Observe(dur.Seconds())
	p.metrics.LegsPlanned.Add(float64(diag.LegsPlanned))
	p.metrics.LegsFailed.Add(float64(diag.LegsFailed))
	p.metrics.SearchInvocations.Add(float64(diag.SearchInvocations))
	p.metrics.StraightLineFallbacks.Add(float64(diag.StraightLineFallbacks))

	log.Info("delivery plan computed",
		"reason", diag.ReasonCode,
		"dur_ms", diag.DurationMs,
		"total_moves", result.TotalMoves,
		"total_cost", result.TotalCost,
		"drone_paths", len(result.DronePaths),
		"legs_planned", diag.LegsPlanned,
		"legs_failed", diag.LegsFailed,
		"search_invocations", diag.SearchInvocations,
		"fallbacks", diag.StraightLineFallbacks,
	)

	return result
}

func validatePlanInput(in PlanInput) error {
	for _, r := range in.Requests {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPlanInput, err)
		}
	}
	for _, a := range in.RestrictedAreas {
		if err := domain.ValidateRing(a.Vertices); err != nil {
			return fmt.Errorf("%w: restricted area %d: %w", ErrInvalidPlanInput, a.ID, err)
		}
	}
	for id, sp := range in.DroneHomes {
		if err := sp.Location.Validate(); err != nil {
			return fmt.Errorf("%w: home of drone %s: %w", ErrInvalidPlanInput, id, err)
		}
	}
	for _, sp := range in.ServicePoints {
		if err := sp.Location.Validate(); err != nil {
			return fmt.Errorf("%w: service point %d: %w", ErrInvalidPlanInput, sp.ID, err)
		}
	}
	return nil
}
