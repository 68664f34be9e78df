package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/platform/logger"
	"drone-delivery-planner/internal/platform/obs"
)

// Postgres-backed implementation of the ReferenceDataProvider port.
type PostgresReferenceRepository struct {
	DB  *sql.DB
	log logger.Logger
}

func NewPostgresReferenceRepository(db *sql.DB, log logger.Logger) *PostgresReferenceRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &PostgresReferenceRepository{DB: db, log: log}
}

func (r *PostgresReferenceRepository) Drones(ctx context.Context) (_ []domain.Drone, err error) {
	defer obs.Time(ctx, r.log, "postgres.drones")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres reference repository: DB is nil")
	}

	query := `
	SELECT id, name, cooling, heating, capacity, max_moves, cost_per_move, cost_initial, cost_final
	FROM drones
	ORDER BY position, id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list drones: query drones table: %w", err)
	}
	defer rows.Close()

	drones := make([]domain.Drone, 0, 16)
	for rows.Next() {
		var d domain.Drone
		c := &d.Capability
		if err := rows.Scan(&d.ID, &d.Name, &c.Cooling, &c.Heating, &c.Capacity, &c.MaxMoves, &c.CostPerMove, &c.CostInitial, &c.CostFinal); err != nil {
			return nil, fmt.Errorf("list drones: scan row: %w", err)
		}
		drones = append(drones, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drones: row iteration: %w", err)
	}

	return drones, nil
}

func (r *PostgresReferenceRepository) ServicePoints(ctx context.Context) (_ []domain.ServicePoint, err error) {
	defer obs.Time(ctx, r.log, "postgres.service_points")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres reference repository: DB is nil")
	}

	query := `
	SELECT id, name, longitude, latitude, altitude
	FROM service_points
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list service points: query service_points table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ServicePoint, 0, 8)
	for rows.Next() {
		var sp domain.ServicePoint
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Location.Lng, &sp.Location.Lat, &sp.Altitude); err != nil {
			return nil, fmt.Errorf("list service points: scan row: %w", err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list service points: row iteration: %w", err)
	}

	return out, nil
}

// ServicePointDrones groups stations and their availability windows by
// service point, both ordered by id.
func (r *PostgresReferenceRepository) ServicePointDrones(ctx context.Context) (_ []domain.ServicePointDrones, err error) {
	defer obs.Time(ctx, r.log, "postgres.service_point_drones")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres reference repository: DB is nil")
	}

	query := `
	SELECT s.service_point_id, s.drone_id, a.day_of_week, a.from_seconds, a.until_seconds
	FROM drone_stations s
	LEFT JOIN drone_availability a
		ON a.service_point_id = s.service_point_id AND a.drone_id = s.drone_id
	ORDER BY s.service_point_id, s.drone_id, a.day_of_week, a.from_seconds;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list service point drones: query drone_stations table: %w", err)
	}
	defer rows.Close()

	var out []domain.ServicePointDrones
	for rows.Next() {
		var (
			spID        int
			droneID     string
			day         sql.NullInt16
			from, until sql.NullInt32
		)
		if err := rows.Scan(&spID, &droneID, &day, &from, &until); err != nil {
			return nil, fmt.Errorf("list service point drones: scan row: %w", err)
		}

		if len(out) == 0 || out[len(out)-1].ServicePointID != spID {
			out = append(out, domain.ServicePointDrones{ServicePointID: spID})
		}
		rec := &out[len(out)-1]

		if len(rec.Drones) == 0 || rec.Drones[len(rec.Drones)-1].DroneID != droneID {
			rec.Drones = append(rec.Drones, domain.DroneAvailability{DroneID: droneID})
		}
		da := &rec.Drones[len(rec.Drones)-1]

		if day.Valid {
			da.Availability = append(da.Availability, domain.Availability{
				DayOfWeek: domain.Weekday(day.Int16),
				From:      domain.TimeOfDay(from.Int32),
				Until:     domain.TimeOfDay(until.Int32),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list service point drones: row iteration: %w", err)
	}

	return out, nil
}

func (r *PostgresReferenceRepository) RestrictedAreas(ctx context.Context) (_ []domain.RestrictedArea, err error) {
	defer obs.Time(ctx, r.log, "postgres.restricted_areas")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres reference repository: DB is nil")
	}

	query := `
	SELECT a.id, a.name, a.lower_limit, a.upper_limit, v.lng, v.lat
	FROM restricted_areas a
	JOIN restricted_area_vertices v ON v.area_id = a.id
	ORDER BY a.id, v.seq;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restricted areas: query restricted_areas table: %w", err)
	}
	defer rows.Close()

	var out []domain.RestrictedArea
	for rows.Next() {
		var (
			id, lower, upper int
			name             string
			v                domain.Point
		)
		if err := rows.Scan(&id, &name, &lower, &upper, &v.Lng, &v.Lat); err != nil {
			return nil, fmt.Errorf("list restricted areas: scan row: %w", err)
		}

		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, domain.RestrictedArea{
				ID:     id,
				Name:   name,
				Limits: domain.AltitudeLimits{Lower: lower, Upper: upper},
			})
		}
		area := &out[len(out)-1]
		area.Vertices = append(area.Vertices, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restricted areas: row iteration: %w", err)
	}

	return out, nil
}
