package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"drone-delivery-planner/internal/domain"

	"github.com/google/uuid"
)

// Initialize the Postgres reference data schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDronesQuery := `
	CREATE TABLE IF NOT EXISTS drones (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cooling BOOLEAN NOT NULL DEFAULT FALSE,
		heating BOOLEAN NOT NULL DEFAULT FALSE,
		capacity DOUBLE PRECISION NOT NULL,
		max_moves INTEGER NOT NULL,
		cost_per_move DOUBLE PRECISION NOT NULL,
		cost_initial DOUBLE PRECISION NOT NULL,
		cost_final DOUBLE PRECISION NOT NULL,
		position INTEGER NOT NULL DEFAULT 0
	);
	`

	// Catalogue order; ids are opaque text and do not sort numerically.
	addDronePositionQuery := `
	ALTER TABLE drones ADD COLUMN IF NOT EXISTS position INTEGER NOT NULL DEFAULT 0;
	`

	createServicePointsQuery := `
	CREATE TABLE IF NOT EXISTS service_points (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		altitude DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS drone_stations (
		service_point_id INTEGER NOT NULL REFERENCES service_points(id) ON DELETE CASCADE,
		drone_id TEXT NOT NULL,
		PRIMARY KEY (service_point_id, drone_id)
	);
	`

	createAvailabilityQuery := `
	CREATE TABLE IF NOT EXISTS drone_availability (
		id UUID PRIMARY KEY,
		service_point_id INTEGER NOT NULL,
		drone_id TEXT NOT NULL,
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		from_seconds INTEGER NOT NULL,
		until_seconds INTEGER NOT NULL,
		FOREIGN KEY (service_point_id, drone_id)
			REFERENCES drone_stations(service_point_id, drone_id) ON DELETE CASCADE
	);
	`

	createAreasQuery := `
	CREATE TABLE IF NOT EXISTS restricted_areas (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		lower_limit INTEGER NOT NULL DEFAULT 0,
		upper_limit INTEGER NOT NULL DEFAULT -1
	);
	`

	createVerticesQuery := `
	CREATE TABLE IF NOT EXISTS restricted_area_vertices (
		area_id INTEGER NOT NULL REFERENCES restricted_areas(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (area_id, seq)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_drone_availability_drone
	ON drone_availability(drone_id, day_of_week);
	`

	statements := []string{
		createDronesQuery,
		addDronePositionQuery,
		createServicePointsQuery,
		createStationsQuery,
		createAvailabilityQuery,
		createAreasQuery,
		createVerticesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// ReferenceSeed is the on-disk shape of a reference data snapshot.
type ReferenceSeed struct {
	Drones             []domain.Drone              `json:"drones"`
	ServicePoints      []domain.ServicePoint       `json:"servicePoints"`
	ServicePointDrones []domain.ServicePointDrones `json:"servicePointDrones"`
	RestrictedAreas    []domain.RestrictedArea     `json:"restrictedAreas"`
}

// LoadSeed reads and validates a reference data snapshot.
func LoadSeed(jsonPath string) (*ReferenceSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}

	var seed ReferenceSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	return &seed, nil
}

// Validate rejects snapshots the schema would refuse or the planner could
// not use.
func (s *ReferenceSeed) Validate() error {
	droneIDs := make(map[string]struct{}, len(s.Drones))
	for i, d := range s.Drones {
		if d.ID == "" {
			return fmt.Errorf("drone at index %d: id cannot be empty", i+1)
		}
		if _, dup := droneIDs[d.ID]; dup {
			return fmt.Errorf("drone at index %d: duplicate id %q", i+1, d.ID)
		}
		droneIDs[d.ID] = struct{}{}
	}

	spIDs := make(map[int]struct{}, len(s.ServicePoints))
	for i, sp := range s.ServicePoints {
		if err := sp.Location.Validate(); err != nil {
			return fmt.Errorf("service point at index %d: %w", i+1, err)
		}
		spIDs[sp.ID] = struct{}{}
	}

	for i, rec := range s.ServicePointDrones {
		if _, ok := spIDs[rec.ServicePointID]; !ok {
			return fmt.Errorf("service point drones at index %d: unknown service point %d", i+1, rec.ServicePointID)
		}
	}

	for i, a := range s.RestrictedAreas {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("restricted area at index %d: %w", i+1, err)
		}
	}

	return nil
}

// Populate the database with a reference data snapshot from a JSON file.
// Existing rows are replaced.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	seed, err := LoadSeed(jsonPath)
	if err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed reference data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"restricted_areas", "drone_stations", "service_points", "drones"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("seed reference data: clear %s: %w", table, err)
		}
	}

	for i, d := range seed.Drones {
		c := d.Capability
		_, err := tx.ExecContext(ctx, `
		INSERT INTO drones (id, name, cooling, heating, capacity, max_moves, cost_per_move, cost_initial, cost_final, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`, d.ID, d.Name, c.Cooling, c.Heating, c.Capacity, c.MaxMoves, c.CostPerMove, c.CostInitial, c.CostFinal, i)
		if err != nil {
			return fmt.Errorf("seed reference data: insert drone id=%q: %w", d.ID, err)
		}
	}

	for _, sp := range seed.ServicePoints {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO service_points (id, name, longitude, latitude, altitude)
		VALUES ($1, $2, $3, $4, $5);
		`, sp.ID, sp.Name, sp.Location.Lng, sp.Location.Lat, sp.Altitude)
		if err != nil {
			return fmt.Errorf("seed reference data: insert service point id=%d: %w", sp.ID, err)
		}
	}

	for _, rec := range seed.ServicePointDrones {
		for _, d := range rec.Drones {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO drone_stations (service_point_id, drone_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING;
			`, rec.ServicePointID, d.DroneID)
			if err != nil {
				return fmt.Errorf("seed reference data: insert station sp=%d drone=%q: %w", rec.ServicePointID, d.DroneID, err)
			}

			for _, a := range d.Availability {
				_, err := tx.ExecContext(ctx, `
				INSERT INTO drone_availability (id, service_point_id, drone_id, day_of_week, from_seconds, until_seconds)
				VALUES ($1, $2, $3, $4, $5, $6);
				`, uuid.New(), rec.ServicePointID, d.DroneID, int(a.DayOfWeek), int(a.From), int(a.Until))
				if err != nil {
					return fmt.Errorf("seed reference data: insert availability drone=%q: %w", d.DroneID, err)
				}
			}
		}
	}

	for _, a := range seed.RestrictedAreas {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO restricted_areas (id, name, lower_limit, upper_limit)
		VALUES ($1, $2, $3, $4);
		`, a.ID, a.Name, a.Limits.Lower, a.Limits.Upper)
		if err != nil {
			return fmt.Errorf("seed reference data: insert restricted area id=%d: %w", a.ID, err)
		}

		for i, v := range a.Vertices {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO restricted_area_vertices (area_id, seq, lng, lat)
			VALUES ($1, $2, $3, $4);
			`, a.ID, i, v.Lng, v.Lat)
			if err != nil {
				return fmt.Errorf("seed reference data: insert vertex area=%d seq=%d: %w", a.ID, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed reference data: commit tx: %w", err)
	}

	return nil
}
