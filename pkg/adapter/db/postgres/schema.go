// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/fleetflow/pkg/core/repo"
	"github.com/momeni/fleetflow/pkg/core/scram"
)

// Names of the partial unique indexes which back the exclusivity
// invariants. Classify uses them in order to tell which invariant was
// violated by a unique violation error.
const (
	IndexActiveTripVehicle = "trips_active_vehicle_idx"
	IndexActiveTripDriver  = "trips_active_driver_idx"
	IndexOpenMaintenance   = "maintenance_logs_open_idx"
)

var schemaStatements = []string{
	`CREATE TABLE vehicles (
		id uuid PRIMARY KEY,
		name text NOT NULL DEFAULT '',
		license_plate text NOT NULL UNIQUE,
		type text NOT NULL CHECK (type IN ('TRUCK', 'VAN', 'BIKE')),
		max_capacity double precision NOT NULL DEFAULT 0
			CHECK (max_capacity >= 0),
		acquisition_cost double precision NOT NULL DEFAULT 0
			CHECK (acquisition_cost >= 0),
		odometer double precision NOT NULL DEFAULT 0
			CHECK (odometer >= 0),
		status text NOT NULL CHECK (status IN (
			'AVAILABLE', 'ON_TRIP', 'IN_SHOP', 'RETIRED'
		)),
		retired boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL
	)`,
	`CREATE TABLE drivers (
		id uuid PRIMARY KEY,
		actor_id uuid NOT NULL UNIQUE,
		name text NOT NULL DEFAULT '',
		license_expiry date NOT NULL,
		safety_score double precision NOT NULL DEFAULT 0,
		status text NOT NULL CHECK (status IN (
			'ON_DUTY', 'OFF_DUTY', 'SUSPENDED'
		)),
		created_at timestamptz NOT NULL
	)`,
	`CREATE TABLE trips (
		id uuid PRIMARY KEY,
		title text NOT NULL,
		description text NOT NULL DEFAULT '',
		origin text NOT NULL DEFAULT '',
		destination text NOT NULL DEFAULT '',
		priority text NOT NULL CHECK (priority IN ('LOW', 'MEDIUM', 'HIGH')),
		status text NOT NULL CHECK (status IN (
			'DRAFT', 'DISPATCHED', 'IN_PROGRESS', 'COMPLETED', 'CANCELLED'
		)),
		vehicle_id uuid REFERENCES vehicles (id),
		driver_id uuid REFERENCES drivers (id),
		cargo_weight double precision NOT NULL DEFAULT 0
			CHECK (cargo_weight >= 0),
		estimated_fuel_cost double precision NOT NULL DEFAULT 0,
		revenue double precision NOT NULL DEFAULT 0,
		start_odometer double precision,
		end_odometer double precision,
		created_by uuid NOT NULL,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE UNIQUE INDEX ` + IndexActiveTripVehicle + `
		ON trips (vehicle_id)
		WHERE status IN ('DISPATCHED', 'IN_PROGRESS')`,
	`CREATE UNIQUE INDEX ` + IndexActiveTripDriver + `
		ON trips (driver_id)
		WHERE status IN ('DISPATCHED', 'IN_PROGRESS')`,
	`CREATE INDEX trips_status_idx ON trips (status)`,
	`CREATE TABLE activity_logs (
		id uuid PRIMARY KEY,
		trip_id uuid NOT NULL REFERENCES trips (id),
		action text NOT NULL,
		performed_by uuid NOT NULL,
		performed_at timestamptz NOT NULL
	)`,
	`CREATE INDEX activity_logs_trip_idx
		ON activity_logs (trip_id, performed_at)`,
	`CREATE TABLE maintenance_logs (
		id uuid PRIMARY KEY,
		vehicle_id uuid NOT NULL REFERENCES vehicles (id),
		description text NOT NULL,
		cost double precision NOT NULL DEFAULT 0 CHECK (cost >= 0),
		status text NOT NULL CHECK (status IN ('OPEN', 'CLOSED')),
		created_at timestamptz NOT NULL,
		closed_at timestamptz
	)`,
	`CREATE UNIQUE INDEX ` + IndexOpenMaintenance + `
		ON maintenance_logs (vehicle_id)
		WHERE status = 'OPEN'`,
	`CREATE TABLE fuel_logs (
		id uuid PRIMARY KEY,
		vehicle_id uuid NOT NULL REFERENCES vehicles (id),
		trip_id uuid REFERENCES trips (id),
		liters double precision NOT NULL CHECK (liters > 0),
		cost double precision NOT NULL CHECK (cost >= 0),
		odometer_reading double precision NOT NULL
			CHECK (odometer_reading >= 0),
		filled_at timestamptz NOT NULL,
		created_at timestamptz NOT NULL
	)`,
	`CREATE INDEX fuel_logs_vehicle_filled_idx
		ON fuel_logs (vehicle_id, filled_at)`,
}

// CreateSchema creates all tables and indexes in the tx transaction.
// It should run as the repo.AdminRole and grants the data manipulation
// privileges (but no DDL privileges) to the normal role. The
// activity_logs table is append-only for the normal role.
func CreateSchema(ctx context.Context, tx repo.Tx, normalRole repo.Role) error {
	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt, err)
		}
	}
	grants := []string{
		`GRANT SELECT, INSERT, UPDATE ON
			vehicles, drivers, trips, maintenance_logs, fuel_logs
			TO %s`,
		`GRANT SELECT, INSERT ON activity_logs TO %s`,
	}
	for _, g := range grants {
		stmt := fmt.Sprintf(g, pgx.Identifier{string(normalRole)}.Sanitize())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("granting privileges: %w", err)
		}
	}
	return nil
}

// DropSchema drops all tables which are created by CreateSchema.
// It is used when a development database is initialized again.
func DropSchema(ctx context.Context, tx repo.Tx) error {
	_, err := tx.Exec(ctx, `DROP TABLE IF EXISTS
		fuel_logs, maintenance_logs, activity_logs, trips,
		drivers, vehicles CASCADE`)
	if err != nil {
		return fmt.Errorf("dropping tables: %w", err)
	}
	return nil
}

// SetRolePassword changes the password of the r role to pass. Only its
// SCRAM hash (as computed by h) is sent to the server, so the DDL
// statement may be logged without revealing the plaintext password.
func SetRolePassword(
	ctx context.Context, tx repo.Tx, r repo.Role, pass string,
	h scram.Hasher,
) error {
	hashed, err := h.Hash(pass, "", scram.RecommendedIterations)
	if err != nil {
		return fmt.Errorf("hashing password of %q role: %w", r, err)
	}
	stmt := fmt.Sprintf(
		"ALTER ROLE %s PASSWORD '%s'",
		pgx.Identifier{string(r)}.Sanitize(),
		strings.ReplaceAll(hashed, "'", "''"),
	)
	if _, err = tx.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("altering %q role: %w", r, err)
	}
	return nil
}
