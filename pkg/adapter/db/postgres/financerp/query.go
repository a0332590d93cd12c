// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package financerp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type gLedger struct {
	VehicleID       uuid.UUID
	Name            string
	LicensePlate    string
	AcquisitionCost float64
	FuelCost        float64
	MaintenanceCost float64
	Revenue         float64
}

const ledgersQuery = `SELECT v.id AS vehicle_id, v.name, v.license_plate,
	v.acquisition_cost,
	COALESCE((SELECT SUM(f.cost) FROM fuel_logs f
		WHERE f.vehicle_id = v.id), 0) AS fuel_cost,
	COALESCE((SELECT SUM(m.cost) FROM maintenance_logs m
		WHERE m.vehicle_id = v.id), 0) AS maintenance_cost,
	COALESCE((SELECT SUM(t.revenue) FROM trips t
		WHERE t.vehicle_id = v.id), 0) AS revenue
FROM vehicles v
ORDER BY v.created_at, v.id`

// VehicleLedgers returns one ledger per vehicle (including the retired
// ones) with its summed fuel costs, maintenance costs, and revenues.
func VehicleLedgers[Q postgres.Queryer](ctx context.Context, q Q) ([]model.VehicleLedger, error) {
	var gls []gLedger
	if err := q.GORM(ctx).Raw(ledgersQuery).Scan(&gls).Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	ls := make([]model.VehicleLedger, 0, len(gls))
	for _, gl := range gls {
		ls = append(ls, model.VehicleLedger(gl))
	}
	return ls, nil
}

func sum[Q postgres.Queryer](ctx context.Context, q Q, sql string, args ...any) (float64, error) {
	var total float64
	if err := q.GORM(ctx).Raw(sql, args...).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	return total, nil
}

// TotalRevenue sums the revenue of all trips, including the trips
// which have no vehicle.
func TotalRevenue[Q postgres.Queryer](ctx context.Context, q Q) (float64, error) {
	return sum(ctx, q, `SELECT COALESCE(SUM(revenue), 0) FROM trips`)
}

// FuelCostBetween sums the cost of fuel logs which are dated in the
// [from, to) range.
func FuelCostBetween[Q postgres.Queryer](ctx context.Context, q Q, from, to time.Time) (float64, error) {
	return sum(ctx, q, `SELECT COALESCE(SUM(cost), 0) FROM fuel_logs
		WHERE filled_at >= ? AND filled_at < ?`, from, to)
}

type statusCount struct {
	Status string
	N      int
}

func countByStatus[Q postgres.Queryer](ctx context.Context, q Q, table string) ([]statusCount, error) {
	var scs []statusCount
	err := q.GORM(ctx).Raw(fmt.Sprintf(
		`SELECT status, COUNT(*) AS n FROM %s GROUP BY status`, table,
	)).Scan(&scs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	return scs, nil
}

func VehicleStatusCounts[Q postgres.Queryer](ctx context.Context, q Q) (map[model.VehicleStatus]int, error) {
	scs, err := countByStatus(ctx, q, "vehicles")
	if err != nil {
		return nil, err
	}
	m := make(map[model.VehicleStatus]int, len(scs))
	for _, sc := range scs {
		s, err := model.ParseVehicleStatus(sc.Status)
		if err != nil {
			return nil, fmt.Errorf("vehicle status %q: %w", sc.Status, err)
		}
		m[s] = sc.N
	}
	return m, nil
}

func TripStatusCounts[Q postgres.Queryer](ctx context.Context, q Q) (map[model.TripStatus]int, error) {
	scs, err := countByStatus(ctx, q, "trips")
	if err != nil {
		return nil, err
	}
	m := make(map[model.TripStatus]int, len(scs))
	for _, sc := range scs {
		s, err := model.ParseTripStatus(sc.Status)
		if err != nil {
			return nil, fmt.Errorf("trip status %q: %w", sc.Status, err)
		}
		m[s] = sc.N
	}
	return m, nil
}

type gMonthly struct {
	Year   int
	Month  int
	Amount float64
}

// ErrUnnamedLocation indicates that a time.Location has no IANA name
// which the PostgreSQL server could use for the AT TIME ZONE clause.
var ErrUnnamedLocation = errors.New("location has no IANA name")

// byMonth sums the amount column of table rows, grouping them by the
// calendar month of their at column in the loc location.
func byMonth[Q postgres.Queryer](
	ctx context.Context, q Q, table, at, amount string, loc *time.Location,
) ([]model.MonthlyAmount, error) {
	tz := loc.String()
	if tz == "Local" || tz == "" {
		return nil, fmt.Errorf("%q: %w", tz, ErrUnnamedLocation)
	}
	var gms []gMonthly
	err := q.GORM(ctx).Raw(fmt.Sprintf(
		`SELECT EXTRACT(YEAR FROM m)::int AS year,
			EXTRACT(MONTH FROM m)::int AS month,
			SUM(amount) AS amount
		FROM (
			SELECT date_trunc('month', %s AT TIME ZONE ?) AS m,
				%s AS amount
			FROM %s
		) AS s
		GROUP BY m
		ORDER BY m`, at, amount, table,
	), tz).Scan(&gms).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	ms := make([]model.MonthlyAmount, 0, len(gms))
	for _, gm := range gms {
		ms = append(ms, model.MonthlyAmount{
			Month: model.Month{
				Year: gm.Year, Month: time.Month(gm.Month),
			},
			Amount: gm.Amount,
		})
	}
	return ms, nil
}

func RevenueByMonth[Q postgres.Queryer](ctx context.Context, q Q, loc *time.Location) ([]model.MonthlyAmount, error) {
	return byMonth(ctx, q, "trips", "created_at", "revenue", loc)
}

func FuelCostByMonth[Q postgres.Queryer](ctx context.Context, q Q, loc *time.Location) ([]model.MonthlyAmount, error) {
	return byMonth(ctx, q, "fuel_logs", "filled_at", "cost", loc)
}

func MaintenanceCostByMonth[Q postgres.Queryer](ctx context.Context, q Q, loc *time.Location) ([]model.MonthlyAmount, error) {
	return byMonth(ctx, q, "maintenance_logs", "created_at", "cost", loc)
}
