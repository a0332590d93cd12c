// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package financerp implements the read-only repo.Finance repository.
// It aggregates costs and revenues in the PostgreSQL server, so the
// finance use case receives per-vehicle and per-month sums instead of
// the individual log rows.
package financerp

import (
	"context"
	"time"

	"github.com/momeni/fleetflow/pkg/adapter/db/postgres"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (finance *Repo) Conn(c repo.Conn) repo.FinanceConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) VehicleLedgers(ctx context.Context) ([]model.VehicleLedger, error) {
	return VehicleLedgers(ctx, cq.Conn)
}

func (cq connQueryer) TotalRevenue(ctx context.Context) (float64, error) {
	return TotalRevenue(ctx, cq.Conn)
}

func (cq connQueryer) VehicleStatusCounts(ctx context.Context) (map[model.VehicleStatus]int, error) {
	return VehicleStatusCounts(ctx, cq.Conn)
}

func (cq connQueryer) TripStatusCounts(ctx context.Context) (map[model.TripStatus]int, error) {
	return TripStatusCounts(ctx, cq.Conn)
}

func (cq connQueryer) FuelCostBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return FuelCostBetween(ctx, cq.Conn, from, to)
}

func (cq connQueryer) RevenueByMonth(ctx context.Context, loc *time.Location) ([]model.MonthlyAmount, error) {
	return RevenueByMonth(ctx, cq.Conn, loc)
}

func (cq connQueryer) FuelCostByMonth(ctx context.Context, loc *time.Location) ([]model.MonthlyAmount, error) {
	return FuelCostByMonth(ctx, cq.Conn, loc)
}

func (cq connQueryer) MaintenanceCostByMonth(ctx context.Context, loc *time.Location) ([]model.MonthlyAmount, error) {
	return MaintenanceCostByMonth(ctx, cq.Conn, loc)
}
