// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/momeni/fleetflow/pkg/core/model"
)

// FinanceConnQueryer contains the aggregation queries of the financial
// reports. They are read-only and take no locks. Months are computed
// in the given loc time zone and are returned in ascending order.
// All sums are zero (and lists are empty) when there are no rows.
type FinanceConnQueryer interface {
	VehicleLedgers(ctx context.Context) ([]model.VehicleLedger, error)
	TotalRevenue(ctx context.Context) (float64, error)
	VehicleStatusCounts(ctx context.Context) (map[model.VehicleStatus]int, error)
	TripStatusCounts(ctx context.Context) (map[model.TripStatus]int, error)
	FuelCostBetween(ctx context.Context, from, to time.Time) (float64, error)
	RevenueByMonth(ctx context.Context, loc *time.Location) ([]model.MonthlyAmount, error)
	FuelCostByMonth(ctx context.Context, loc *time.Location) ([]model.MonthlyAmount, error)
	MaintenanceCostByMonth(ctx context.Context, loc *time.Location) ([]model.MonthlyAmount, error)
}

// Finance has no Tx method since reports never mutate the store.
type Finance interface {
	Conn(Conn) FinanceConnQueryer
}
