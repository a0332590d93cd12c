// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package financeuc contains the finance UseCase which derives the
// fleet KPIs, the per-vehicle financial report, and the monthly
// rollups from trips, fuel logs, and maintenance records.
//
// All amounts follow one set of definitions:
//   - operational cost of a vehicle is its fuel, maintenance, and
//     acquisition costs,
//   - revenue of a vehicle is the revenue of its trips, while the
//     fleet revenue covers all trips (including unassigned ones),
//   - utilization rate is the percentage of non-retired vehicles which
//     are ON_TRIP.
//
// Queries are read-only and run without locks, so a report may not
// be linearized with concurrent transitions.
package financeuc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/repo"
)

// UseCase represents a finance use case.
type UseCase struct {
	pool    repo.Pool
	finance repo.Finance

	now             func() time.Time
	loc             *time.Location
	topCostVehicles int
}

// Option is a functional option for the finance use case.
type Option func(uc *UseCase) error

// WithClock option replaces the time.Now function which determines
// the current month.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}

// WithLocation option sets the time zone which months are computed in.
// It defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCase) error {
		if loc == nil {
			return errors.New("location is nil")
		}
		uc.loc = loc
		return nil
	}
}

// WithTopCostVehicles option sets the length of the top cost vehicles
// list of the monthly rollups. It defaults to 5.
func WithTopCostVehicles(n int) Option {
	return func(uc *UseCase) error {
		if n < 1 {
			return fmt.Errorf("top cost vehicles (%d) is not positive", n)
		}
		uc.topCostVehicles = n
		return nil
	}
}

// New instantiates a finance use case.
func New(p repo.Pool, f repo.Finance, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, finance: f}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.loc == nil {
		uc.loc = time.UTC
	}
	if uc.topCostVehicles == 0 {
		uc.topCostVehicles = 5
	}
	return uc, nil
}

func (uc *UseCase) query(
	ctx context.Context, h func(context.Context, repo.FinanceConnQueryer) error,
) error {
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return h(ctx, uc.finance.Conn(c))
	})
}

func totals(ls []model.VehicleLedger, revenue float64) model.Totals {
	t := model.Totals{Revenue: revenue}
	for _, l := range ls {
		t.OperationalCost += l.OperationalCost()
	}
	t.Profit = t.Revenue - t.OperationalCost
	return t
}

// monthRange returns the [from, to) range of the y-m month in loc.
func monthRange(y int, m time.Month, loc *time.Location) (from, to time.Time) {
	from = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// GetFleetKPIs computes the command center KPIs.
func (uc *UseCase) GetFleetKPIs(ctx context.Context) (*model.FleetKPIs, error) {
	k := &model.FleetKPIs{}
	err := uc.query(ctx, func(ctx context.Context, q repo.FinanceConnQueryer) error {
		ls, err := q.VehicleLedgers(ctx)
		if err != nil {
			return fmt.Errorf("vehicle ledgers: %w", err)
		}
		revenue, err := q.TotalRevenue(ctx)
		if err != nil {
			return fmt.Errorf("total revenue: %w", err)
		}
		k.Totals = totals(ls, revenue)
		vc, err := q.VehicleStatusCounts(ctx)
		if err != nil {
			return fmt.Errorf("vehicle status counts: %w", err)
		}
		tc, err := q.TripStatusCounts(ctx)
		if err != nil {
			return fmt.Errorf("trip status counts: %w", err)
		}
		all := 0
		for _, n := range vc {
			all += n
		}
		k.ActiveFleetCount = vc[model.VehicleStatusOnTrip]
		k.MaintenanceAlertCount = vc[model.VehicleStatusInShop]
		k.UtilizationRate = model.UtilizationRate(
			k.ActiveFleetCount, all-vc[model.VehicleStatusRetired],
		)
		k.PendingCargoCount = tc[model.TripStatusDraft]
		for _, s := range model.ActiveTripStatuses {
			k.ActiveTripCount += tc[s]
		}
		now := uc.now().In(uc.loc)
		from, to := monthRange(now.Year(), now.Month(), uc.loc)
		k.FuelCostThisMonth, err = q.FuelCostBetween(ctx, from, to)
		if err != nil {
			return fmt.Errorf("fuel cost: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fleet KPIs: %w", err)
	}
	return k, nil
}

// FuelCostForMonth returns the cost of fuel logs which are dated in
// the y-m month.
func (uc *UseCase) FuelCostForMonth(
	ctx context.Context, y int, m time.Month,
) (cost float64, err error) {
	if m < time.January || m > time.December {
		return 0, cerr.BadRequest(fmt.Errorf("invalid month: %d", m))
	}
	from, to := monthRange(y, m, uc.loc)
	err = uc.query(ctx, func(ctx context.Context, q repo.FinanceConnQueryer) error {
		cost, err = q.FuelCostBetween(ctx, from, to)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("fuel cost: %w", err)
	}
	return cost, nil
}

// GetFinancialReport lists the financials of every vehicle with the
// fleet totals and the profit margin.
func (uc *UseCase) GetFinancialReport(
	ctx context.Context,
) (*model.FinancialReport, error) {
	r := &model.FinancialReport{PerVehicle: []model.VehicleFinancials{}}
	err := uc.query(ctx, func(ctx context.Context, q repo.FinanceConnQueryer) error {
		ls, err := q.VehicleLedgers(ctx)
		if err != nil {
			return fmt.Errorf("vehicle ledgers: %w", err)
		}
		revenue, err := q.TotalRevenue(ctx)
		if err != nil {
			return fmt.Errorf("total revenue: %w", err)
		}
		for _, l := range ls {
			r.PerVehicle = append(r.PerVehicle, l.Financials())
		}
		r.Totals = totals(ls, revenue)
		r.ProfitMargin = model.ProfitMargin(r.Totals)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("financial report: %w", err)
	}
	return r, nil
}

// GetMonthlyRollups groups revenue by the creation month of trips,
// fuel costs by the date of fuel logs, and maintenance costs by the
// creation month of records. It also lists the top cost vehicles.
func (uc *UseCase) GetMonthlyRollups(
	ctx context.Context,
) (*model.MonthlyRollups, error) {
	r := &model.MonthlyRollups{}
	err := uc.query(ctx, func(ctx context.Context, q repo.FinanceConnQueryer) error {
		var err error
		r.RevenueByMonth, err = q.RevenueByMonth(ctx, uc.loc)
		if err != nil {
			return fmt.Errorf("revenue by month: %w", err)
		}
		r.FuelCostByMonth, err = q.FuelCostByMonth(ctx, uc.loc)
		if err != nil {
			return fmt.Errorf("fuel cost by month: %w", err)
		}
		r.MaintenanceCostByMonth, err = q.MaintenanceCostByMonth(ctx, uc.loc)
		if err != nil {
			return fmt.Errorf("maintenance cost by month: %w", err)
		}
		ls, err := q.VehicleLedgers(ctx)
		if err != nil {
			return fmt.Errorf("vehicle ledgers: %w", err)
		}
		r.TopCostVehicles = topCost(ls, uc.topCostVehicles)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("monthly rollups: %w", err)
	}
	nonNil(&r.RevenueByMonth)
	nonNil(&r.FuelCostByMonth)
	nonNil(&r.MaintenanceCostByMonth)
	return r, nil
}

// TopCostVehicles returns the n vehicles with the largest operational
// costs, most expensive first.
func (uc *UseCase) TopCostVehicles(
	ctx context.Context, n int,
) (vs []model.VehicleFinancials, err error) {
	if n < 0 {
		return nil, cerr.BadRequest(fmt.Errorf("n (%d) is negative", n))
	}
	err = uc.query(ctx, func(ctx context.Context, q repo.FinanceConnQueryer) error {
		ls, err := q.VehicleLedgers(ctx)
		if err != nil {
			return err
		}
		vs = topCost(ls, n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("top cost vehicles: %w", err)
	}
	return vs, nil
}

func topCost(ls []model.VehicleLedger, n int) []model.VehicleFinancials {
	fs := make([]model.VehicleFinancials, 0, len(ls))
	for _, l := range ls {
		fs = append(fs, l.Financials())
	}
	sort.SliceStable(fs, func(i, j int) bool {
		return fs[i].OperationalCost > fs[j].OperationalCost
	})
	if len(fs) > n {
		fs = fs[:n]
	}
	return fs
}

func nonNil(ms *[]model.MonthlyAmount) {
	if *ms == nil {
		*ms = []model.MonthlyAmount{}
	}
}
