// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/repo"
)

// Finance implements repo.Finance for a Store.
type Finance struct{}

func (Finance) Conn(c repo.Conn) repo.FinanceConnQueryer {
	return finance{viewerOf(c)}
}

type finance struct {
	v viewer
}

func (q finance) VehicleLedgers(context.Context) (ls []model.VehicleLedger, err error) {
	err = q.v.view(func(tt *tables) error {
		idx := make(map[uuid.UUID]int, len(tt.vehicleIDs))
		for _, id := range tt.vehicleIDs {
			v := tt.vehicles[id]
			idx[id] = len(ls)
			ls = append(ls, model.VehicleLedger{
				VehicleID:       v.ID,
				Name:            v.Name,
				LicensePlate:    v.LicensePlate,
				AcquisitionCost: v.AcquisitionCost,
			})
		}
		for _, f := range tt.fuel {
			if i, ok := idx[f.VehicleID]; ok {
				ls[i].FuelCost += f.Cost
			}
		}
		for _, id := range tt.mlogIDs {
			m := tt.maintenance[id]
			if i, ok := idx[m.VehicleID]; ok {
				ls[i].MaintenanceCost += m.Cost
			}
		}
		for _, id := range tt.tripIDs {
			t := tt.trips[id]
			if t.VehicleID == nil {
				continue
			}
			if i, ok := idx[*t.VehicleID]; ok {
				ls[i].Revenue += t.Revenue
			}
		}
		return nil
	})
	return
}

func (q finance) TotalRevenue(context.Context) (total float64, err error) {
	err = q.v.view(func(tt *tables) error {
		for _, t := range tt.trips {
			total += t.Revenue
		}
		return nil
	})
	return
}

func (q finance) VehicleStatusCounts(context.Context) (m map[model.VehicleStatus]int, err error) {
	m = make(map[model.VehicleStatus]int)
	err = q.v.view(func(tt *tables) error {
		for _, v := range tt.vehicles {
			m[v.Status]++
		}
		return nil
	})
	return
}

func (q finance) TripStatusCounts(context.Context) (m map[model.TripStatus]int, err error) {
	m = make(map[model.TripStatus]int)
	err = q.v.view(func(tt *tables) error {
		for _, t := range tt.trips {
			m[t.Status]++
		}
		return nil
	})
	return
}

func (q finance) FuelCostBetween(_ context.Context, from, to time.Time) (total float64, err error) {
	err = q.v.view(func(tt *tables) error {
		for _, f := range tt.fuel {
			if !f.Date.Before(from) && f.Date.Before(to) {
				total += f.Cost
			}
		}
		return nil
	})
	return
}

func (q finance) RevenueByMonth(_ context.Context, loc *time.Location) (ms []model.MonthlyAmount, err error) {
	err = q.v.view(func(tt *tables) error {
		b := buckets{}
		for _, id := range tt.tripIDs {
			t := tt.trips[id]
			b.add(t.CreatedAt.In(loc), t.Revenue)
		}
		ms = b.sorted()
		return nil
	})
	return
}

func (q finance) FuelCostByMonth(_ context.Context, loc *time.Location) (ms []model.MonthlyAmount, err error) {
	err = q.v.view(func(tt *tables) error {
		b := buckets{}
		for _, f := range tt.fuel {
			b.add(f.Date.In(loc), f.Cost)
		}
		ms = b.sorted()
		return nil
	})
	return
}

func (q finance) MaintenanceCostByMonth(_ context.Context, loc *time.Location) (ms []model.MonthlyAmount, err error) {
	err = q.v.view(func(tt *tables) error {
		b := buckets{}
		for _, id := range tt.mlogIDs {
			m := tt.maintenance[id]
			b.add(m.CreatedAt.In(loc), m.Cost)
		}
		ms = b.sorted()
		return nil
	})
	return
}

type buckets map[model.Month]float64

func (b buckets) add(t time.Time, amount float64) {
	b[model.MonthOf(t)] += amount
}

func (b buckets) sorted() []model.MonthlyAmount {
	ms := make([]model.MonthlyAmount, 0, len(b))
	for m, a := range b {
		ms = append(ms, model.MonthlyAmount{Month: m, Amount: a})
	}
	model.SortMonthly(ms)
	return ms
}
