// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fueluc contains the fuel UseCase which records refuelling
// logs. The odometer reading of each log may not be less than the
// current odometer of its vehicle, and a larger reading advances it.
package fueluc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/log"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/repo"
)

// maxAttempts is the number of times that a fuel log is tried to be
// recorded before reporting a cerr.KindResourceConflict error.
const maxAttempts = 3

// UseCase represents a fuel use case.
type UseCase struct {
	pool     repo.Pool
	fuel     repo.Fuel
	vehicles repo.Vehicles
	trips    repo.Trips

	now func() time.Time
}

// New instantiates a fuel use case. The now function provides the
// date of logs which are recorded without one; it defaults to
// time.Now when nil.
func New(
	p repo.Pool,
	f repo.Fuel,
	v repo.Vehicles,
	t repo.Trips,
	now func() time.Time,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{pool: p, fuel: f, vehicles: v, trips: t, now: now}
}

// RecordFuel stores the fl fuel log. The vehicle row is locked while
// its odometer is compared and advanced, so concurrent logs of one
// vehicle are serialized. If fl refers to a trip, that trip must be
// assigned to the same vehicle. Transactions which lose a race are
// repeated, and if they keep losing, cerr.KindResourceConflict is
// returned.
func (uc *UseCase) RecordFuel(
	ctx context.Context, fl model.FuelLog,
) (created *model.FuelLog, err error) {
	if err = validate(&fl); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if fl.Date.IsZero() {
		fl.Date = uc.now()
	}
	err = repo.Atomically(ctx, uc.pool, maxAttempts, func(
		ctx context.Context, tx repo.Tx,
	) error {
		if fl.TripID != nil {
			t, err := uc.trips.Tx(tx).Get(ctx, *fl.TripID)
			if err != nil {
				return fmt.Errorf("trip: %w", err)
			}
			if t.VehicleID == nil || *t.VehicleID != fl.VehicleID {
				return cerr.BadRequest(fmt.Errorf(
					"trip %s is not assigned to vehicle %s",
					t.ID, fl.VehicleID,
				))
			}
		}
		vq := uc.vehicles.Tx(tx)
		v, err := vq.Lock(ctx, fl.VehicleID)
		if err != nil {
			return fmt.Errorf("locking vehicle: %w", err)
		}
		if fl.OdometerReading < v.Odometer {
			return cerr.OdometerRegression(fmt.Errorf(
				"reading %g is below odometer %g of vehicle %s",
				fl.OdometerReading, v.Odometer, v.ID,
			))
		}
		created, err = uc.fuel.Tx(tx).Create(ctx, &fl)
		if err != nil {
			return fmt.Errorf("creating fuel log: %w", err)
		}
		if fl.OdometerReading > v.Odometer {
			_, err = vq.AdvanceOdometer(ctx, v.ID, fl.OdometerReading)
			if err != nil {
				return fmt.Errorf("advancing odometer: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recording fuel: %w", err)
	}
	log.Debug(
		ctx, "fuel log was recorded",
		log.UUID("vehicle", fl.VehicleID),
		slog.Float64("odometer", fl.OdometerReading),
	)
	return created, nil
}

func validate(fl *model.FuelLog) error {
	var errs []error
	if fl.Liters <= 0 {
		errs = append(errs, fmt.Errorf("liters (%g) is not positive", fl.Liters))
	}
	if fl.Cost < 0 {
		errs = append(errs, fmt.Errorf("cost (%g) is negative", fl.Cost))
	}
	if fl.OdometerReading < 0 {
		errs = append(errs, errors.New("odometer reading is negative"))
	}
	return errors.Join(errs...)
}

// List returns the fuel logs which match f.
func (uc *UseCase) List(
	ctx context.Context, f model.FuelFilter,
) (fs []model.FuelLog, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		fs, err = uc.fuel.Conn(c).List(ctx, f)
		return err
	})
	if err != nil {
		fs = nil
	}
	return
}
