// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tripsuc contains the trips UseCase which drives the trip
// workflow state machine. A transition locks the trip, its vehicle,
// and its driver rows (in this order), checks the resource
// availability and all guards, and applies the resulting Plan and its
// audit log entry in the same transaction. Lost races are retried
// a bounded number of times before they surface as a resource
// conflict. Trips may also be created, fetched, listed, and their
// audit history may be queried.
package tripsuc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/log"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/repo"
)

// UseCase represents a trips use case. It holds a database connection
// pool and the repositories of trips and the resources they hold.
type UseCase struct {
	pool     repo.Pool
	trips    repo.Trips
	vehicles repo.Vehicles
	drivers  repo.Drivers

	now         func() time.Time
	maxAttempts int
	observers   []Observer
}

// Observer is notified of every finished transition attempt. The err
// is nil if the transition was committed.
type Observer func(requested model.TripStatus, err error)

// New instantiates a trips use case.
// Required parameters are passed individually, while optional ones
// are passed as functional options.
func New(
	p repo.Pool,
	t repo.Trips,
	v repo.Vehicles,
	d repo.Drivers,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, trips: t, vehicles: v, drivers: d}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.maxAttempts == 0 {
		uc.maxAttempts = 3
	}
	return uc, nil
}

// Transition moves the tripID trip to the requested status on behalf
// of the actor, returning the updated trip. Either the status, the
// effects on the vehicle, and one activity log entry are all committed
// or nothing is changed.
func (uc *UseCase) Transition(
	ctx context.Context,
	tripID uuid.UUID,
	requested model.TripStatus,
	actor model.Actor,
) (*model.Trip, error) {
	var trip *model.Trip
	err := repo.Atomically(
		ctx, uc.pool, uc.maxAttempts,
		func(ctx context.Context, tx repo.Tx) error {
			t, err := uc.transition(ctx, tx, tripID, requested, actor)
			trip = t
			return err
		},
	)
	for _, o := range uc.observers {
		o(requested, err)
	}
	if err != nil {
		log.Info(
			ctx, "trip transition was rejected",
			log.UUID("trip", tripID),
			log.Valuer("actor", actor),
			log.Err("err", err),
		)
		return nil, fmt.Errorf("transition: %w", err)
	}
	log.Info(
		ctx, "trip transition was applied",
		log.UUID("trip", tripID),
		log.Stringer("status", requested),
		log.Valuer("actor", actor),
	)
	return trip, nil
}

func (uc *UseCase) transition(
	ctx context.Context,
	tx repo.Tx,
	tripID uuid.UUID,
	requested model.TripStatus,
	actor model.Actor,
) (*model.Trip, error) {
	tq := uc.trips.Tx(tx)
	t, err := tq.Lock(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("locking trip: %w", err)
	}
	f := Facts{Trip: t, Actor: actor, Now: uc.now()}
	if t.VehicleID != nil {
		f.Vehicle, err = uc.vehicles.Tx(tx).Lock(ctx, *t.VehicleID)
		if err != nil {
			return nil, fmt.Errorf("locking vehicle: %w", err)
		}
	}
	if t.DriverID != nil {
		f.Driver, err = uc.drivers.Tx(tx).Lock(ctx, *t.DriverID)
		if err != nil {
			return nil, fmt.Errorf("locking driver: %w", err)
		}
	}
	if requested == model.TripStatusDispatched &&
		f.Vehicle != nil && f.Driver != nil {
		f.VehicleBusy, err = tq.IsVehicleBusy(ctx, f.Vehicle.ID, t.ID)
		if err != nil {
			return nil, fmt.Errorf("checking vehicle: %w", err)
		}
		f.DriverBusy, err = tq.IsDriverBusy(ctx, f.Driver.ID, t.ID)
		if err != nil {
			return nil, fmt.Errorf("checking driver: %w", err)
		}
	}
	plan, err := Evaluate(requested, f)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, tx, f, plan)
}

// apply writes the plan effects. It must be called in the transaction
// which has collected the f facts.
func (uc *UseCase) apply(
	ctx context.Context, tx repo.Tx, f Facts, plan *Plan,
) (*model.Trip, error) {
	if v := f.Vehicle; v != nil &&
		plan.VehicleStatus != model.VehicleStatusInvalid &&
		plan.VehicleStatus != v.Status {
		_, err := uc.vehicles.Tx(tx).SetStatus(ctx, v.ID, plan.VehicleStatus)
		if err != nil {
			return nil, fmt.Errorf("updating vehicle status: %w", err)
		}
	}
	t := *f.Trip
	t.Status = plan.To
	if plan.StartOdometer != nil {
		t.StartOdometer = plan.StartOdometer
	}
	if plan.EndOdometer != nil {
		t.EndOdometer = plan.EndOdometer
	}
	t.UpdatedAt = f.Now
	tq := uc.trips.Tx(tx)
	updated, err := tq.Update(ctx, &t)
	if err != nil {
		return nil, fmt.Errorf("updating trip: %w", err)
	}
	_, err = tq.AppendActivity(ctx, &model.ActivityLog{
		TripID:      t.ID,
		Action:      plan.Activity,
		PerformedBy: f.Actor.ID,
		Timestamp:   f.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("appending activity: %w", err)
	}
	return updated, nil
}

// CreateTrip creates a DRAFT trip on behalf of a dispatcher or a fleet
// manager. The referenced vehicle and driver (if any) must exist, but
// they are neither locked nor checked for availability until the trip
// is dispatched.
func (uc *UseCase) CreateTrip(
	ctx context.Context, t model.Trip, actor model.Actor,
) (trip *model.Trip, err error) {
	if !actor.Role.In(model.RoleDispatcher, model.RoleFleetManager) {
		return nil, cerr.Unauthorized(fmt.Errorf(
			"actor %s may not create trips", actor.ID,
		))
	}
	if err = validateNewTrip(&t); err != nil {
		return nil, cerr.BadRequest(err)
	}
	t.ID = uuid.Nil
	t.Status = model.TripStatusDraft
	t.StartOdometer, t.EndOdometer = nil, nil
	t.CreatedBy = actor.ID
	t.CreatedAt = uc.now()
	err = repo.Atomically(ctx, uc.pool, uc.maxAttempts, func(
		ctx context.Context, tx repo.Tx,
	) error {
		if t.VehicleID != nil {
			_, err := uc.vehicles.Tx(tx).Get(ctx, *t.VehicleID)
			if err != nil {
				return fmt.Errorf("vehicle: %w", err)
			}
		}
		if t.DriverID != nil {
			_, err := uc.drivers.Tx(tx).Get(ctx, *t.DriverID)
			if err != nil {
				return fmt.Errorf("driver: %w", err)
			}
		}
		created, err := uc.trips.Tx(tx).Create(ctx, &t)
		trip = created
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating trip: %w", err)
	}
	log.Info(
		ctx, "trip was created",
		log.UUID("trip", trip.ID),
		log.Valuer("actor", actor),
	)
	return trip, nil
}

func validateNewTrip(t *model.Trip) error {
	var errs []error
	if t.Title == "" {
		errs = append(errs, errors.New("title is empty"))
	}
	if t.CargoWeight < 0 {
		errs = append(errs, errors.New("cargo weight is negative"))
	}
	if t.Revenue < 0 {
		errs = append(errs, errors.New("revenue is negative"))
	}
	if t.EstimatedFuelCost < 0 {
		errs = append(errs, errors.New("estimated fuel cost is negative"))
	}
	if t.Priority == model.PriorityInvalid {
		t.Priority = model.PriorityMedium
	} else if err := t.Priority.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Get returns the id trip.
func (uc *UseCase) Get(ctx context.Context, id uuid.UUID) (t *model.Trip, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		t, err = uc.trips.Conn(c).Get(ctx, id)
		return err
	})
	if err != nil {
		t = nil
	}
	return
}

// List returns the trips which match f, oldest first.
func (uc *UseCase) List(ctx context.Context, f model.TripFilter) (ts []model.Trip, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ts, err = uc.trips.Conn(c).List(ctx, f)
		return err
	})
	if err != nil {
		ts = nil
	}
	return
}

// History returns the audit log entries of the tripID trip, oldest
// first. It fails with a not found error if the trip does not exist.
func (uc *UseCase) History(ctx context.Context, tripID uuid.UUID) (as []model.ActivityLog, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.trips.Conn(c)
		if _, err := q.Get(ctx, tripID); err != nil {
			return err
		}
		as, err = q.History(ctx, tripID)
		return err
	})
	if err != nil {
		log.Debug(ctx, "history query failed", log.UUID("trip", tripID))
		as = nil
	}
	return
}
