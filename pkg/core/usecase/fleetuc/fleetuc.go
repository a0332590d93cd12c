// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fleetuc contains the fleet UseCase which registers, lists,
// and retires vehicles and registers and lists drivers. Role checks
// of these operations are performed by the callers.
package fleetuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/log"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/repo"
)

// UseCase represents a fleet registry use case.
type UseCase struct {
	pool     repo.Pool
	vehicles repo.Vehicles
	drivers  repo.Drivers
	trips    repo.Trips
}

// New instantiates a fleet use case.
func New(
	p repo.Pool, v repo.Vehicles, d repo.Drivers, t repo.Trips,
) *UseCase {
	return &UseCase{pool: p, vehicles: v, drivers: d, trips: t}
}

// maxAttempts is the number of times that a write transaction is
// tried before reporting a cerr.KindResourceConflict error.
const maxAttempts = 3

func (uc *UseCase) inTx(ctx context.Context, h repo.TxHandler) error {
	return repo.Atomically(ctx, uc.pool, maxAttempts, h)
}

// RegisterVehicle stores a new AVAILABLE vehicle. A taken license
// plate fails with cerr.KindConflict.
func (uc *UseCase) RegisterVehicle(
	ctx context.Context, v model.Vehicle,
) (created *model.Vehicle, err error) {
	var errs []error
	if v.LicensePlate == "" {
		errs = append(errs, errors.New("license plate is empty"))
	}
	if err := v.Type.Validate(); err != nil {
		errs = append(errs, err)
	}
	if v.MaxCapacity < 0 || v.AcquisitionCost < 0 || v.Odometer < 0 {
		errs = append(errs, errors.New("negative capacity, cost, or odometer"))
	}
	if err = errors.Join(errs...); err != nil {
		return nil, cerr.BadRequest(err)
	}
	v.ID = uuid.Nil
	v.Status = model.VehicleStatusAvailable
	v.Retired = false
	err = uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		created, err = uc.vehicles.Tx(tx).Create(ctx, &v)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("registering vehicle: %w", err)
	}
	log.Info(ctx, "vehicle was registered", log.UUID("vehicle", created.ID))
	return created, nil
}

// RetireVehicle marks the id vehicle as retired. A vehicle which is
// held by an active trip may not be retired.
func (uc *UseCase) RetireVehicle(
	ctx context.Context, id uuid.UUID,
) (v *model.Vehicle, err error) {
	err = uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		vq := uc.vehicles.Tx(tx)
		if _, err := vq.Lock(ctx, id); err != nil {
			return fmt.Errorf("locking vehicle: %w", err)
		}
		busy, err := uc.trips.Tx(tx).IsVehicleBusy(ctx, id, uuid.Nil)
		if err != nil {
			return fmt.Errorf("checking trips: %w", err)
		}
		if busy {
			return cerr.ResourceConflict(fmt.Errorf(
				"vehicle %s is used by an active trip", id,
			))
		}
		v, err = vq.Retire(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("retiring vehicle: %w", err)
	}
	log.Info(ctx, "vehicle was retired", log.UUID("vehicle", id))
	return v, nil
}

// ListVehicles returns the vehicles which match f.
func (uc *UseCase) ListVehicles(
	ctx context.Context, f model.VehicleFilter,
) (vs []model.Vehicle, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		vs, err = uc.vehicles.Conn(c).List(ctx, f)
		return err
	})
	if err != nil {
		vs = nil
	}
	return
}

// RegisterDriver stores a new driver. Each actor may be linked to one
// driver and a second link fails with cerr.KindConflict. Drivers are
// ON_DUTY unless another status is given.
func (uc *UseCase) RegisterDriver(
	ctx context.Context, d model.Driver,
) (created *model.Driver, err error) {
	var errs []error
	if d.ActorID == uuid.Nil {
		errs = append(errs, errors.New("actor id is missing"))
	}
	if d.LicenseExpiry.IsZero() {
		errs = append(errs, errors.New("license expiry is missing"))
	}
	if d.Status == model.DriverStatusInvalid {
		d.Status = model.DriverStatusOnDuty
	} else if err := d.Status.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err = errors.Join(errs...); err != nil {
		return nil, cerr.BadRequest(err)
	}
	d.ID = uuid.Nil
	err = uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		created, err = uc.drivers.Tx(tx).Create(ctx, &d)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("registering driver: %w", err)
	}
	log.Info(ctx, "driver was registered", log.UUID("driver", created.ID))
	return created, nil
}

// ListDrivers returns the drivers which match f.
func (uc *UseCase) ListDrivers(
	ctx context.Context, f model.DriverFilter,
) (ds []model.Driver, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ds, err = uc.drivers.Conn(c).List(ctx, f)
		return err
	})
	if err != nil {
		ds = nil
	}
	return
}

// SetDriverStatus changes the duty status of the id driver. The
// driver row is locked, so it does not interleave with a dispatch of
// that driver.
func (uc *UseCase) SetDriverStatus(
	ctx context.Context, id uuid.UUID, s model.DriverStatus,
) (d *model.Driver, err error) {
	if err = s.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		dq := uc.drivers.Tx(tx)
		if _, err := dq.Lock(ctx, id); err != nil {
			return fmt.Errorf("locking driver: %w", err)
		}
		d, err = dq.SetStatus(ctx, id, s)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("setting driver status: %w", err)
	}
	log.Info(
		ctx, "driver status was changed",
		log.UUID("driver", id),
		log.Stringer("status", s),
	)
	return d, nil
}
