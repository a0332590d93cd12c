// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package maintenanceuc contains the maintenance UseCase which opens
// and closes the maintenance records of vehicles. A vehicle may have
// at most one OPEN record and it stays in the shop while that record
// is open.
package maintenanceuc

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

// UseCase represents a maintenance use case.
type UseCase struct {
	pool        repo.Pool
	maintenance repo.Maintenance
	vehicles    repo.Vehicles
	trips       repo.Trips

	now         func() time.Time
	maxAttempts int
}

// Option is a functional option for the maintenance use case.
type Option func(uc *UseCase) error

// WithClock option replaces the time.Now function which stamps the
// closed time of records.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}

// WithMaxAttempts option limits the number of attempts of a write
// transaction which loses races to concurrent writers.
func WithMaxAttempts(n int) Option {
	return func(uc *UseCase) error {
		if n < 1 {
			return fmt.Errorf("max attempts (%d) is not positive", n)
		}
		uc.maxAttempts = n
		return nil
	}
}

// New instantiates a maintenance use case.
func New(
	p repo.Pool,
	m repo.Maintenance,
	v repo.Vehicles,
	t repo.Trips,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, maintenance: m, vehicles: v, trips: t}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.maxAttempts == 0 {
		uc.maxAttempts = 3
	}
	return uc, nil
}

// Open creates an OPEN maintenance record for the vehicleID vehicle
// and sends the vehicle to the shop. A retired vehicle keeps its
// status. It fails with cerr.KindActiveRecordExists if the vehicle
// has an OPEN record already.
func (uc *UseCase) Open(
	ctx context.Context,
	vehicleID uuid.UUID,
	description string,
	cost float64,
) (m *model.MaintenanceLog, err error) {
	switch {
	case description == "":
		return nil, cerr.BadRequest(errors.New("description is empty"))
	case cost < 0:
		return nil, cerr.BadRequest(fmt.Errorf("cost (%g) is negative", cost))
	}
	err = repo.Atomically(
		ctx, uc.pool, uc.maxAttempts,
		func(ctx context.Context, tx repo.Tx) error {
			vq := uc.vehicles.Tx(tx)
			v, err := vq.Lock(ctx, vehicleID)
			if err != nil {
				return fmt.Errorf("locking vehicle: %w", err)
			}
			mq := uc.maintenance.Tx(tx)
			open, err := mq.HasOpen(ctx, vehicleID)
			if err != nil {
				return fmt.Errorf("checking open records: %w", err)
			}
			if open {
				return cerr.ActiveRecordExists(fmt.Errorf(
					"vehicle %s has an open maintenance record",
					vehicleID,
				))
			}
			m, err = mq.Create(ctx, &model.MaintenanceLog{
				VehicleID:   vehicleID,
				Description: description,
				Cost:        cost,
				Status:      model.MaintenanceStatusOpen,
				CreatedAt:   uc.now(),
			})
			if err != nil {
				return fmt.Errorf("creating record: %w", err)
			}
			if v.Status == model.VehicleStatusRetired ||
				v.Status == model.VehicleStatusInShop {
				return nil
			}
			_, err = vq.SetStatus(ctx, vehicleID, model.VehicleStatusInShop)
			return err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opening maintenance: %w", err)
	}
	log.Info(
		ctx, "maintenance record was opened",
		log.UUID("record", m.ID),
		log.UUID("vehicle", vehicleID),
	)
	return m, nil
}

// Close closes the recordID maintenance record and takes its vehicle
// out of the shop. The vehicle becomes AVAILABLE, unless it is retired
// (and stays RETIRED) or an active trip holds it (and it becomes
// ON_TRIP). Closing a CLOSED record fails with
// cerr.KindInvalidTransition.
func (uc *UseCase) Close(
	ctx context.Context, recordID uuid.UUID,
) (m *model.MaintenanceLog, err error) {
	err = repo.Atomically(
		ctx, uc.pool, uc.maxAttempts,
		func(ctx context.Context, tx repo.Tx) error {
			mq := uc.maintenance.Tx(tx)
			rec, err := mq.Lock(ctx, recordID)
			if err != nil {
				return fmt.Errorf("locking record: %w", err)
			}
			if rec.Status != model.MaintenanceStatusOpen {
				return cerr.InvalidTransition(fmt.Errorf(
					"maintenance record %s is %s", recordID, rec.Status,
				))
			}
			vq := uc.vehicles.Tx(tx)
			v, err := vq.Lock(ctx, rec.VehicleID)
			if err != nil {
				return fmt.Errorf("locking vehicle: %w", err)
			}
			m, err = mq.Close(ctx, recordID, uc.now())
			if err != nil {
				return fmt.Errorf("closing record: %w", err)
			}
			next, err := uc.statusAfterShop(ctx, tx, v)
			if err != nil {
				return err
			}
			if next == v.Status {
				return nil
			}
			_, err = vq.SetStatus(ctx, v.ID, next)
			return err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("closing maintenance: %w", err)
	}
	log.Info(
		ctx, "maintenance record was closed",
		log.UUID("record", m.ID),
		log.UUID("vehicle", m.VehicleID),
	)
	return m, nil
}

func (uc *UseCase) statusAfterShop(
	ctx context.Context, tx repo.Tx, v *model.Vehicle,
) (model.VehicleStatus, error) {
	if v.Retired || v.Status == model.VehicleStatusRetired {
		return model.VehicleStatusRetired, nil
	}
	busy, err := uc.trips.Tx(tx).IsVehicleBusy(ctx, v.ID, uuid.Nil)
	if err != nil {
		return model.VehicleStatusInvalid, fmt.Errorf("checking trips: %w", err)
	}
	if busy {
		return model.VehicleStatusOnTrip, nil
	}
	return model.VehicleStatusAvailable, nil
}

// List returns the maintenance records which match f, oldest first.
func (uc *UseCase) List(
	ctx context.Context, f model.MaintenanceFilter,
) (ms []model.MaintenanceLog, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ms, err = uc.maintenance.Conn(c).List(ctx, f)
		return err
	})
	if err != nil {
		ms = nil
	}
	return
}
