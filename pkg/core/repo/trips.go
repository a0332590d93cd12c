// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type TripsConnQueryer interface {
	TripsQueryer
}

// TripsTxQueryer adds the mutating and locking queries. Lock takes
// a row lock which is held until the end of the transaction.
type TripsTxQueryer interface {
	TripsQueryer
	Create(ctx context.Context, t *model.Trip) (*model.Trip, error)
	Lock(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	Update(ctx context.Context, t *model.Trip) (*model.Trip, error)
	AppendActivity(ctx context.Context, a *model.ActivityLog) (*model.ActivityLog, error)
}

// TripsQueryer contains the read-only trip queries. The busy checks
// report if another trip (other than the excluded one) is holding the
// given resource, i.e., it is in an active status and refers to it.
type TripsQueryer interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	List(ctx context.Context, f model.TripFilter) ([]model.Trip, error)
	History(ctx context.Context, tripID uuid.UUID) ([]model.ActivityLog, error)
	IsVehicleBusy(ctx context.Context, vehicleID, excludingTripID uuid.UUID) (bool, error)
	IsDriverBusy(ctx context.Context, driverID, excludingTripID uuid.UUID) (bool, error)
}

type Trips interface {
	Conn(Conn) TripsConnQueryer
	Tx(Tx) TripsTxQueryer
}
