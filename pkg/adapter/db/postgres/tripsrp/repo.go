// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tripsrp implements the repo.Trips repository on top of the
// PostgreSQL trips and activity_logs tables.
package tripsrp

import (
	"context"

	"github.com/google/uuid"
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

func (trips *Repo) Conn(c repo.Conn) repo.TripsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) List(ctx context.Context, f model.TripFilter) ([]model.Trip, error) {
	return List(ctx, cq.Conn, f)
}

func (cq connQueryer) History(ctx context.Context, tripID uuid.UUID) ([]model.ActivityLog, error) {
	return History(ctx, cq.Conn, tripID)
}

func (cq connQueryer) IsVehicleBusy(ctx context.Context, vehicleID, excludingTripID uuid.UUID) (bool, error) {
	return IsVehicleBusy(ctx, cq.Conn, vehicleID, excludingTripID)
}

func (cq connQueryer) IsDriverBusy(ctx context.Context, driverID, excludingTripID uuid.UUID) (bool, error) {
	return IsDriverBusy(ctx, cq.Conn, driverID, excludingTripID)
}

type txQueryer struct {
	*postgres.Tx
}

func (trips *Repo) Tx(tx repo.Tx) repo.TripsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) List(ctx context.Context, f model.TripFilter) ([]model.Trip, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) History(ctx context.Context, tripID uuid.UUID) ([]model.ActivityLog, error) {
	return History(ctx, tq.Tx, tripID)
}

func (tq txQueryer) IsVehicleBusy(ctx context.Context, vehicleID, excludingTripID uuid.UUID) (bool, error) {
	return IsVehicleBusy(ctx, tq.Tx, vehicleID, excludingTripID)
}

func (tq txQueryer) IsDriverBusy(ctx context.Context, driverID, excludingTripID uuid.UUID) (bool, error) {
	return IsDriverBusy(ctx, tq.Tx, driverID, excludingTripID)
}

func (tq txQueryer) Create(ctx context.Context, t *model.Trip) (*model.Trip, error) {
	return Create(ctx, tq.Tx, t)
}

func (tq txQueryer) Lock(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	return Lock(ctx, tq.Tx, id)
}

func (tq txQueryer) Update(ctx context.Context, t *model.Trip) (*model.Trip, error) {
	return Update(ctx, tq.Tx, t)
}

func (tq txQueryer) AppendActivity(ctx context.Context, a *model.ActivityLog) (*model.ActivityLog, error) {
	return AppendActivity(ctx, tq.Tx, a)
}
