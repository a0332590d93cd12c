// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vehiclesrp implements the repo.Vehicles repository on top
// of the PostgreSQL vehicles table.
package vehiclesrp

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

func (vehicles *Repo) Conn(c repo.Conn) repo.VehiclesConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) List(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	return List(ctx, cq.Conn, f)
}

type txQueryer struct {
	*postgres.Tx
}

func (vehicles *Repo) Tx(tx repo.Tx) repo.VehiclesTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) List(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) Create(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error) {
	return Create(ctx, tq.Tx, v)
}

func (tq txQueryer) Lock(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return Lock(ctx, tq.Tx, id)
}

func (tq txQueryer) SetStatus(ctx context.Context, id uuid.UUID, s model.VehicleStatus) (*model.Vehicle, error) {
	return SetStatus(ctx, tq.Tx, id, s)
}

func (tq txQueryer) AdvanceOdometer(ctx context.Context, id uuid.UUID, reading float64) (*model.Vehicle, error) {
	return AdvanceOdometer(ctx, tq.Tx, id, reading)
}

func (tq txQueryer) Retire(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return Retire(ctx, tq.Tx, id)
}
