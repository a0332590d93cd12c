// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package driversrp implements the repo.Drivers repository on top of
// the PostgreSQL drivers table.
package driversrp

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

func (drivers *Repo) Conn(c repo.Conn) repo.DriversConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) List(ctx context.Context, f model.DriverFilter) ([]model.Driver, error) {
	return List(ctx, cq.Conn, f)
}

type txQueryer struct {
	*postgres.Tx
}

func (drivers *Repo) Tx(tx repo.Tx) repo.DriversTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) List(ctx context.Context, f model.DriverFilter) ([]model.Driver, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) Create(ctx context.Context, d *model.Driver) (*model.Driver, error) {
	return Create(ctx, tq.Tx, d)
}

func (tq txQueryer) Lock(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	return Lock(ctx, tq.Tx, id)
}

func (tq txQueryer) SetStatus(ctx context.Context, id uuid.UUID, s model.DriverStatus) (*model.Driver, error) {
	return SetStatus(ctx, tq.Tx, id, s)
}
