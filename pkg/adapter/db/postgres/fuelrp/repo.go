// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fuelrp implements the repo.Fuel repository on top of the
// PostgreSQL fuel_logs table.
package fuelrp

import (
	"context"

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

func (fuel *Repo) Conn(c repo.Conn) repo.FuelConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(ctx context.Context, f model.FuelFilter) ([]model.FuelLog, error) {
	return List(ctx, cq.Conn, f)
}

type txQueryer struct {
	*postgres.Tx
}

func (fuel *Repo) Tx(tx repo.Tx) repo.FuelTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) List(ctx context.Context, f model.FuelFilter) ([]model.FuelLog, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) Create(ctx context.Context, f *model.FuelLog) (*model.FuelLog, error) {
	return Create(ctx, tq.Tx, f)
}
