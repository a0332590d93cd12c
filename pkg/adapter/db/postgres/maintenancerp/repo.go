// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package maintenancerp implements the repo.Maintenance repository on
// top of the PostgreSQL maintenance_logs table.
package maintenancerp

import (
	"context"
	"time"

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

func (mr *Repo) Conn(c repo.Conn) repo.MaintenanceConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, id uuid.UUID) (*model.MaintenanceLog, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) List(ctx context.Context, f model.MaintenanceFilter) ([]model.MaintenanceLog, error) {
	return List(ctx, cq.Conn, f)
}

type txQueryer struct {
	*postgres.Tx
}

func (mr *Repo) Tx(tx repo.Tx) repo.MaintenanceTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, id uuid.UUID) (*model.MaintenanceLog, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) List(ctx context.Context, f model.MaintenanceFilter) ([]model.MaintenanceLog, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) Create(ctx context.Context, m *model.MaintenanceLog) (*model.MaintenanceLog, error) {
	return Create(ctx, tq.Tx, m)
}

func (tq txQueryer) Lock(ctx context.Context, id uuid.UUID) (*model.MaintenanceLog, error) {
	return Lock(ctx, tq.Tx, id)
}

func (tq txQueryer) Close(ctx context.Context, id uuid.UUID, at time.Time) (*model.MaintenanceLog, error) {
	return Close(ctx, tq.Tx, id, at)
}

func (tq txQueryer) HasOpen(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	return HasOpen(ctx, tq.Tx, vehicleID)
}
