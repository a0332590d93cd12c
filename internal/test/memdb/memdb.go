// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memdb is an internal helper for the test packages.
// It provides an in-memory implementation of the repo.Pool interface
// and all per-entity repositories, so use cases may be unit tested
// without a PostgreSQL server.
//
// Transactions are serialized by one store-wide mutex. Each transaction
// works on a copy of all tables which replaces the committed tables
// only if its handler returns nil, hence, a failed handler leaves no
// trace behind.
package memdb

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/repo"
)

type tables struct {
	vehicles    map[uuid.UUID]model.Vehicle
	vehicleIDs  []uuid.UUID
	drivers     map[uuid.UUID]model.Driver
	driverIDs   []uuid.UUID
	trips       map[uuid.UUID]model.Trip
	tripIDs     []uuid.UUID
	maintenance map[uuid.UUID]model.MaintenanceLog
	mlogIDs     []uuid.UUID
	fuel        []model.FuelLog
	activities  []model.ActivityLog
}

func newTables() *tables {
	return &tables{
		vehicles:    make(map[uuid.UUID]model.Vehicle),
		drivers:     make(map[uuid.UUID]model.Driver),
		trips:       make(map[uuid.UUID]model.Trip),
		maintenance: make(map[uuid.UUID]model.MaintenanceLog),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		vehicles:    maps.Clone(t.vehicles),
		vehicleIDs:  slices.Clone(t.vehicleIDs),
		drivers:     maps.Clone(t.drivers),
		driverIDs:   slices.Clone(t.driverIDs),
		trips:       maps.Clone(t.trips),
		tripIDs:     slices.Clone(t.tripIDs),
		maintenance: maps.Clone(t.maintenance),
		mlogIDs:     slices.Clone(t.mlogIDs),
		fuel:        slices.Clone(t.fuel),
		activities:  slices.Clone(t.activities),
	}
}

// Store is an in-memory entity store. It implements repo.Pool.
type Store struct {
	mu   sync.Mutex
	data *tables

	// Now returns the creation timestamps of new rows.
	Now func() time.Time

	// LoseRaces is the number of upcoming transactions which fail with
	// a cerr.KindRetryable error, without running their handlers, as
	// if they had lost a serialization race.
	LoseRaces int
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: newTables(), Now: time.Now}
}

// Conn calls handler with a connection to the s store.
func (s *Store) Conn(ctx context.Context, handler repo.ConnHandler) error {
	return handler(ctx, &Conn{s: s})
}

func (s *Store) view(f func(*tables) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(s.data)
}

// Conn is a connection to a Store. Its queries observe the committed
// tables, each one atomically.
type Conn struct {
	s *Store
}

// Tx runs handler in a transaction. Transactions of a Store do not
// overlap, so a handler may not start a nested transaction.
func (c *Conn) Tx(ctx context.Context, handler repo.TxHandler) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.LoseRaces > 0 {
		c.s.LoseRaces--
		return cerr.Retryable(errors.New("could not serialize access"))
	}
	tx := &Tx{t: c.s.data.clone(), now: c.s.Now}
	if err := handler(ctx, tx); err != nil {
		return fmt.Errorf("handler: %w", err)
	}
	c.s.data = tx.t
	return nil
}

// Exec is not supported by the in-memory store.
func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.ErrUnsupported
}

func (c *Conn) IsConn() {
}

func (c *Conn) view(f func(*tables) error) error {
	return c.s.view(f)
}

func (c *Conn) clock() time.Time {
	return c.s.Now()
}

// Tx is a transaction of a Store which works on a private copy of its
// tables until it is committed.
type Tx struct {
	t   *tables
	now func() time.Time
}

// Exec is not supported by the in-memory store.
func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.ErrUnsupported
}

func (tx *Tx) IsTx() {
}

func (tx *Tx) view(f func(*tables) error) error {
	return f(tx.t)
}

func (tx *Tx) clock() time.Time {
	return tx.now()
}

// viewer is implemented by Conn and Tx, so repositories can share one
// implementation of their read-only queries.
type viewer interface {
	view(func(*tables) error) error
	clock() time.Time
}

func viewerOf(q any) viewer {
	switch qq := q.(type) {
	case *Conn:
		return qq
	case *Tx:
		return qq
	default:
		panic(fmt.Sprintf("memdb: unexpected queryer %T", q))
	}
}
