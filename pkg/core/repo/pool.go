// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo contains the Entity Store interfaces. Use cases depend
// on these interfaces while adapters (such as the postgres package and
// its *rp sub-packages) implement them. Each per-entity repository
// exposes a Conn and a Tx method, so read-only queries may run on a
// plain connection while mutations and row locks are only reachable
// from within a transaction.
package repo

import "context"

// ConnHandler is a function which is called with an acquired Conn.
// The connection is released as soon as the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool is a database connections pool.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}
