// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer gives integration suites a disposable PostgreSQL
// server. InitSchema prepares it like "db init" would, with the ffweb
// role in place of a pre-existing one.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres"
	"github.com/momeni/fleetflow/pkg/adapter/hash/scram"
	"github.com/momeni/fleetflow/pkg/core/repo"
	"github.com/stretchr/testify/assert"
)

// dbmsVersion is the postgres image tag of the test containers.
const dbmsVersion = "16"

// New starts a postgres container and opens a pool to it as the
// container superuser. Podman works too if DOCKER_HOST points to its
// socket, e.g., unix://$XDG_RUNTIME_DIR/podman/podman.sock.
//
// The timeout bounds the start up phase only. Callers must defer every
// function of dfrs in order, even if ok is false, so that the pool is
// closed before its container is stopped.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(startCtx, dbmsVersion)
	if !assert.NoError(t, err, "failed to start postgres container") {
		return
	}
	dfrs = append(dfrs, func() {
		assert.NoError(t, pg.Shutdown(ctx), "failed to stop container")
	})
	pool, err = dial(startCtx, pg.ConnectionString())
	if !assert.NoError(t, err, "cannot connect to test database") {
		return
	}
	dfrs = append(dfrs, func() {
		assert.NoError(t, pool.Close(), "failed to close the pool")
	})
	return pg, pool, dfrs, true
}

// dial retries NewPool while the server is still starting up or its
// port is not reachable yet, until ctx expires.
func dial(ctx context.Context, url string) (*postgres.Pool, error) {
	for {
		pool, err := postgres.NewPool(ctx, url)
		if err == nil || ctx.Err() != nil || !transient(err) {
			return pool, err
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func transient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "57P03" // cannot_connect_now
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// InitSchema creates the repo.NormalRole with a random password and
// the tables which are granted to it.
func InitSchema(ctx context.Context, pool *postgres.Pool) error {
	return pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			_, err := tx.Exec(ctx, "CREATE ROLE "+string(repo.NormalRole))
			if err != nil {
				return err
			}
			err = postgres.SetRolePassword(
				ctx, tx, repo.NormalRole, uuid.NewString(), scram.SHA256(),
			)
			if err != nil {
				return err
			}
			return postgres.CreateSchema(ctx, tx, repo.NormalRole)
		})
	})
}
