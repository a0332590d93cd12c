// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/log"
)

// Atomically runs handler in a fresh transaction of a connection from
// the p pool. When the transaction fails with a cerr.KindRetryable
// error (a lost write-write race), the whole unit is repeated, up to
// maxAttempts times in total. If all attempts fail that way, a
// cerr.KindResourceConflict error is returned which keeps the message
// of the last attempt but does not wrap it, so it is not retried by
// an outer Atomically call. Other errors are returned as is, after
// the first failed attempt.
func Atomically(
	ctx context.Context, p Pool, maxAttempts int, handler TxHandler,
) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = p.Conn(ctx, func(ctx context.Context, c Conn) error {
			return c.Tx(ctx, handler)
		})
		if err == nil || !errors.Is(err, cerr.KindRetryable) {
			return err
		}
		log.Warn(
			ctx, "transaction lost a race",
			slog.Int("attempt", attempt),
			log.Err("err", err),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("retrying: %w", ctxErr)
		}
	}
	return cerr.ResourceConflict(fmt.Errorf(
		"gave up after %d attempts: %v", maxAttempts, err,
	))
}
