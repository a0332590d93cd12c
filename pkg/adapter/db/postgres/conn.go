// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/fleetflow/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn represents a dedicated database connection. It is unsafe to
// be used concurrently. Statements may run directly on it, or in one
// of its transactions which are started by the Tx method.
type Conn struct {
	*gorm.DB
}

type TxHandler = repo.TxHandler

// Tx begins a READ-COMMITTED transaction and passes it to f. The
// transaction is committed if f returns nil and is rolled back if it
// returns an error or panics. Errors of f are classified by Classify
// before being returned, so unique violations and serialization
// failures may be detected with their cerr kinds.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	tx := c.DB.WithContext(ctx).Begin()
	if err = tx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = tx.Rollback().Error
			if err == nil {
				err = fmt.Errorf("panicked: %v", r)
				return
			}
			err = fmt.Errorf("panicked: %v, rollback: %w", r, err)
			return
		}
		if err != nil {
			err = Classify(err)
			if err2 := tx.Rollback().Error; err2 != nil {
				err = fmt.Errorf("handler: %w, rollback: %w", err, err2)
				return
			}
			err = fmt.Errorf("handler: %w", err)
			return
		}
		err = tx.Commit().Error
		if err != nil {
			err = fmt.Errorf("commit: %w", Classify(err))
		}
	}()
	tt := &Tx{DB: tx}
	return f(ctx, tt)
}

// Exec runs sql on c outside of any transaction.
// See the exec function for the supported placeholders.
func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return exec(c.DB.WithContext(ctx), sql, args...)
}

func (c *Conn) IsConn() {
}

// GORM returns the embedded *gorm.DB instance which uses ctx.
func (c *Conn) GORM(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}
