// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Tx represents a READ-COMMITTED database transaction which is started
// by the Conn.Tx method. It embeds the *gorm.DB, so repository packages
// may use it like GORM (see the Queryer interface).
type Tx struct {
	*gorm.DB
}

// Exec runs sql in tx and returns the number of affected rows.
// See the exec function for the supported placeholders.
func (tx *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return exec(tx.DB.WithContext(ctx), sql, args...)
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the Tx interface.
func (tx *Tx) IsTx() {
}

// GORM returns the embedded *gorm.DB instance, configuring it
// to operate on the given ctx context (in a gorm.Session).
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}

// exec runs sql on db. If args are given, sql must contain exactly one
// statement whose parameters are numbered like $1 or use the ? and
// @name placeholders of GORM. Without args, sql may contain several
// semicolon separated statements. Errors are classified, so a failing
// DDL or DML statement reports the same cerr kinds as the repositories.
func exec(db *gorm.DB, sql string, args ...any) (int64, error) {
	db = db.Exec(sql, args...)
	if err := db.Error; err != nil {
		return 0, Classify(err)
	}
	return db.RowsAffected, nil
}
