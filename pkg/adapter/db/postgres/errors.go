// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"gorm.io/gorm"
)

// PostgreSQL error codes which are classified by Classify.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeCheckViolation       = "23514"
	CodeCannotConnectNow     = "57P03"
)

// Classify wraps err with a cerr kind if it is caused by a PostgreSQL
// error which has a domain meaning. Errors which already carry a kind
// and unknown errors are returned intact.
//
// Serialization failures, deadlocks, and violations of the active
// trips exclusivity indexes are retryable because another transaction
// won a race. Violation of the open maintenance index means that the
// vehicle has an open record. Other unique violations are conflicts.
func Classify(err error) error {
	if err == nil || cerr.KindOf(err) != cerr.KindInternal {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cerr.NotFound(err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case CodeSerializationFailure, CodeDeadlockDetected:
		return cerr.Retryable(err)
	case CodeUniqueViolation:
		switch pgErr.ConstraintName {
		case IndexActiveTripVehicle, IndexActiveTripDriver:
			return cerr.Retryable(err)
		case IndexOpenMaintenance:
			return cerr.ActiveRecordExists(err)
		}
		return cerr.Conflict(err)
	case CodeForeignKeyViolation:
		return cerr.NotFound(err)
	case CodeCheckViolation:
		return cerr.BadRequest(err)
	}
	return err
}
