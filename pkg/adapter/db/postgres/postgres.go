// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres is the PostgreSQL adapter of the repositories.
// It wraps a GORM connection pool and provides the Conn and Tx types
// which implement the repo.Conn and repo.Tx interfaces, so the
// repository sub-packages (like tripsrp) may run their queries on
// them. It also creates the database schema and classifies the
// PostgreSQL errors into the cerr error kinds.
package postgres

import (
	"github.com/momeni/fleetflow/pkg/core/model"
)

// These constants represent the major, minor, and patch components of
// the database schema semantic version which is created by the
// CreateSchema function and expected by all repositories.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the latest supported database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}
