// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a string specifying a database connection role. Each role
// has a set of granted privileges which indicates which operations
// may be performed after using it for connecting to a database.
//
// The pkg/adapter/config.Database.ConnectionPool method needs one Role in order
// to connect to a database. Its identification information are taken
// from the configuration file and its password is read from the pgpass
// file of that role.
type Role string

// These constants specify the expected database roles. Both roles must
// exist beforehand. The AdminRole owns the database, so it can create
// the schema and grant its privileges to the NormalRole during the
// "db init" command.
const (
	// AdminRole creates the tables and their indexes.
	// It is not used while serving requests.
	AdminRole Role = "admin"

	// NormalRole is the unprivileged role which serves all use cases.
	// It may read and write rows, but may not change the schema.
	NormalRole Role = "ffweb"
)
