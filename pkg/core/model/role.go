// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Role is the closed set of actor roles. Each guard which depends on
// a role switches over all of its values, so adding a new role must be
// followed by a review of those switch statements.
type Role int

// Valid values for the Role enum.
const (
	RoleInvalid Role = iota // zero value is invalid

	RoleFleetManager
	RoleDispatcher
	RoleSafetyOfficer
	RoleFinancialAnalyst
)

// ErrUnknownRole indicates that a string could not be parsed as a
// known role.
var ErrUnknownRole = errors.New("unknown role")

// RoleError indicates an out of range Role value.
type RoleError int

// Error implements the error interface.
func (e RoleError) Error() string {
	return fmt.Sprintf("invalid role: %d", e)
}

// Validate returns nil if r is one of the known roles.
func (r Role) Validate() error {
	switch r {
	case RoleFleetManager, RoleDispatcher,
		RoleSafetyOfficer, RoleFinancialAnalyst:
		return nil
	default:
		return RoleError(r)
	}
}

// String converts the Role enum to its wire representation.
// Invalid roles cause a panic.
func (r Role) String() string {
	switch r {
	case RoleFleetManager:
		return "FLEET_MANAGER"
	case RoleDispatcher:
		return "DISPATCHER"
	case RoleSafetyOfficer:
		return "SAFETY_OFFICER"
	case RoleFinancialAnalyst:
		return "FINANCIAL_ANALYST"
	default:
		panic(RoleError(r))
	}
}

// ParseRole parses the wire representation of a role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "FLEET_MANAGER":
		return RoleFleetManager, nil
	case "DISPATCHER":
		return RoleDispatcher, nil
	case "SAFETY_OFFICER":
		return RoleSafetyOfficer, nil
	case "FINANCIAL_ANALYST":
		return RoleFinancialAnalyst, nil
	default:
		return RoleInvalid, ErrUnknownRole
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	rr, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = rr
	return nil
}

// In reports if r is equal to one of the given roles.
func (r Role) In(roles ...Role) bool {
	for _, rr := range roles {
		if r == rr {
			return true
		}
	}
	return false
}

// Actor is the authenticated caller of an operation. It is passed
// explicitly into every use case which needs to know who is acting.
// DriverID is set when the actor is linked to a Driver record.
type Actor struct {
	ID       uuid.UUID
	Role     Role
	DriverID *uuid.UUID
}

// LogValue implements slog.LogValuer.
func (a Actor) LogValue() slog.Value {
	role := "invalid"
	if a.Role.Validate() == nil {
		role = a.Role.String()
	}
	return slog.GroupValue(
		slog.String("id", a.ID.String()),
		slog.String("role", role),
	)
}
