// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DriverStatus is the duty status of a driver.
type DriverStatus int

// Valid values for the DriverStatus enum.
const (
	DriverStatusInvalid DriverStatus = iota // zero value is invalid

	DriverStatusOnDuty
	DriverStatusOffDuty
	DriverStatusSuspended
)

// ErrUnknownDriverStatus indicates that a string could not be parsed
// as a known driver status.
var ErrUnknownDriverStatus = errors.New("unknown driver status")

// DriverStatusError indicates an out of range DriverStatus value.
type DriverStatusError int

// Error implements the error interface.
func (e DriverStatusError) Error() string {
	return fmt.Sprintf("invalid driver status: %d", e)
}

// Validate returns nil if s is one of the known driver statuses.
func (s DriverStatus) Validate() error {
	switch s {
	case DriverStatusOnDuty, DriverStatusOffDuty, DriverStatusSuspended:
		return nil
	default:
		return DriverStatusError(s)
	}
}

// String returns the wire representation of s.
func (s DriverStatus) String() string {
	switch s {
	case DriverStatusOnDuty:
		return "ON_DUTY"
	case DriverStatusOffDuty:
		return "OFF_DUTY"
	case DriverStatusSuspended:
		return "SUSPENDED"
	default:
		panic(DriverStatusError(s))
	}
}

// ParseDriverStatus parses the wire representation of a status.
func ParseDriverStatus(s string) (DriverStatus, error) {
	switch s {
	case "ON_DUTY":
		return DriverStatusOnDuty, nil
	case "OFF_DUTY":
		return DriverStatusOffDuty, nil
	case "SUSPENDED":
		return DriverStatusSuspended, nil
	default:
		return DriverStatusInvalid, ErrUnknownDriverStatus
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s DriverStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *DriverStatus) UnmarshalText(text []byte) error {
	ss, err := ParseDriverStatus(string(text))
	if err != nil {
		return err
	}
	*s = ss
	return nil
}

// Driver is linked one-to-one with an actor identity (ActorID), so
// the actor which starts or completes a trip can be compared with
// the driver of that trip.
type Driver struct {
	ID            uuid.UUID    `json:"id"`
	ActorID       uuid.UUID    `json:"actor_id"`
	Name          string       `json:"name"`
	LicenseExpiry time.Time    `json:"license_expiry"`
	SafetyScore   float64      `json:"safety_score"`
	Status        DriverStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// LicenseValidOn reports if the driver license is valid on the day
// of the given instant. Only the calendar dates are compared, so a
// license which expires today is still valid for the whole day.
func (d *Driver) LicenseValidOn(t time.Time) bool {
	ey, em, ed := d.LicenseExpiry.Date()
	ty, tm, td := t.In(d.LicenseExpiry.Location()).Date()
	switch {
	case ey != ty:
		return ey > ty
	case em != tm:
		return em > tm
	default:
		return ed >= td
	}
}

// DriverFilter narrows a drivers listing. Zero fields are ignored.
type DriverFilter struct {
	Status DriverStatus
}
