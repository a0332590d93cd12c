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

// MaintenanceStatus is the state of a maintenance record. OPEN is
// initial and CLOSED is terminal.
type MaintenanceStatus int

// Valid values for the MaintenanceStatus enum.
const (
	MaintenanceStatusInvalid MaintenanceStatus = iota // zero is invalid

	MaintenanceStatusOpen
	MaintenanceStatusClosed
)

// ErrUnknownMaintenanceStatus indicates that a string could not be
// parsed as a known maintenance status.
var ErrUnknownMaintenanceStatus = errors.New("unknown maintenance status")

// String returns the wire representation of s.
func (s MaintenanceStatus) String() string {
	switch s {
	case MaintenanceStatusOpen:
		return "OPEN"
	case MaintenanceStatusClosed:
		return "CLOSED"
	default:
		panic(fmt.Sprintf("invalid maintenance status: %d", int(s)))
	}
}

// ParseMaintenanceStatus parses the wire representation of a status.
func ParseMaintenanceStatus(s string) (MaintenanceStatus, error) {
	switch s {
	case "OPEN":
		return MaintenanceStatusOpen, nil
	case "CLOSED":
		return MaintenanceStatusClosed, nil
	default:
		return MaintenanceStatusInvalid, ErrUnknownMaintenanceStatus
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s MaintenanceStatus) MarshalText() ([]byte, error) {
	if s != MaintenanceStatusOpen && s != MaintenanceStatusClosed {
		return nil, ErrUnknownMaintenanceStatus
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *MaintenanceStatus) UnmarshalText(text []byte) error {
	ss, err := ParseMaintenanceStatus(string(text))
	if err != nil {
		return err
	}
	*s = ss
	return nil
}

// MaintenanceLog is a maintenance record of a vehicle. A vehicle may
// have at most one OPEN record at any time.
type MaintenanceLog struct {
	ID          uuid.UUID         `json:"id"`
	VehicleID   uuid.UUID         `json:"vehicle_id"`
	Description string            `json:"description"`
	Cost        float64           `json:"cost"`
	Status      MaintenanceStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	ClosedAt    *time.Time        `json:"closed_at"`
}

// MaintenanceFilter narrows a maintenance listing.
type MaintenanceFilter struct {
	VehicleID *uuid.UUID
	Status    MaintenanceStatus
}

// FuelLog records one refuelling of a vehicle, optionally during
// a trip.
type FuelLog struct {
	ID              uuid.UUID  `json:"id"`
	VehicleID       uuid.UUID  `json:"vehicle_id"`
	TripID          *uuid.UUID `json:"trip_id"`
	Liters          float64    `json:"liters"`
	Cost            float64    `json:"cost"`
	OdometerReading float64    `json:"odometer_reading"`
	Date            time.Time  `json:"date"`
	CreatedAt       time.Time  `json:"created_at"`
}

// FuelFilter narrows a fuel logs listing. Zero fields are ignored and
// the From/To range is half-open: From <= date < To.
type FuelFilter struct {
	VehicleID *uuid.UUID
	TripID    *uuid.UUID
	From, To  time.Time
}
