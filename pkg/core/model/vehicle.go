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

// VehicleStatus is the operational status of a vehicle.
type VehicleStatus int

// Valid values for the VehicleStatus enum.
const (
	VehicleStatusInvalid VehicleStatus = iota // zero value is invalid

	VehicleStatusAvailable
	VehicleStatusOnTrip
	VehicleStatusInShop
	VehicleStatusRetired
)

// ErrUnknownVehicleStatus indicates that a string could not be parsed
// as a known vehicle status.
var ErrUnknownVehicleStatus = errors.New("unknown vehicle status")

// VehicleStatusError indicates an out of range VehicleStatus value.
type VehicleStatusError int

// Error implements the error interface.
func (e VehicleStatusError) Error() string {
	return fmt.Sprintf("invalid vehicle status: %d", e)
}

// Validate returns nil if s is one of the known vehicle statuses.
func (s VehicleStatus) Validate() error {
	switch s {
	case VehicleStatusAvailable, VehicleStatusOnTrip,
		VehicleStatusInShop, VehicleStatusRetired:
		return nil
	default:
		return VehicleStatusError(s)
	}
}

// String returns the wire representation of s.
func (s VehicleStatus) String() string {
	switch s {
	case VehicleStatusAvailable:
		return "AVAILABLE"
	case VehicleStatusOnTrip:
		return "ON_TRIP"
	case VehicleStatusInShop:
		return "IN_SHOP"
	case VehicleStatusRetired:
		return "RETIRED"
	default:
		panic(VehicleStatusError(s))
	}
}

// ParseVehicleStatus parses the wire representation of a status.
func ParseVehicleStatus(s string) (VehicleStatus, error) {
	switch s {
	case "AVAILABLE":
		return VehicleStatusAvailable, nil
	case "ON_TRIP":
		return VehicleStatusOnTrip, nil
	case "IN_SHOP":
		return VehicleStatusInShop, nil
	case "RETIRED":
		return VehicleStatusRetired, nil
	default:
		return VehicleStatusInvalid, ErrUnknownVehicleStatus
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s VehicleStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *VehicleStatus) UnmarshalText(text []byte) error {
	ss, err := ParseVehicleStatus(string(text))
	if err != nil {
		return err
	}
	*s = ss
	return nil
}

// VehicleType is the kind of a vehicle.
type VehicleType int

// Valid values for the VehicleType enum.
const (
	VehicleTypeInvalid VehicleType = iota // zero value is invalid

	VehicleTypeTruck
	VehicleTypeVan
	VehicleTypeBike
)

// ErrUnknownVehicleType indicates that a string could not be parsed
// as a known vehicle type.
var ErrUnknownVehicleType = errors.New("unknown vehicle type")

// String returns the wire representation of t.
func (t VehicleType) String() string {
	switch t {
	case VehicleTypeTruck:
		return "TRUCK"
	case VehicleTypeVan:
		return "VAN"
	case VehicleTypeBike:
		return "BIKE"
	default:
		panic(fmt.Sprintf("invalid vehicle type: %d", int(t)))
	}
}

// ParseVehicleType parses the wire representation of a vehicle type.
func ParseVehicleType(s string) (VehicleType, error) {
	switch s {
	case "TRUCK":
		return VehicleTypeTruck, nil
	case "VAN":
		return VehicleTypeVan, nil
	case "BIKE":
		return VehicleTypeBike, nil
	default:
		return VehicleTypeInvalid, ErrUnknownVehicleType
	}
}

// Validate returns nil if t is one of the known vehicle types.
func (t VehicleType) Validate() error {
	if t < VehicleTypeTruck || t > VehicleTypeBike {
		return fmt.Errorf("%w: %d", ErrUnknownVehicleType, int(t))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t VehicleType) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *VehicleType) UnmarshalText(text []byte) error {
	tt, err := ParseVehicleType(string(text))
	if err != nil {
		return err
	}
	*t = tt
	return nil
}

// Vehicle models a fleet vehicle. Its Odometer never decreases; it is
// advanced by fuel logs. Its Status is changed by trip transitions and
// by the maintenance lifecycle.
type Vehicle struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	LicensePlate    string        `json:"license_plate"`
	Type            VehicleType   `json:"type"`
	MaxCapacity     float64       `json:"max_capacity"`
	AcquisitionCost float64       `json:"acquisition_cost"`
	Odometer        float64       `json:"odometer"`
	Status          VehicleStatus `json:"status"`
	Retired         bool          `json:"retired"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ReleasedStatus returns the status which v should take when a trip
// stops holding it. A vehicle which is in the shop or retired keeps
// its status, while others become available.
func (v *Vehicle) ReleasedStatus() VehicleStatus {
	switch v.Status {
	case VehicleStatusInShop, VehicleStatusRetired:
		return v.Status
	default:
		return VehicleStatusAvailable
	}
}

// VehicleFilter narrows a vehicles listing. Zero fields are ignored.
type VehicleFilter struct {
	Status VehicleStatus
	Type   VehicleType
}
