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

// TripStatus is the state of a Trip in its workflow state machine.
// DRAFT is the initial state, while COMPLETED and CANCELLED are the
// terminal states which have no outbound edges.
type TripStatus int

// Valid values for the TripStatus enum.
const (
	TripStatusInvalid TripStatus = iota // zero value is invalid

	TripStatusDraft
	TripStatusDispatched
	TripStatusInProgress
	TripStatusCompleted
	TripStatusCancelled
)

// ErrUnknownTripStatus indicates that a string could not be parsed
// as a known trip status.
var ErrUnknownTripStatus = errors.New("unknown trip status")

// TripStatusError indicates an out of range TripStatus value.
type TripStatusError int

// Error implements the error interface.
func (e TripStatusError) Error() string {
	return fmt.Sprintf("invalid trip status: %d", e)
}

// Validate returns nil if s is one of the known trip statuses.
func (s TripStatus) Validate() error {
	switch s {
	case TripStatusDraft, TripStatusDispatched, TripStatusInProgress,
		TripStatusCompleted, TripStatusCancelled:
		return nil
	default:
		return TripStatusError(s)
	}
}

// String returns the wire representation of s. Invalid statuses
// cause a panic.
func (s TripStatus) String() string {
	switch s {
	case TripStatusDraft:
		return "DRAFT"
	case TripStatusDispatched:
		return "DISPATCHED"
	case TripStatusInProgress:
		return "IN_PROGRESS"
	case TripStatusCompleted:
		return "COMPLETED"
	case TripStatusCancelled:
		return "CANCELLED"
	default:
		panic(TripStatusError(s))
	}
}

// ParseTripStatus parses the wire representation of a trip status.
func ParseTripStatus(s string) (TripStatus, error) {
	switch s {
	case "DRAFT":
		return TripStatusDraft, nil
	case "DISPATCHED":
		return TripStatusDispatched, nil
	case "IN_PROGRESS":
		return TripStatusInProgress, nil
	case "COMPLETED":
		return TripStatusCompleted, nil
	case "CANCELLED":
		return TripStatusCancelled, nil
	default:
		return TripStatusInvalid, ErrUnknownTripStatus
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s TripStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TripStatus) UnmarshalText(text []byte) error {
	ss, err := ParseTripStatus(string(text))
	if err != nil {
		return err
	}
	*s = ss
	return nil
}

// Successors returns the statuses which may directly follow s.
// Terminal and invalid statuses have no successors.
func (s TripStatus) Successors() []TripStatus {
	switch s {
	case TripStatusDraft:
		return []TripStatus{TripStatusDispatched, TripStatusCancelled}
	case TripStatusDispatched:
		return []TripStatus{TripStatusInProgress, TripStatusCancelled}
	case TripStatusInProgress:
		return []TripStatus{TripStatusCompleted, TripStatusCancelled}
	default:
		return nil
	}
}

// CanMoveTo reports if the state graph has an s -> next edge.
func (s TripStatus) CanMoveTo(next TripStatus) bool {
	for _, n := range s.Successors() {
		if n == next {
			return true
		}
	}
	return false
}

// Terminal reports if s has no outbound edges.
func (s TripStatus) Terminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Active reports if a trip in status s holds its vehicle and driver.
func (s TripStatus) Active() bool {
	return s == TripStatusDispatched || s == TripStatusInProgress
}

// ActiveTripStatuses lists the statuses which count towards the
// exclusive use of vehicles and drivers.
var ActiveTripStatuses = []TripStatus{
	TripStatusDispatched, TripStatusInProgress,
}

// Priority is the urgency of a trip.
type Priority int

// Valid values for the Priority enum.
const (
	PriorityInvalid Priority = iota // zero value is invalid

	PriorityLow
	PriorityMedium
	PriorityHigh
)

// ErrUnknownPriority indicates that a string could not be parsed
// as a known priority.
var ErrUnknownPriority = errors.New("unknown priority")

// String returns the wire representation of p.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	default:
		panic(fmt.Sprintf("invalid priority: %d", int(p)))
	}
}

// ParsePriority parses the wire representation of a priority.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "LOW":
		return PriorityLow, nil
	case "MEDIUM":
		return PriorityMedium, nil
	case "HIGH":
		return PriorityHigh, nil
	default:
		return PriorityInvalid, ErrUnknownPriority
	}
}

// Validate returns nil if p is one of the known priorities.
func (p Priority) Validate() error {
	if p < PriorityLow || p > PriorityHigh {
		return fmt.Errorf("%w: %d", ErrUnknownPriority, int(p))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(text []byte) error {
	pp, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = pp
	return nil
}

// Trip is a unit of cargo-moving work which is assigned to a vehicle
// and driver pair. Trips are mutated only through the transition use
// case and are never deleted, so they remain available for the audit
// and financial reports.
type Trip struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	Priority          Priority   `json:"priority"`
	Status            TripStatus `json:"status"`
	VehicleID         *uuid.UUID `json:"vehicle_id"`
	DriverID          *uuid.UUID `json:"driver_id"`
	CargoWeight       float64    `json:"cargo_weight"`
	EstimatedFuelCost float64    `json:"estimated_fuel_cost"`
	Revenue           float64    `json:"revenue"`
	StartOdometer     *float64   `json:"start_odometer"`
	EndOdometer       *float64   `json:"end_odometer"`
	CreatedBy         uuid.UUID  `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TripFilter narrows a trips listing. Zero fields are ignored.
type TripFilter struct {
	Status    TripStatus
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID
}

// ActivityLog is one append-only audit entry of a trip.
type ActivityLog struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	Action      string    `json:"action"`
	PerformedBy uuid.UUID `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}
