// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tripsuc

import (
	"fmt"
	"time"

	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
)

// Facts is everything which the transition guards may consult. It is
// collected after the trip, vehicle, and driver rows are locked, so
// it cannot change until the transaction ends. Vehicle and Driver are
// nil when the trip has no such assignment. VehicleBusy and DriverBusy
// are only computed for a dispatch request.
type Facts struct {
	Trip        *model.Trip
	Vehicle     *model.Vehicle
	Driver      *model.Driver
	VehicleBusy bool
	DriverBusy  bool
	Actor       model.Actor
	Now         time.Time
}

// Plan lists the effects of an accepted transition. Nothing is written
// while a Plan is computed; the caller applies it in the transaction
// which its Facts were collected from.
type Plan struct {
	From, To model.TripStatus

	// VehicleStatus is the new status of the assigned vehicle, or
	// VehicleStatusInvalid if the vehicle should be left as is.
	VehicleStatus model.VehicleStatus

	StartOdometer *float64
	EndOdometer   *float64

	// Activity is the audit log action text.
	Activity string
}

// Evaluate checks whether the trip in f may move to the requested
// status. Checks run in a fixed order and the first failing one
// determines the returned error kind. On success, the effects of the
// transition are returned as a Plan.
func Evaluate(requested model.TripStatus, f Facts) (*Plan, error) {
	if err := requested.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	from := f.Trip.Status
	if !from.CanMoveTo(requested) {
		return nil, cerr.InvalidTransition(fmt.Errorf(
			"trip cannot move from %s to %s", from, requested,
		))
	}
	p := &Plan{
		From:     from,
		To:       requested,
		Activity: "Status changed to " + requested.String(),
	}
	switch requested {
	case model.TripStatusDispatched:
		if err := checkDispatch(f); err != nil {
			return nil, err
		}
		p.VehicleStatus = model.VehicleStatusOnTrip
	case model.TripStatusInProgress:
		if err := checkDriverIdentity(f); err != nil {
			return nil, err
		}
		if f.Vehicle != nil {
			odo := f.Vehicle.Odometer
			p.StartOdometer = &odo
		}
	case model.TripStatusCompleted:
		if err := checkDriverIdentity(f); err != nil {
			return nil, err
		}
		if f.Vehicle != nil {
			odo := f.Vehicle.Odometer
			p.EndOdometer = &odo
			p.VehicleStatus = f.Vehicle.ReleasedStatus()
		}
	case model.TripStatusCancelled:
		if from.Active() && f.Vehicle != nil {
			p.VehicleStatus = f.Vehicle.ReleasedStatus()
		}
	case model.TripStatusDraft, model.TripStatusInvalid:
		// no edge leads to these statuses
		panic(fmt.Sprintf("unexpected target status: %d", int(requested)))
	}
	return p, nil
}

func checkDispatch(f Facts) error {
	switch f.Actor.Role {
	case model.RoleDispatcher, model.RoleFleetManager:
	case model.RoleSafetyOfficer, model.RoleFinancialAnalyst,
		model.RoleInvalid:
		return cerr.Unauthorized(fmt.Errorf(
			"actor %s may not dispatch trips", f.Actor.ID,
		))
	default:
		return cerr.Unauthorized(model.RoleError(f.Actor.Role))
	}
	if f.Vehicle == nil {
		return cerr.MissingResource(fmt.Errorf(
			"trip %s has no vehicle", f.Trip.ID,
		))
	}
	if f.Driver == nil {
		return cerr.MissingResource(fmt.Errorf(
			"trip %s has no driver", f.Trip.ID,
		))
	}
	if f.VehicleBusy {
		return cerr.ResourceConflict(fmt.Errorf(
			"vehicle %s is used by another active trip", f.Vehicle.ID,
		))
	}
	if f.DriverBusy {
		return cerr.ResourceConflict(fmt.Errorf(
			"driver %s is used by another active trip", f.Driver.ID,
		))
	}
	switch s := f.Vehicle.Status; s {
	case model.VehicleStatusInShop, model.VehicleStatusRetired:
		return cerr.ResourceConflict(fmt.Errorf(
			"vehicle %s is %s", f.Vehicle.ID, s,
		))
	}
	if f.Vehicle.Retired {
		return cerr.ResourceConflict(fmt.Errorf(
			"vehicle %s is retired", f.Vehicle.ID,
		))
	}
	if f.Driver.Status == model.DriverStatusSuspended {
		return cerr.ResourceConflict(fmt.Errorf(
			"driver %s is %s", f.Driver.ID, f.Driver.Status,
		))
	}
	if !f.Driver.LicenseValidOn(f.Now) {
		return cerr.LicenseExpired(fmt.Errorf(
			"license of driver %s expired on %s",
			f.Driver.ID, f.Driver.LicenseExpiry.Format(time.DateOnly),
		))
	}
	c, m := f.Trip.CargoWeight, f.Vehicle.MaxCapacity
	if c > 0 && m > 0 && c > m {
		return cerr.CapacityExceeded(fmt.Errorf(
			"cargo weight %g exceeds capacity %g of vehicle %s",
			c, m, f.Vehicle.ID,
		))
	}
	return nil
}

// checkDriverIdentity ensures that the actor is the assigned driver.
// Active trips always have a driver, so a missing driver indicates
// a broken invariant rather than a forbidden actor.
func checkDriverIdentity(f Facts) error {
	if f.Driver == nil {
		return cerr.MissingResource(fmt.Errorf(
			"trip %s has no driver", f.Trip.ID,
		))
	}
	if f.Actor.ID != f.Driver.ActorID {
		return cerr.Unauthorized(fmt.Errorf(
			"actor %s is not the driver of trip %s",
			f.Actor.ID, f.Trip.ID,
		))
	}
	return nil
}
