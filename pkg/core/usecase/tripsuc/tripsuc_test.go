// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tripsuc_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/internal/test/memdb"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/tripsuc"
	"github.com/stretchr/testify/suite"
)

var today = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

type TripsUseCaseTestSuite struct {
	suite.Suite

	Ctx   context.Context
	Store *memdb.Store
	UC    *tripsuc.UseCase

	dispatcher, manager, analyst model.Actor
	driverActor                  model.Actor

	vehicle, driver uuid.UUID
}

func TestTripsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, &TripsUseCaseTestSuite{Ctx: context.Background()})
}

func (ts *TripsUseCaseTestSuite) SetupTest() {
	ts.Store = memdb.New()
	ts.Store.Now = func() time.Time { return today }
	uc, err := tripsuc.New(
		ts.Store, memdb.Trips{}, memdb.Vehicles{}, memdb.Drivers{},
		tripsuc.WithClock(func() time.Time { return today }),
	)
	ts.Require().NoError(err)
	ts.UC = uc

	ts.dispatcher = model.Actor{ID: uuid.New(), Role: model.RoleDispatcher}
	ts.manager = model.Actor{ID: uuid.New(), Role: model.RoleFleetManager}
	ts.analyst = model.Actor{ID: uuid.New(), Role: model.RoleFinancialAnalyst}
	ts.driverActor = model.Actor{ID: uuid.New(), Role: model.RoleDispatcher}

	ts.vehicle = ts.Store.PutVehicle(model.Vehicle{
		Name:         "Truck 1",
		LicensePlate: "FF-001",
		Type:         model.VehicleTypeTruck,
		MaxCapacity:  1000,
		Odometer:     10000,
		Status:       model.VehicleStatusAvailable,
	})
	ts.driver = ts.Store.PutDriver(model.Driver{
		ActorID:       ts.driverActor.ID,
		Name:          "Dana",
		LicenseExpiry: today.AddDate(1, 0, 0),
		SafetyScore:   90,
		Status:        model.DriverStatusOnDuty,
	})
}

func (ts *TripsUseCaseTestSuite) draft(cargo float64) uuid.UUID {
	v, d := ts.vehicle, ts.driver
	return ts.Store.PutTrip(model.Trip{
		Title:       "Delivery",
		Priority:    model.PriorityMedium,
		Status:      model.TripStatusDraft,
		VehicleID:   &v,
		DriverID:    &d,
		CargoWeight: cargo,
		Revenue:     500,
		CreatedBy:   ts.dispatcher.ID,
		CreatedAt:   today,
	})
}

func (ts *TripsUseCaseTestSuite) vehicleStatus() model.VehicleStatus {
	v, ok := ts.Store.Vehicle(ts.vehicle)
	ts.Require().True(ok)
	return v.Status
}

func (ts *TripsUseCaseTestSuite) TestDispatchThenConflictOnSameVehicle() {
	t1 := ts.draft(500)
	trip, err := ts.UC.Transition(ts.Ctx, t1, model.TripStatusDispatched, ts.dispatcher)
	ts.Require().NoError(err)
	ts.Equal(model.TripStatusDispatched, trip.Status)
	ts.Equal(model.VehicleStatusOnTrip, ts.vehicleStatus())

	t2 := ts.draft(100)
	_, err = ts.UC.Transition(ts.Ctx, t2, model.TripStatusDispatched, ts.dispatcher)
	ts.ErrorIs(err, cerr.KindResourceConflict)
	trip2, _ := ts.Store.Trip(t2)
	ts.Equal(model.TripStatusDraft, trip2.Status)
}

func (ts *TripsUseCaseTestSuite) TestCapacityExceededLeavesNoTrace() {
	t := ts.draft(1500)
	_, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusDispatched, ts.manager)
	ts.ErrorIs(err, cerr.KindCapacityExceeded)
	trip, _ := ts.Store.Trip(t)
	ts.Equal(model.TripStatusDraft, trip.Status)
	ts.Equal(model.VehicleStatusAvailable, ts.vehicleStatus())
	ts.Empty(ts.Store.Activities())
}

func (ts *TripsUseCaseTestSuite) TestDispatchRequiresRole() {
	t := ts.draft(100)
	_, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusDispatched, ts.analyst)
	ts.ErrorIs(err, cerr.KindUnauthorized)
}

func (ts *TripsUseCaseTestSuite) TestDispatchRequiresAssignments() {
	t := ts.Store.PutTrip(model.Trip{
		Title:  "Unassigned",
		Status: model.TripStatusDraft,
	})
	_, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusDispatched, ts.dispatcher)
	ts.ErrorIs(err, cerr.KindMissingResource)
}

func (ts *TripsUseCaseTestSuite) TestDispatchWithExpiredLicense() {
	d, _ := ts.Store.Driver(ts.driver)
	d.LicenseExpiry = today.AddDate(0, 0, -1)
	ts.Store.PutDriver(d)
	t := ts.draft(100)
	_, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusDispatched, ts.dispatcher)
	ts.ErrorIs(err, cerr.KindLicenseExpired)
}

func (ts *TripsUseCaseTestSuite) TestLicenseExpiringTodayIsValid() {
	d, _ := ts.Store.Driver(ts.driver)
	d.LicenseExpiry = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	ts.Store.PutDriver(d)
	t := ts.draft(100)
	_, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusDispatched, ts.dispatcher)
	ts.NoError(err)
}

func (ts *TripsUseCaseTestSuite) TestVehicleInShopIsNotDispatchable() {
	v, _ := ts.Store.Vehicle(ts.vehicle)
	v.Status = model.VehicleStatusInShop
	ts.Store.PutVehicle(v)
	t := ts.draft(100)
	_, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusDispatched, ts.dispatcher)
	ts.ErrorIs(err, cerr.KindResourceConflict)
}

func (ts *TripsUseCaseTestSuite) TestFullLifecycle() {
	t := ts.draft(100)
	_, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusDispatched, ts.dispatcher)
	ts.Require().NoError(err)

	_, err = ts.UC.Transition(ts.Ctx, t, model.TripStatusInProgress, ts.dispatcher)
	ts.ErrorIs(err, cerr.KindUnauthorized, "only the driver may start")

	trip, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusInProgress, ts.driverActor)
	ts.Require().NoError(err)
	ts.Require().NotNil(trip.StartOdometer)
	ts.Equal(10000.0, *trip.StartOdometer)

	trip, err = ts.UC.Transition(ts.Ctx, t, model.TripStatusCompleted, ts.driverActor)
	ts.Require().NoError(err)
	ts.Equal(model.TripStatusCompleted, trip.Status)
	ts.Require().NotNil(trip.EndOdometer)
	ts.Equal(model.VehicleStatusAvailable, ts.vehicleStatus())

	for _, s := range []model.TripStatus{
		model.TripStatusDraft, model.TripStatusDispatched,
		model.TripStatusInProgress, model.TripStatusCancelled,
	} {
		_, err = ts.UC.Transition(ts.Ctx, t, s, ts.manager)
		ts.ErrorIs(err, cerr.KindInvalidTransition, "leaving COMPLETED")
	}

	history, err := ts.UC.History(ts.Ctx, t)
	ts.Require().NoError(err)
	ts.Require().Len(history, 3)
	ts.Equal("Status changed to DISPATCHED", history[0].Action)
	ts.Equal("Status changed to IN_PROGRESS", history[1].Action)
	ts.Equal("Status changed to COMPLETED", history[2].Action)
	ts.Equal(ts.driverActor.ID, history[2].PerformedBy)
	ts.Equal(today, history[2].Timestamp)
}

func (ts *TripsUseCaseTestSuite) TestCancelReleasesVehicleUnlessInShop() {
	t := ts.draft(100)
	_, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusDispatched, ts.dispatcher)
	ts.Require().NoError(err)
	_, err = ts.UC.Transition(ts.Ctx, t, model.TripStatusCancelled, ts.analyst)
	ts.Require().NoError(err)
	ts.Equal(model.VehicleStatusAvailable, ts.vehicleStatus())

	t2 := ts.draft(100)
	_, err = ts.UC.Transition(ts.Ctx, t2, model.TripStatusDispatched, ts.dispatcher)
	ts.Require().NoError(err)
	v, _ := ts.Store.Vehicle(ts.vehicle)
	v.Status = model.VehicleStatusInShop
	ts.Store.PutVehicle(v)
	_, err = ts.UC.Transition(ts.Ctx, t2, model.TripStatusCancelled, ts.dispatcher)
	ts.Require().NoError(err)
	ts.Equal(model.VehicleStatusInShop, ts.vehicleStatus())
}

func (ts *TripsUseCaseTestSuite) TestCancelDraftKeepsVehicle() {
	t := ts.draft(100)
	_, err := ts.UC.Transition(ts.Ctx, t, model.TripStatusCancelled, ts.dispatcher)
	ts.Require().NoError(err)
	ts.Equal(model.VehicleStatusAvailable, ts.vehicleStatus())
	_, err = ts.UC.Transition(ts.Ctx, t, model.TripStatusDispatched, ts.dispatcher)
	ts.ErrorIs(err, cerr.KindInvalidTransition)
}

func (ts *TripsUseCaseTestSuite) TestConcurrentDispatchesOfOneVehicle() {
	other := ts.Store.PutDriver(model.Driver{
		ActorID:       uuid.New(),
		LicenseExpiry: today.AddDate(1, 0, 0),
		Status:        model.DriverStatusOnDuty,
	})
	v := ts.vehicle
	t1 := ts.draft(100)
	t2 := ts.Store.PutTrip(model.Trip{
		Title:     "Competing",
		Status:    model.TripStatusDraft,
		VehicleID: &v,
		DriverID:  &other,
	})
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uuid.UUID{t1, t2} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = ts.UC.Transition(
				ts.Ctx, id, model.TripStatusDispatched, ts.dispatcher,
			)
		}(i, id)
	}
	wg.Wait()
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		ts.ErrorIs(err, cerr.KindResourceConflict)
	}
	ts.Equal(1, succeeded)
	active, err := ts.UC.List(ts.Ctx, model.TripFilter{
		Status: model.TripStatusDispatched, VehicleID: &v,
	})
	ts.Require().NoError(err)
	ts.Len(active, 1)
}

func (ts *TripsUseCaseTestSuite) TestCreateTrip() {
	v := ts.vehicle
	trip, err := ts.UC.CreateTrip(ts.Ctx, model.Trip{
		Title:     "New",
		Origin:    "Depot",
		VehicleID: &v,
		Status:    model.TripStatusCompleted,
	}, ts.dispatcher)
	ts.Require().NoError(err)
	ts.Equal(model.TripStatusDraft, trip.Status)
	ts.Equal(model.PriorityMedium, trip.Priority)
	ts.Equal(ts.dispatcher.ID, trip.CreatedBy)

	_, err = ts.UC.CreateTrip(ts.Ctx, model.Trip{Title: "x"}, ts.analyst)
	ts.ErrorIs(err, cerr.KindUnauthorized)

	_, err = ts.UC.CreateTrip(ts.Ctx, model.Trip{}, ts.manager)
	ts.ErrorIs(err, cerr.KindBadRequest)

	missing := uuid.New()
	_, err = ts.UC.CreateTrip(ts.Ctx, model.Trip{
		Title: "x", DriverID: &missing,
	}, ts.manager)
	ts.ErrorIs(err, cerr.KindNotFound)

	for _, p := range []model.Priority{model.Priority(7), model.Priority(-1)} {
		ts.NotPanics(func() {
			_, err = ts.UC.CreateTrip(ts.Ctx, model.Trip{
				Title: "x", Priority: p,
			}, ts.manager)
		})
		ts.ErrorIs(err, cerr.KindBadRequest)
		ts.ErrorIs(err, model.ErrUnknownPriority)
	}
}

func (ts *TripsUseCaseTestSuite) TestCreateTripRetriesLostRaces() {
	ts.Store.LoseRaces = 2
	trip, err := ts.UC.CreateTrip(ts.Ctx, model.Trip{Title: "Late"}, ts.manager)
	ts.Require().NoError(err)
	_, ok := ts.Store.Trip(trip.ID)
	ts.True(ok)

	ts.Store.LoseRaces = 3
	_, err = ts.UC.CreateTrip(ts.Ctx, model.Trip{Title: "Lost"}, ts.manager)
	ts.ErrorIs(err, cerr.KindResourceConflict)
	ts.NotErrorIs(err, cerr.KindRetryable)
}

func (ts *TripsUseCaseTestSuite) TestUnknownTrip() {
	_, err := ts.UC.Transition(ts.Ctx, uuid.New(), model.TripStatusCancelled, ts.manager)
	ts.ErrorIs(err, cerr.KindNotFound)
	_, err = ts.UC.History(ts.Ctx, uuid.New())
	ts.ErrorIs(err, cerr.KindNotFound)
}

func TestOptions(t *testing.T) {
	s := memdb.New()
	_, err := tripsuc.New(
		s, memdb.Trips{}, memdb.Vehicles{}, memdb.Drivers{},
		tripsuc.WithMaxAttempts(0),
	)
	if err == nil {
		t.Fatal("zero max attempts was accepted")
	}
	_, err = tripsuc.New(
		s, memdb.Trips{}, memdb.Vehicles{}, memdb.Drivers{},
		tripsuc.WithMaxAttempts(2), tripsuc.WithMaxAttempts(3),
	)
	if err == nil {
		t.Fatal("max attempts was configured twice")
	}
}
