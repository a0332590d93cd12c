// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fleetuc_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/internal/test/memdb"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/fleetuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase() (*memdb.Store, *fleetuc.UseCase) {
	s := memdb.New()
	return s, fleetuc.New(s, memdb.Vehicles{}, memdb.Drivers{}, memdb.Trips{})
}

func TestRegisterAndRetireVehicle(t *testing.T) {
	ctx := context.Background()
	s, uc := newUseCase()
	v, err := uc.RegisterVehicle(ctx, model.Vehicle{
		Name: "Van", LicensePlate: "V-1", Type: model.VehicleTypeVan,
		MaxCapacity: 800, Status: model.VehicleStatusOnTrip,
	})
	require.NoError(t, err)
	assert.Equal(t, model.VehicleStatusAvailable, v.Status)

	_, err = uc.RegisterVehicle(ctx, model.Vehicle{
		LicensePlate: "V-1", Type: model.VehicleTypeTruck,
	})
	assert.ErrorIs(t, err, cerr.KindConflict)
	_, err = uc.RegisterVehicle(ctx, model.Vehicle{LicensePlate: "V-2"})
	assert.ErrorIs(t, err, cerr.KindBadRequest)

	vid := v.ID
	tid := s.PutTrip(model.Trip{
		Title: "t", Status: model.TripStatusDispatched, VehicleID: &vid,
	})
	_, err = uc.RetireVehicle(ctx, vid)
	assert.ErrorIs(t, err, cerr.KindResourceConflict)

	trip, _ := s.Trip(tid)
	trip.Status = model.TripStatusCompleted
	s.PutTrip(trip)
	retired, err := uc.RetireVehicle(ctx, vid)
	require.NoError(t, err)
	assert.True(t, retired.Retired)
	assert.Equal(t, model.VehicleStatusRetired, retired.Status)

	vs, err := uc.ListVehicles(ctx, model.VehicleFilter{
		Status: model.VehicleStatusAvailable,
	})
	require.NoError(t, err)
	assert.Empty(t, vs)
	_, err = uc.RetireVehicle(ctx, uuid.New())
	assert.ErrorIs(t, err, cerr.KindNotFound)
}

func TestRegisterDriver(t *testing.T) {
	ctx := context.Background()
	_, uc := newUseCase()
	actor := uuid.New()
	d, err := uc.RegisterDriver(ctx, model.Driver{
		ActorID: actor, Name: "Sam",
		LicenseExpiry: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, model.DriverStatusOnDuty, d.Status)

	_, err = uc.RegisterDriver(ctx, model.Driver{
		ActorID: actor, LicenseExpiry: d.LicenseExpiry,
	})
	assert.ErrorIs(t, err, cerr.KindConflict)
	_, err = uc.RegisterDriver(ctx, model.Driver{ActorID: uuid.New()})
	assert.ErrorIs(t, err, cerr.KindBadRequest)

	d, err = uc.SetDriverStatus(ctx, d.ID, model.DriverStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, model.DriverStatusSuspended, d.Status)
	_, err = uc.SetDriverStatus(ctx, d.ID, model.DriverStatusInvalid)
	assert.ErrorIs(t, err, cerr.KindBadRequest)

	ds, err := uc.ListDrivers(ctx, model.DriverFilter{
		Status: model.DriverStatusSuspended,
	})
	require.NoError(t, err)
	assert.Len(t, ds, 1)
}

func TestUnknownVehicleTypeIsBadRequest(t *testing.T) {
	ctx := context.Background()
	_, uc := newUseCase()
	for _, vt := range []model.VehicleType{
		model.VehicleTypeInvalid, model.VehicleType(7), model.VehicleType(-1),
	} {
		assert.NotPanics(t, func() {
			_, err := uc.RegisterVehicle(ctx, model.Vehicle{
				LicensePlate: "T-1", Type: vt,
			})
			assert.ErrorIs(t, err, cerr.KindBadRequest)
			assert.ErrorIs(t, err, model.ErrUnknownVehicleType)
		})
	}
}

func TestLostRacesAreRetried(t *testing.T) {
	ctx := context.Background()
	s, uc := newUseCase()
	s.LoseRaces = 2
	v, err := uc.RegisterVehicle(ctx, model.Vehicle{
		LicensePlate: "R-1", Type: model.VehicleTypeBike,
	})
	require.NoError(t, err)
	_, ok := s.Vehicle(v.ID)
	assert.True(t, ok)

	s.LoseRaces = 3
	_, err = uc.RetireVehicle(ctx, v.ID)
	assert.ErrorIs(t, err, cerr.KindResourceConflict)
	assert.NotErrorIs(t, err, cerr.KindRetryable)
	got, _ := s.Vehicle(v.ID)
	assert.False(t, got.Retired)
}
