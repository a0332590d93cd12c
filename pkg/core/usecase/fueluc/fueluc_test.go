// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fueluc_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/internal/test/memdb"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/fueluc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOdometerScenario(t *testing.T) {
	ctx := context.Background()
	s := memdb.New()
	uc := fueluc.New(s, memdb.Fuel{}, memdb.Vehicles{}, memdb.Trips{}, nil)
	vid := s.PutVehicle(model.Vehicle{
		LicensePlate: "F-1", Odometer: 10000,
		Status: model.VehicleStatusAvailable,
	})
	day := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)

	fl, err := uc.RecordFuel(ctx, model.FuelLog{
		VehicleID: vid, Liters: 40, Cost: 80,
		OdometerReading: 10500, Date: day,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, fl.ID)
	v, _ := s.Vehicle(vid)
	assert.Equal(t, 10500.0, v.Odometer)

	_, err = uc.RecordFuel(ctx, model.FuelLog{
		VehicleID: vid, Liters: 10, Cost: 20,
		OdometerReading: 10200, Date: day,
	})
	assert.ErrorIs(t, err, cerr.KindOdometerRegression)
	v, _ = s.Vehicle(vid)
	assert.Equal(t, 10500.0, v.Odometer)

	_, err = uc.RecordFuel(ctx, model.FuelLog{
		VehicleID: vid, Liters: 10, Cost: 20, OdometerReading: 10500,
	})
	assert.NoError(t, err, "an equal reading is accepted")

	logs, err := uc.List(ctx, model.FuelFilter{VehicleID: &vid})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestTripMustMatchVehicle(t *testing.T) {
	ctx := context.Background()
	s := memdb.New()
	uc := fueluc.New(s, memdb.Fuel{}, memdb.Vehicles{}, memdb.Trips{}, nil)
	a := s.PutVehicle(model.Vehicle{LicensePlate: "A"})
	b := s.PutVehicle(model.Vehicle{LicensePlate: "B"})
	tid := s.PutTrip(model.Trip{Title: "t", VehicleID: &a, Status: model.TripStatusDraft})

	_, err := uc.RecordFuel(ctx, model.FuelLog{
		VehicleID: b, TripID: &tid, Liters: 1, OdometerReading: 1,
	})
	assert.ErrorIs(t, err, cerr.KindBadRequest)

	fl, err := uc.RecordFuel(ctx, model.FuelLog{
		VehicleID: a, TripID: &tid, Liters: 1, OdometerReading: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, fl.TripID)
	assert.Equal(t, tid, *fl.TripID)

	missing := uuid.New()
	_, err = uc.RecordFuel(ctx, model.FuelLog{
		VehicleID: a, TripID: &missing, Liters: 1, OdometerReading: 1,
	})
	assert.ErrorIs(t, err, cerr.KindNotFound)

	_, err = uc.RecordFuel(ctx, model.FuelLog{VehicleID: a, Liters: 0})
	assert.ErrorIs(t, err, cerr.KindBadRequest)
}

func TestLostRacesAreRetried(t *testing.T) {
	ctx := context.Background()
	s := memdb.New()
	uc := fueluc.New(s, memdb.Fuel{}, memdb.Vehicles{}, memdb.Trips{}, nil)
	vid := s.PutVehicle(model.Vehicle{LicensePlate: "R-1", Odometer: 100})

	s.LoseRaces = 2
	_, err := uc.RecordFuel(ctx, model.FuelLog{
		VehicleID: vid, Liters: 5, Cost: 10, OdometerReading: 120,
	})
	require.NoError(t, err)
	v, _ := s.Vehicle(vid)
	assert.Equal(t, 120.0, v.Odometer)

	s.LoseRaces = 3
	_, err = uc.RecordFuel(ctx, model.FuelLog{
		VehicleID: vid, Liters: 5, Cost: 10, OdometerReading: 150,
	})
	assert.ErrorIs(t, err, cerr.KindResourceConflict)
	assert.NotErrorIs(t, err, cerr.KindRetryable)
	v, _ = s.Vehicle(vid)
	assert.Equal(t, 120.0, v.Odometer)
}
