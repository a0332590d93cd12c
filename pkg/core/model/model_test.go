// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"
	"time"

	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripStatusGraph(t *testing.T) {
	assert.True(t, model.TripStatusDraft.CanMoveTo(model.TripStatusDispatched))
	assert.True(t, model.TripStatusDraft.CanMoveTo(model.TripStatusCancelled))
	assert.False(t, model.TripStatusDraft.CanMoveTo(model.TripStatusInProgress))
	assert.True(t, model.TripStatusInProgress.CanMoveTo(model.TripStatusCompleted))
	assert.Empty(t, model.TripStatusCompleted.Successors())
	assert.Empty(t, model.TripStatusCancelled.Successors())
	assert.True(t, model.TripStatusCancelled.Terminal())
	assert.True(t, model.TripStatusInProgress.Active())
	assert.False(t, model.TripStatusDraft.Active())
}

func TestEnumsTextRoundTrip(t *testing.T) {
	var s model.TripStatus
	require.NoError(t, s.UnmarshalText([]byte("IN_PROGRESS")))
	assert.Equal(t, model.TripStatusInProgress, s)
	assert.Error(t, s.UnmarshalText([]byte("in_progress")))

	var r model.Role
	require.NoError(t, r.UnmarshalText([]byte("SAFETY_OFFICER")))
	assert.Equal(t, model.RoleSafetyOfficer, r)
	_, err := model.Role(42).MarshalText()
	assert.Error(t, err)
	assert.Panics(t, func() { _ = model.RoleInvalid.String() })

	vs, err := model.ParseVehicleStatus("ON_TRIP")
	require.NoError(t, err)
	assert.Equal(t, "ON_TRIP", vs.String())
	_, err = model.ParseDriverStatus("RESTING")
	assert.ErrorIs(t, err, model.ErrUnknownDriverStatus)
}

func TestLicenseValidOn(t *testing.T) {
	d := model.Driver{
		LicenseExpiry: time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, d.LicenseValidOn(time.Date(2024, time.May, 31, 23, 59, 0, 0, time.UTC)))
	assert.True(t, d.LicenseValidOn(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, d.LicenseValidOn(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
}

func TestReleasedStatus(t *testing.T) {
	for s, want := range map[model.VehicleStatus]model.VehicleStatus{
		model.VehicleStatusOnTrip:    model.VehicleStatusAvailable,
		model.VehicleStatusAvailable: model.VehicleStatusAvailable,
		model.VehicleStatusInShop:    model.VehicleStatusInShop,
		model.VehicleStatusRetired:   model.VehicleStatusRetired,
	} {
		v := model.Vehicle{Status: s}
		assert.Equal(t, want, v.ReleasedStatus(), s.String())
	}
}

func TestLedgerIsAdditive(t *testing.T) {
	l := model.VehicleLedger{
		AcquisitionCost: 20000, FuelCost: 350.5, MaintenanceCost: 120,
		Revenue: 30000,
	}
	assert.Equal(t, 20470.5, l.OperationalCost())
	assert.Equal(t, 9529.5, l.Profit())
	f := l.Financials()
	assert.Equal(t, l.OperationalCost(), f.OperationalCost)
}

func TestRates(t *testing.T) {
	assert.Equal(t, 0.0, model.UtilizationRate(0, 0))
	assert.Equal(t, 33.33, model.UtilizationRate(1, 3))
	assert.Equal(t, 66.67, model.UtilizationRate(2, 3))
	assert.Equal(t, 0.0, model.ProfitMargin(model.Totals{Profit: -5}))
	assert.Equal(t, 25.0, model.ProfitMargin(model.Totals{
		Revenue: 400, Profit: 100,
	}))
}

func TestSortMonthly(t *testing.T) {
	ms := []model.MonthlyAmount{
		{Month: model.Month{Year: 2024, Month: time.February}, Amount: 1},
		{Month: model.Month{Year: 2023, Month: time.December}, Amount: 2},
		{Month: model.Month{Year: 2024, Month: time.January}, Amount: 3},
	}
	model.SortMonthly(ms)
	assert.Equal(t, []float64{2, 3, 1}, []float64{ms[0].Amount, ms[1].Amount, ms[2].Amount})
}

func TestSemVer(t *testing.T) {
	v, err := model.ParseSemVer("1.2")
	require.NoError(t, err)
	assert.Equal(t, model.SemVer{1, 2, 0}, v)
	assert.Equal(t, "1.2.0", v.String())
	for _, bad := range []string{"", "1.2.3.4", "1.x", "-1.0.0"} {
		_, err = model.ParseSemVer(bad)
		assert.Error(t, err, bad)
	}
	var sv model.SemVer
	require.NoError(t, sv.UnmarshalText([]byte("3.0.1")))
	assert.Equal(t, model.SemVer{3, 0, 1}, sv)
	assert.Error(t, sv.UnmarshalText([]byte("3..1")))
	assert.Equal(t, model.SemVer{3, 0, 1}, sv, "left unchanged on errors")

	cur := model.SemVer{1, 2, 0}
	assert.True(t, cur.Supports(model.SemVer{1, 0, 7}))
	assert.True(t, cur.Supports(model.SemVer{1, 2, 9}))
	assert.False(t, cur.Supports(model.SemVer{1, 3, 0}))
	assert.False(t, cur.Supports(model.SemVer{2, 0, 0}))
}

func TestEnumRanges(t *testing.T) {
	for _, p := range []model.Priority{
		model.PriorityLow, model.PriorityMedium, model.PriorityHigh,
	} {
		assert.NoError(t, p.Validate(), p.String())
	}
	for _, p := range []model.Priority{
		model.PriorityInvalid, model.Priority(7), model.Priority(-2),
	} {
		assert.ErrorIs(t, p.Validate(), model.ErrUnknownPriority)
		_, err := p.MarshalText()
		assert.Error(t, err)
	}

	for _, vt := range []model.VehicleType{
		model.VehicleTypeTruck, model.VehicleTypeVan, model.VehicleTypeBike,
	} {
		assert.NoError(t, vt.Validate(), vt.String())
	}
	for _, vt := range []model.VehicleType{
		model.VehicleTypeInvalid, model.VehicleType(9),
	} {
		assert.ErrorIs(t, vt.Validate(), model.ErrUnknownVehicleType)
		_, err := vt.MarshalText()
		assert.Error(t, err)
	}
}
