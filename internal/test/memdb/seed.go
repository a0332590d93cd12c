// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memdb

import (
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/appuc"
)

// PutVehicle stores v as is, replacing any vehicle with the same ID.
// A nil ID is replaced with a random one. It returns the stored ID.
func (s *Store) PutVehicle(v model.Vehicle) uuid.UUID {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	_ = s.view(func(tt *tables) error {
		if _, ok := tt.vehicles[v.ID]; !ok {
			tt.vehicleIDs = append(tt.vehicleIDs, v.ID)
		}
		tt.vehicles[v.ID] = v
		return nil
	})
	return v.ID
}

// PutDriver stores d as is, similar to PutVehicle.
func (s *Store) PutDriver(d model.Driver) uuid.UUID {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_ = s.view(func(tt *tables) error {
		if _, ok := tt.drivers[d.ID]; !ok {
			tt.driverIDs = append(tt.driverIDs, d.ID)
		}
		tt.drivers[d.ID] = d
		return nil
	})
	return d.ID
}

// PutTrip stores t as is, similar to PutVehicle.
func (s *Store) PutTrip(t model.Trip) uuid.UUID {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_ = s.view(func(tt *tables) error {
		if _, ok := tt.trips[t.ID]; !ok {
			tt.tripIDs = append(tt.tripIDs, t.ID)
		}
		tt.trips[t.ID] = t
		return nil
	})
	return t.ID
}

// PutMaintenance stores m as is, similar to PutVehicle.
func (s *Store) PutMaintenance(m model.MaintenanceLog) uuid.UUID {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_ = s.view(func(tt *tables) error {
		if _, ok := tt.maintenance[m.ID]; !ok {
			tt.mlogIDs = append(tt.mlogIDs, m.ID)
		}
		tt.maintenance[m.ID] = m
		return nil
	})
	return m.ID
}

// PutFuel appends f to the fuel logs.
func (s *Store) PutFuel(f model.FuelLog) uuid.UUID {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	_ = s.view(func(tt *tables) error {
		tt.fuel = append(tt.fuel, f)
		return nil
	})
	return f.ID
}

// Vehicle returns the committed state of a vehicle.
func (s *Store) Vehicle(id uuid.UUID) (v model.Vehicle, ok bool) {
	_ = s.view(func(tt *tables) error {
		v, ok = tt.vehicles[id]
		return nil
	})
	return
}

// Driver returns the committed state of a driver.
func (s *Store) Driver(id uuid.UUID) (d model.Driver, ok bool) {
	_ = s.view(func(tt *tables) error {
		d, ok = tt.drivers[id]
		return nil
	})
	return
}

// Trip returns the committed state of a trip.
func (s *Store) Trip(id uuid.UUID) (t model.Trip, ok bool) {
	_ = s.view(func(tt *tables) error {
		t, ok = tt.trips[id]
		return nil
	})
	return
}

// Activities returns all committed activity log entries.
func (s *Store) Activities() (as []model.ActivityLog) {
	_ = s.view(func(tt *tables) error {
		as = append(as, tt.activities...)
		return nil
	})
	return
}

// Repos returns all memdb repositories, so they may be passed to the
// application use case.
func Repos() appuc.Repos {
	return appuc.Repos{
		Trips:       Trips{},
		Vehicles:    Vehicles{},
		Drivers:     Drivers{},
		Maintenance: Maintenance{},
		Fuel:        Fuel{},
		Finance:     Finance{},
	}
}
