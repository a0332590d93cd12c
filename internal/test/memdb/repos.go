// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/repo"
)

// Trips implements repo.Trips for a Store.
type Trips struct{}

func (Trips) Conn(c repo.Conn) repo.TripsConnQueryer {
	return trips{viewerOf(c)}
}

func (Trips) Tx(tx repo.Tx) repo.TripsTxQueryer {
	return trips{viewerOf(tx)}
}

type trips struct {
	v viewer
}

func (q trips) Get(_ context.Context, id uuid.UUID) (t *model.Trip, err error) {
	err = q.v.view(func(tt *tables) error {
		tr, ok := tt.trips[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf("trip %s does not exist", id))
		}
		t = &tr
		return nil
	})
	return
}

func (q trips) Lock(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	return q.Get(ctx, id)
}

func (q trips) List(_ context.Context, f model.TripFilter) (ts []model.Trip, err error) {
	err = q.v.view(func(tt *tables) error {
		for _, id := range tt.tripIDs {
			t := tt.trips[id]
			if f.Status != model.TripStatusInvalid && t.Status != f.Status {
				continue
			}
			if f.VehicleID != nil && !sameID(t.VehicleID, *f.VehicleID) {
				continue
			}
			if f.DriverID != nil && !sameID(t.DriverID, *f.DriverID) {
				continue
			}
			ts = append(ts, t)
		}
		return nil
	})
	return
}

func (q trips) History(_ context.Context, tripID uuid.UUID) (as []model.ActivityLog, err error) {
	err = q.v.view(func(tt *tables) error {
		for _, a := range tt.activities {
			if a.TripID == tripID {
				as = append(as, a)
			}
		}
		return nil
	})
	return
}

func (q trips) IsVehicleBusy(_ context.Context, vehicleID, excludingTripID uuid.UUID) (busy bool, err error) {
	err = q.v.view(func(tt *tables) error {
		busy = tt.holder(vehicleID, nil, excludingTripID) != nil
		return nil
	})
	return
}

func (q trips) IsDriverBusy(_ context.Context, driverID, excludingTripID uuid.UUID) (busy bool, err error) {
	err = q.v.view(func(tt *tables) error {
		busy = tt.holder(uuid.Nil, &driverID, excludingTripID) != nil
		return nil
	})
	return
}

func (q trips) Create(_ context.Context, t *model.Trip) (*model.Trip, error) {
	tr := *t
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = q.v.clock()
	}
	tr.UpdatedAt = tr.CreatedAt
	err := q.v.view(func(tt *tables) error {
		if _, ok := tt.trips[tr.ID]; ok {
			return cerr.Conflict(fmt.Errorf("trip %s exists", tr.ID))
		}
		tt.trips[tr.ID] = tr
		tt.tripIDs = append(tt.tripIDs, tr.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// Update mirrors the partial unique indexes of the trips table, so
// making a second trip active for one vehicle or driver fails with a
// retryable error.
func (q trips) Update(_ context.Context, t *model.Trip) (*model.Trip, error) {
	tr := *t
	err := q.v.view(func(tt *tables) error {
		old, ok := tt.trips[tr.ID]
		if !ok {
			return cerr.NotFound(fmt.Errorf("trip %s does not exist", tr.ID))
		}
		if tr.Status.Active() {
			var vid uuid.UUID
			if tr.VehicleID != nil {
				vid = *tr.VehicleID
			}
			if other := tt.holder(vid, tr.DriverID, tr.ID); other != nil {
				return cerr.Retryable(fmt.Errorf(
					"trip %s already holds the resources", other.ID,
				))
			}
		}
		old.Status = tr.Status
		old.StartOdometer = tr.StartOdometer
		old.EndOdometer = tr.EndOdometer
		old.UpdatedAt = tr.UpdatedAt
		if old.UpdatedAt.IsZero() {
			old.UpdatedAt = q.v.clock()
		}
		tt.trips[tr.ID] = old
		tr = old
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (q trips) AppendActivity(_ context.Context, a *model.ActivityLog) (*model.ActivityLog, error) {
	al := *a
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}
	if al.Timestamp.IsZero() {
		al.Timestamp = q.v.clock()
	}
	err := q.v.view(func(tt *tables) error {
		if _, ok := tt.trips[al.TripID]; !ok {
			return cerr.NotFound(fmt.Errorf("trip %s does not exist", al.TripID))
		}
		tt.activities = append(tt.activities, al)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &al, nil
}

// holder returns an active trip, other than excluded, which refers to
// the vehicleID vehicle or the driverID driver. Zero vehicleID and nil
// driverID match nothing.
func (tt *tables) holder(vehicleID uuid.UUID, driverID *uuid.UUID, excluded uuid.UUID) *model.Trip {
	for _, id := range tt.tripIDs {
		t := tt.trips[id]
		if id == excluded || !t.Status.Active() {
			continue
		}
		if vehicleID != uuid.Nil && sameID(t.VehicleID, vehicleID) {
			return &t
		}
		if driverID != nil && sameID(t.DriverID, *driverID) {
			return &t
		}
	}
	return nil
}

func sameID(p *uuid.UUID, id uuid.UUID) bool {
	return p != nil && *p == id
}

// Vehicles implements repo.Vehicles for a Store.
type Vehicles struct{}

func (Vehicles) Conn(c repo.Conn) repo.VehiclesConnQueryer {
	return vehicles{viewerOf(c)}
}

func (Vehicles) Tx(tx repo.Tx) repo.VehiclesTxQueryer {
	return vehicles{viewerOf(tx)}
}

type vehicles struct {
	v viewer
}

func (q vehicles) Get(_ context.Context, id uuid.UUID) (v *model.Vehicle, err error) {
	err = q.v.view(func(tt *tables) error {
		vv, ok := tt.vehicles[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf("vehicle %s does not exist", id))
		}
		v = &vv
		return nil
	})
	return
}

func (q vehicles) Lock(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return q.Get(ctx, id)
}

func (q vehicles) List(_ context.Context, f model.VehicleFilter) (vs []model.Vehicle, err error) {
	err = q.v.view(func(tt *tables) error {
		for _, id := range tt.vehicleIDs {
			v := tt.vehicles[id]
			if f.Status != model.VehicleStatusInvalid && v.Status != f.Status {
				continue
			}
			if f.Type != model.VehicleTypeInvalid && v.Type != f.Type {
				continue
			}
			vs = append(vs, v)
		}
		return nil
	})
	return
}

func (q vehicles) Create(_ context.Context, v *model.Vehicle) (*model.Vehicle, error) {
	vv := *v
	if vv.ID == uuid.Nil {
		vv.ID = uuid.New()
	}
	if vv.CreatedAt.IsZero() {
		vv.CreatedAt = q.v.clock()
	}
	err := q.v.view(func(tt *tables) error {
		for _, o := range tt.vehicles {
			if o.LicensePlate == vv.LicensePlate {
				return cerr.Conflict(fmt.Errorf(
					"license plate %q is taken", vv.LicensePlate,
				))
			}
		}
		tt.vehicles[vv.ID] = vv
		tt.vehicleIDs = append(tt.vehicleIDs, vv.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &vv, nil
}

func (q vehicles) update(id uuid.UUID, f func(*model.Vehicle)) (v *model.Vehicle, err error) {
	err = q.v.view(func(tt *tables) error {
		vv, ok := tt.vehicles[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf("vehicle %s does not exist", id))
		}
		f(&vv)
		tt.vehicles[id] = vv
		v = &vv
		return nil
	})
	return
}

func (q vehicles) SetStatus(_ context.Context, id uuid.UUID, s model.VehicleStatus) (*model.Vehicle, error) {
	return q.update(id, func(v *model.Vehicle) {
		v.Status = s
	})
}

func (q vehicles) AdvanceOdometer(_ context.Context, id uuid.UUID, reading float64) (*model.Vehicle, error) {
	return q.update(id, func(v *model.Vehicle) {
		if reading > v.Odometer {
			v.Odometer = reading
		}
	})
}

func (q vehicles) Retire(_ context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return q.update(id, func(v *model.Vehicle) {
		v.Retired = true
		v.Status = model.VehicleStatusRetired
	})
}

// Drivers implements repo.Drivers for a Store.
type Drivers struct{}

func (Drivers) Conn(c repo.Conn) repo.DriversConnQueryer {
	return drivers{viewerOf(c)}
}

func (Drivers) Tx(tx repo.Tx) repo.DriversTxQueryer {
	return drivers{viewerOf(tx)}
}

type drivers struct {
	v viewer
}

func (q drivers) Get(_ context.Context, id uuid.UUID) (d *model.Driver, err error) {
	err = q.v.view(func(tt *tables) error {
		dd, ok := tt.drivers[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf("driver %s does not exist", id))
		}
		d = &dd
		return nil
	})
	return
}

func (q drivers) Lock(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	return q.Get(ctx, id)
}

func (q drivers) List(_ context.Context, f model.DriverFilter) (ds []model.Driver, err error) {
	err = q.v.view(func(tt *tables) error {
		for _, id := range tt.driverIDs {
			d := tt.drivers[id]
			if f.Status != model.DriverStatusInvalid && d.Status != f.Status {
				continue
			}
			ds = append(ds, d)
		}
		return nil
	})
	return
}

func (q drivers) Create(_ context.Context, d *model.Driver) (*model.Driver, error) {
	dd := *d
	if dd.ID == uuid.Nil {
		dd.ID = uuid.New()
	}
	if dd.CreatedAt.IsZero() {
		dd.CreatedAt = q.v.clock()
	}
	err := q.v.view(func(tt *tables) error {
		for _, o := range tt.drivers {
			if o.ActorID == dd.ActorID {
				return cerr.Conflict(fmt.Errorf(
					"actor %s is linked to driver %s", dd.ActorID, o.ID,
				))
			}
		}
		tt.drivers[dd.ID] = dd
		tt.driverIDs = append(tt.driverIDs, dd.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dd, nil
}

func (q drivers) SetStatus(_ context.Context, id uuid.UUID, s model.DriverStatus) (d *model.Driver, err error) {
	err = q.v.view(func(tt *tables) error {
		dd, ok := tt.drivers[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf("driver %s does not exist", id))
		}
		dd.Status = s
		tt.drivers[id] = dd
		d = &dd
		return nil
	})
	return
}

// Maintenance implements repo.Maintenance for a Store.
type Maintenance struct{}

func (Maintenance) Conn(c repo.Conn) repo.MaintenanceConnQueryer {
	return maintenance{viewerOf(c)}
}

func (Maintenance) Tx(tx repo.Tx) repo.MaintenanceTxQueryer {
	return maintenance{viewerOf(tx)}
}

type maintenance struct {
	v viewer
}

func (q maintenance) Get(_ context.Context, id uuid.UUID) (m *model.MaintenanceLog, err error) {
	err = q.v.view(func(tt *tables) error {
		mm, ok := tt.maintenance[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf(
				"maintenance record %s does not exist", id,
			))
		}
		m = &mm
		return nil
	})
	return
}

func (q maintenance) Lock(ctx context.Context, id uuid.UUID) (*model.MaintenanceLog, error) {
	return q.Get(ctx, id)
}

func (q maintenance) List(_ context.Context, f model.MaintenanceFilter) (ms []model.MaintenanceLog, err error) {
	err = q.v.view(func(tt *tables) error {
		for _, id := range tt.mlogIDs {
			m := tt.maintenance[id]
			if f.VehicleID != nil && m.VehicleID != *f.VehicleID {
				continue
			}
			if f.Status != model.MaintenanceStatusInvalid && m.Status != f.Status {
				continue
			}
			ms = append(ms, m)
		}
		return nil
	})
	return
}

func (q maintenance) HasOpen(_ context.Context, vehicleID uuid.UUID) (open bool, err error) {
	err = q.v.view(func(tt *tables) error {
		open = tt.openRecord(vehicleID) != nil
		return nil
	})
	return
}

func (tt *tables) openRecord(vehicleID uuid.UUID) *model.MaintenanceLog {
	for _, id := range tt.mlogIDs {
		m := tt.maintenance[id]
		if m.VehicleID == vehicleID && m.Status == model.MaintenanceStatusOpen {
			return &m
		}
	}
	return nil
}

func (q maintenance) Create(_ context.Context, m *model.MaintenanceLog) (*model.MaintenanceLog, error) {
	mm := *m
	if mm.ID == uuid.Nil {
		mm.ID = uuid.New()
	}
	if mm.CreatedAt.IsZero() {
		mm.CreatedAt = q.v.clock()
	}
	err := q.v.view(func(tt *tables) error {
		if _, ok := tt.vehicles[mm.VehicleID]; !ok {
			return cerr.NotFound(fmt.Errorf(
				"vehicle %s does not exist", mm.VehicleID,
			))
		}
		if o := tt.openRecord(mm.VehicleID); o != nil {
			return cerr.ActiveRecordExists(fmt.Errorf(
				"maintenance record %s is open", o.ID,
			))
		}
		tt.maintenance[mm.ID] = mm
		tt.mlogIDs = append(tt.mlogIDs, mm.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mm, nil
}

func (q maintenance) Close(_ context.Context, id uuid.UUID, at time.Time) (m *model.MaintenanceLog, err error) {
	err = q.v.view(func(tt *tables) error {
		mm, ok := tt.maintenance[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf(
				"maintenance record %s does not exist", id,
			))
		}
		mm.Status = model.MaintenanceStatusClosed
		mm.ClosedAt = &at
		tt.maintenance[id] = mm
		m = &mm
		return nil
	})
	return
}

// Fuel implements repo.Fuel for a Store.
type Fuel struct{}

func (Fuel) Conn(c repo.Conn) repo.FuelConnQueryer {
	return fuel{viewerOf(c)}
}

func (Fuel) Tx(tx repo.Tx) repo.FuelTxQueryer {
	return fuel{viewerOf(tx)}
}

type fuel struct {
	v viewer
}

func (q fuel) List(_ context.Context, f model.FuelFilter) (fs []model.FuelLog, err error) {
	err = q.v.view(func(tt *tables) error {
		for _, fl := range tt.fuel {
			if f.VehicleID != nil && fl.VehicleID != *f.VehicleID {
				continue
			}
			if f.TripID != nil && !sameID(fl.TripID, *f.TripID) {
				continue
			}
			if !f.From.IsZero() && fl.Date.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && !fl.Date.Before(f.To) {
				continue
			}
			fs = append(fs, fl)
		}
		return nil
	})
	return
}

func (q fuel) Create(_ context.Context, f *model.FuelLog) (*model.FuelLog, error) {
	fl := *f
	if fl.ID == uuid.Nil {
		fl.ID = uuid.New()
	}
	if fl.CreatedAt.IsZero() {
		fl.CreatedAt = q.v.clock()
	}
	err := q.v.view(func(tt *tables) error {
		if _, ok := tt.vehicles[fl.VehicleID]; !ok {
			return cerr.NotFound(fmt.Errorf(
				"vehicle %s does not exist", fl.VehicleID,
			))
		}
		tt.fuel = append(tt.fuel, fl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fl, nil
}
