// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fuelrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type gFuel struct {
	ID              uuid.UUID  `gorm:"primaryKey;type:uuid"`
	VehicleID       uuid.UUID  `gorm:"type:uuid"`
	TripID          *uuid.UUID `gorm:"type:uuid"`
	Liters          float64
	Cost            float64
	OdometerReading float64
	FilledAt        time.Time
	CreatedAt       time.Time
}

func (gf *gFuel) TableName() string {
	return "fuel_logs"
}

func (gf *gFuel) Model() model.FuelLog {
	return model.FuelLog{
		ID:              gf.ID,
		VehicleID:       gf.VehicleID,
		TripID:          gf.TripID,
		Liters:          gf.Liters,
		Cost:            gf.Cost,
		OdometerReading: gf.OdometerReading,
		Date:            gf.FilledAt,
		CreatedAt:       gf.CreatedAt,
	}
}

// List returns the fuel logs which match f, ordered by their dates.
// The From and To bounds form a half-open range when they are set.
func List[Q postgres.Queryer](ctx context.Context, q Q, f model.FuelFilter) ([]model.FuelLog, error) {
	gdb := q.GORM(ctx).Order("filled_at, created_at, id")
	if f.VehicleID != nil {
		gdb = gdb.Where("vehicle_id = ?", *f.VehicleID)
	}
	if f.TripID != nil {
		gdb = gdb.Where("trip_id = ?", *f.TripID)
	}
	if !f.From.IsZero() {
		gdb = gdb.Where("filled_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		gdb = gdb.Where("filled_at < ?", f.To)
	}
	var gfs []gFuel
	if err := gdb.Find(&gfs).Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	fs := make([]model.FuelLog, 0, len(gfs))
	for i := range gfs {
		fs = append(fs, gfs[i].Model())
	}
	return fs, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, f *model.FuelLog) (*model.FuelLog, error) {
	gf := &gFuel{
		ID:              f.ID,
		VehicleID:       f.VehicleID,
		TripID:          f.TripID,
		Liters:          f.Liters,
		Cost:            f.Cost,
		OdometerReading: f.OdometerReading,
		FilledAt:        f.Date,
		CreatedAt:       f.CreatedAt,
	}
	if gf.ID == uuid.Nil {
		gf.ID = uuid.New()
	}
	if gf.CreatedAt.IsZero() {
		gf.CreatedAt = time.Now()
	}
	if err := q.GORM(ctx).Create(gf).Error; err != nil {
		return nil, fmt.Errorf("insert: %w", postgres.Classify(err))
	}
	fl := gf.Model()
	return &fl, nil
}
