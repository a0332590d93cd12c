// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tripsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gTrip struct {
	ID                uuid.UUID `gorm:"primaryKey;type:uuid"`
	Title             string
	Description       string
	Origin            string
	Destination       string
	Priority          string
	Status            string
	VehicleID         *uuid.UUID `gorm:"type:uuid"`
	DriverID          *uuid.UUID `gorm:"type:uuid"`
	CargoWeight       float64
	EstimatedFuelCost float64
	Revenue           float64
	StartOdometer     *float64
	EndOdometer       *float64
	CreatedBy         uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (gt *gTrip) TableName() string {
	return "trips"
}

func fromModel(t *model.Trip) *gTrip {
	return &gTrip{
		ID:                t.ID,
		Title:             t.Title,
		Description:       t.Description,
		Origin:            t.Origin,
		Destination:       t.Destination,
		Priority:          t.Priority.String(),
		Status:            t.Status.String(),
		VehicleID:         t.VehicleID,
		DriverID:          t.DriverID,
		CargoWeight:       t.CargoWeight,
		EstimatedFuelCost: t.EstimatedFuelCost,
		Revenue:           t.Revenue,
		StartOdometer:     t.StartOdometer,
		EndOdometer:       t.EndOdometer,
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func (gt *gTrip) Model() (*model.Trip, error) {
	p, err := model.ParsePriority(gt.Priority)
	if err != nil {
		return nil, fmt.Errorf("trip %s priority %q: %w", gt.ID, gt.Priority, err)
	}
	s, err := model.ParseTripStatus(gt.Status)
	if err != nil {
		return nil, fmt.Errorf("trip %s status %q: %w", gt.ID, gt.Status, err)
	}
	return &model.Trip{
		ID:                gt.ID,
		Title:             gt.Title,
		Description:       gt.Description,
		Origin:            gt.Origin,
		Destination:       gt.Destination,
		Priority:          p,
		Status:            s,
		VehicleID:         gt.VehicleID,
		DriverID:          gt.DriverID,
		CargoWeight:       gt.CargoWeight,
		EstimatedFuelCost: gt.EstimatedFuelCost,
		Revenue:           gt.Revenue,
		StartOdometer:     gt.StartOdometer,
		EndOdometer:       gt.EndOdometer,
		CreatedBy:         gt.CreatedBy,
		CreatedAt:         gt.CreatedAt,
		UpdatedAt:         gt.UpdatedAt,
	}, nil
}

type gActivity struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	TripID      uuid.UUID `gorm:"type:uuid"`
	Action      string
	PerformedBy uuid.UUID `gorm:"type:uuid"`
	PerformedAt time.Time
}

func (ga *gActivity) TableName() string {
	return "activity_logs"
}

func (ga *gActivity) Model() model.ActivityLog {
	return model.ActivityLog{
		ID:          ga.ID,
		TripID:      ga.TripID,
		Action:      ga.Action,
		PerformedBy: ga.PerformedBy,
		Timestamp:   ga.PerformedAt,
	}
}

func activeStatuses() []string {
	ss := make([]string, 0, len(model.ActiveTripStatuses))
	for _, s := range model.ActiveTripStatuses {
		ss = append(ss, s.String())
	}
	return ss
}

func take(gdb *gorm.DB, id uuid.UUID) (*model.Trip, error) {
	var gt gTrip
	if err := gdb.Take(&gt, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("trip %s: %w", id, postgres.Classify(err))
	}
	return gt.Model()
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Trip, error) {
	return take(q.GORM(ctx), id)
}

// Lock reads the id trip while locking its row until the end of the
// current transaction.
func Lock[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Trip, error) {
	gdb := q.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return take(gdb, id)
}

func List[Q postgres.Queryer](ctx context.Context, q Q, f model.TripFilter) ([]model.Trip, error) {
	gdb := q.GORM(ctx).Order("created_at, id")
	if f.Status != model.TripStatusInvalid {
		gdb = gdb.Where("status = ?", f.Status.String())
	}
	if f.VehicleID != nil {
		gdb = gdb.Where("vehicle_id = ?", *f.VehicleID)
	}
	if f.DriverID != nil {
		gdb = gdb.Where("driver_id = ?", *f.DriverID)
	}
	var gts []gTrip
	if err := gdb.Find(&gts).Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	ts := make([]model.Trip, 0, len(gts))
	for i := range gts {
		t, err := gts[i].Model()
		if err != nil {
			return nil, err
		}
		ts = append(ts, *t)
	}
	return ts, nil
}

func History[Q postgres.Queryer](ctx context.Context, q Q, tripID uuid.UUID) ([]model.ActivityLog, error) {
	var gas []gActivity
	err := q.GORM(ctx).Where(
		"trip_id = ?", tripID,
	).Order("performed_at, id").Find(&gas).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	as := make([]model.ActivityLog, 0, len(gas))
	for i := range gas {
		as = append(as, gas[i].Model())
	}
	return as, nil
}

func isBusy[Q postgres.Queryer](
	ctx context.Context, q Q, column string, id, excludingTripID uuid.UUID,
) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&gTrip{}).Where(
		column+" = ? AND id <> ? AND status IN ?",
		id, excludingTripID, activeStatuses(),
	).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	return n > 0, nil
}

// IsVehicleBusy reports if an active trip, other than the
// excludingTripID trip, holds the vehicleID vehicle.
func IsVehicleBusy[Q postgres.Queryer](ctx context.Context, q Q, vehicleID, excludingTripID uuid.UUID) (bool, error) {
	return isBusy(ctx, q, "vehicle_id", vehicleID, excludingTripID)
}

// IsDriverBusy reports if an active trip, other than the
// excludingTripID trip, holds the driverID driver.
func IsDriverBusy[Q postgres.Queryer](ctx context.Context, q Q, driverID, excludingTripID uuid.UUID) (bool, error) {
	return isBusy(ctx, q, "driver_id", driverID, excludingTripID)
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, t *model.Trip) (*model.Trip, error) {
	gt := fromModel(t)
	if gt.ID == uuid.Nil {
		gt.ID = uuid.New()
	}
	if gt.CreatedAt.IsZero() {
		gt.CreatedAt = time.Now()
	}
	gt.UpdatedAt = gt.CreatedAt
	if err := q.GORM(ctx).Create(gt).Error; err != nil {
		return nil, fmt.Errorf("insert: %w", postgres.Classify(err))
	}
	return gt.Model()
}

// Update writes the status, odometer snapshots, and update time of
// the t trip. Other fields of a trip are immutable.
func Update[Q postgres.Queryer](ctx context.Context, q Q, t *model.Trip) (*model.Trip, error) {
	updatedAt := t.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	var gts []gTrip
	err := q.GORM(ctx).Model(&gts).Clauses(clause.Returning{}).Where(
		"id = ?", t.ID,
	).Updates(map[string]any{
		"status":         t.Status.String(),
		"start_odometer": t.StartOdometer,
		"end_odometer":   t.EndOdometer,
		"updated_at":     updatedAt,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update: %w", postgres.Classify(err))
	}
	if n := len(gts); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gts[0].Model()
}

func AppendActivity[Q postgres.Queryer](ctx context.Context, q Q, a *model.ActivityLog) (*model.ActivityLog, error) {
	ga := &gActivity{
		ID:          a.ID,
		TripID:      a.TripID,
		Action:      a.Action,
		PerformedBy: a.PerformedBy,
		PerformedAt: a.Timestamp,
	}
	if ga.ID == uuid.Nil {
		ga.ID = uuid.New()
	}
	if ga.PerformedAt.IsZero() {
		ga.PerformedAt = time.Now()
	}
	if err := q.GORM(ctx).Create(ga).Error; err != nil {
		return nil, fmt.Errorf("insert: %w", postgres.Classify(err))
	}
	al := ga.Model()
	return &al, nil
}
