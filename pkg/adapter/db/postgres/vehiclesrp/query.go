// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vehiclesrp

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

type gVehicle struct {
	ID              uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name            string
	LicensePlate    string
	Type            string
	MaxCapacity     float64
	AcquisitionCost float64
	Odometer        float64
	Status          string
	Retired         bool
	CreatedAt       time.Time
}

func (gv *gVehicle) TableName() string {
	return "vehicles"
}

func (gv *gVehicle) Model() (*model.Vehicle, error) {
	t, err := model.ParseVehicleType(gv.Type)
	if err != nil {
		return nil, fmt.Errorf("vehicle %s type %q: %w", gv.ID, gv.Type, err)
	}
	s, err := model.ParseVehicleStatus(gv.Status)
	if err != nil {
		return nil, fmt.Errorf("vehicle %s status %q: %w", gv.ID, gv.Status, err)
	}
	return &model.Vehicle{
		ID:              gv.ID,
		Name:            gv.Name,
		LicensePlate:    gv.LicensePlate,
		Type:            t,
		MaxCapacity:     gv.MaxCapacity,
		AcquisitionCost: gv.AcquisitionCost,
		Odometer:        gv.Odometer,
		Status:          s,
		Retired:         gv.Retired,
		CreatedAt:       gv.CreatedAt,
	}, nil
}

func take(gdb *gorm.DB, id uuid.UUID) (*model.Vehicle, error) {
	var gv gVehicle
	if err := gdb.Take(&gv, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("vehicle %s: %w", id, postgres.Classify(err))
	}
	return gv.Model()
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Vehicle, error) {
	return take(q.GORM(ctx), id)
}

// Lock reads the id vehicle while locking its row until the end of
// the current transaction.
func Lock[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Vehicle, error) {
	gdb := q.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return take(gdb, id)
}

func List[Q postgres.Queryer](ctx context.Context, q Q, f model.VehicleFilter) ([]model.Vehicle, error) {
	gdb := q.GORM(ctx).Order("created_at, id")
	if f.Status != model.VehicleStatusInvalid {
		gdb = gdb.Where("status = ?", f.Status.String())
	}
	if f.Type != model.VehicleTypeInvalid {
		gdb = gdb.Where("type = ?", f.Type.String())
	}
	var gvs []gVehicle
	if err := gdb.Find(&gvs).Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	vs := make([]model.Vehicle, 0, len(gvs))
	for i := range gvs {
		v, err := gvs[i].Model()
		if err != nil {
			return nil, err
		}
		vs = append(vs, *v)
	}
	return vs, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, v *model.Vehicle) (*model.Vehicle, error) {
	gv := &gVehicle{
		ID:              v.ID,
		Name:            v.Name,
		LicensePlate:    v.LicensePlate,
		Type:            v.Type.String(),
		MaxCapacity:     v.MaxCapacity,
		AcquisitionCost: v.AcquisitionCost,
		Odometer:        v.Odometer,
		Status:          v.Status.String(),
		Retired:         v.Retired,
		CreatedAt:       v.CreatedAt,
	}
	if gv.ID == uuid.Nil {
		gv.ID = uuid.New()
	}
	if gv.CreatedAt.IsZero() {
		gv.CreatedAt = time.Now()
	}
	if err := q.GORM(ctx).Create(gv).Error; err != nil {
		return nil, fmt.Errorf("insert: %w", postgres.Classify(err))
	}
	return gv.Model()
}

func update[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID, values map[string]any,
) (*model.Vehicle, error) {
	var gvs []gVehicle
	err := q.GORM(ctx).Model(&gvs).Clauses(clause.Returning{}).Where(
		"id = ?", id,
	).Updates(values).Error
	if err != nil {
		return nil, fmt.Errorf("update: %w", postgres.Classify(err))
	}
	if n := len(gvs); n != 1 {
		return nil, cerr.NotFound(fmt.Errorf(
			"vehicle %s: expected one row, but got %d", id, n,
		))
	}
	return gvs[0].Model()
}

func SetStatus[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, s model.VehicleStatus) (*model.Vehicle, error) {
	return update(ctx, q, id, map[string]any{"status": s.String()})
}

// AdvanceOdometer sets the odometer of the id vehicle to reading,
// unless it is already larger than reading.
func AdvanceOdometer[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, reading float64) (*model.Vehicle, error) {
	return update(ctx, q, id, map[string]any{
		"odometer": gorm.Expr("GREATEST(odometer, ?)", reading),
	})
}

// Retire marks the id vehicle as retired permanently.
func Retire[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Vehicle, error) {
	return update(ctx, q, id, map[string]any{
		"status":  model.VehicleStatusRetired.String(),
		"retired": true,
	})
}
