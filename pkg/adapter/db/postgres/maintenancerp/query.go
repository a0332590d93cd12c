// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package maintenancerp

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

type gMaintenance struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	VehicleID   uuid.UUID `gorm:"type:uuid"`
	Description string
	Cost        float64
	Status      string
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

func (gm *gMaintenance) TableName() string {
	return "maintenance_logs"
}

func (gm *gMaintenance) Model() (*model.MaintenanceLog, error) {
	s, err := model.ParseMaintenanceStatus(gm.Status)
	if err != nil {
		return nil, fmt.Errorf(
			"maintenance record %s status %q: %w", gm.ID, gm.Status, err,
		)
	}
	return &model.MaintenanceLog{
		ID:          gm.ID,
		VehicleID:   gm.VehicleID,
		Description: gm.Description,
		Cost:        gm.Cost,
		Status:      s,
		CreatedAt:   gm.CreatedAt,
		ClosedAt:    gm.ClosedAt,
	}, nil
}

func take(gdb *gorm.DB, id uuid.UUID) (*model.MaintenanceLog, error) {
	var gm gMaintenance
	if err := gdb.Take(&gm, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf(
			"maintenance record %s: %w", id, postgres.Classify(err),
		)
	}
	return gm.Model()
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.MaintenanceLog, error) {
	return take(q.GORM(ctx), id)
}

func Lock[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.MaintenanceLog, error) {
	gdb := q.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return take(gdb, id)
}

func List[Q postgres.Queryer](ctx context.Context, q Q, f model.MaintenanceFilter) ([]model.MaintenanceLog, error) {
	gdb := q.GORM(ctx).Order("created_at, id")
	if f.VehicleID != nil {
		gdb = gdb.Where("vehicle_id = ?", *f.VehicleID)
	}
	if f.Status != model.MaintenanceStatusInvalid {
		gdb = gdb.Where("status = ?", f.Status.String())
	}
	var gms []gMaintenance
	if err := gdb.Find(&gms).Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	ms := make([]model.MaintenanceLog, 0, len(gms))
	for i := range gms {
		m, err := gms[i].Model()
		if err != nil {
			return nil, err
		}
		ms = append(ms, *m)
	}
	return ms, nil
}

// HasOpen reports if the vehicleID vehicle has an OPEN maintenance
// record.
func HasOpen[Q postgres.Queryer](ctx context.Context, q Q, vehicleID uuid.UUID) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&gMaintenance{}).Where(
		"vehicle_id = ? AND status = ?",
		vehicleID, model.MaintenanceStatusOpen.String(),
	).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	return n > 0, nil
}

// Create inserts the m record. A second OPEN record for one vehicle
// violates the partial unique index and is reported as an active
// record error.
func Create[Q postgres.Queryer](ctx context.Context, q Q, m *model.MaintenanceLog) (*model.MaintenanceLog, error) {
	gm := &gMaintenance{
		ID:          m.ID,
		VehicleID:   m.VehicleID,
		Description: m.Description,
		Cost:        m.Cost,
		Status:      m.Status.String(),
		CreatedAt:   m.CreatedAt,
		ClosedAt:    m.ClosedAt,
	}
	if gm.ID == uuid.Nil {
		gm.ID = uuid.New()
	}
	if gm.CreatedAt.IsZero() {
		gm.CreatedAt = time.Now()
	}
	if err := q.GORM(ctx).Create(gm).Error; err != nil {
		return nil, fmt.Errorf("insert: %w", postgres.Classify(err))
	}
	return gm.Model()
}

// Close marks the id record as CLOSED at the given time.
func Close[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, at time.Time) (*model.MaintenanceLog, error) {
	var gms []gMaintenance
	err := q.GORM(ctx).Model(&gms).Clauses(clause.Returning{}).Where(
		"id = ?", id,
	).Updates(map[string]any{
		"status":    model.MaintenanceStatusClosed.String(),
		"closed_at": at,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update: %w", postgres.Classify(err))
	}
	if n := len(gms); n != 1 {
		return nil, cerr.NotFound(fmt.Errorf(
			"maintenance record %s: expected one row, but got %d", id, n,
		))
	}
	return gms[0].Model()
}
