// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package driversrp

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

type gDriver struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid"`
	ActorID       uuid.UUID `gorm:"type:uuid"`
	Name          string
	LicenseExpiry time.Time `gorm:"type:date"`
	SafetyScore   float64
	Status        string
	CreatedAt     time.Time
}

func (gd *gDriver) TableName() string {
	return "drivers"
}

func (gd *gDriver) Model() (*model.Driver, error) {
	s, err := model.ParseDriverStatus(gd.Status)
	if err != nil {
		return nil, fmt.Errorf("driver %s status %q: %w", gd.ID, gd.Status, err)
	}
	return &model.Driver{
		ID:            gd.ID,
		ActorID:       gd.ActorID,
		Name:          gd.Name,
		LicenseExpiry: gd.LicenseExpiry,
		SafetyScore:   gd.SafetyScore,
		Status:        s,
		CreatedAt:     gd.CreatedAt,
	}, nil
}

func take(gdb *gorm.DB, id uuid.UUID) (*model.Driver, error) {
	var gd gDriver
	if err := gdb.Take(&gd, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("driver %s: %w", id, postgres.Classify(err))
	}
	return gd.Model()
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Driver, error) {
	return take(q.GORM(ctx), id)
}

// Lock reads the id driver while locking its row until the end of the
// current transaction.
func Lock[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Driver, error) {
	gdb := q.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return take(gdb, id)
}

func List[Q postgres.Queryer](ctx context.Context, q Q, f model.DriverFilter) ([]model.Driver, error) {
	gdb := q.GORM(ctx).Order("created_at, id")
	if f.Status != model.DriverStatusInvalid {
		gdb = gdb.Where("status = ?", f.Status.String())
	}
	var gds []gDriver
	if err := gdb.Find(&gds).Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	ds := make([]model.Driver, 0, len(gds))
	for i := range gds {
		d, err := gds[i].Model()
		if err != nil {
			return nil, err
		}
		ds = append(ds, *d)
	}
	return ds, nil
}

// Create inserts the d driver. Linking two drivers to one actor fails
// with a conflict error.
func Create[Q postgres.Queryer](ctx context.Context, q Q, d *model.Driver) (*model.Driver, error) {
	gd := &gDriver{
		ID:            d.ID,
		ActorID:       d.ActorID,
		Name:          d.Name,
		LicenseExpiry: d.LicenseExpiry,
		SafetyScore:   d.SafetyScore,
		Status:        d.Status.String(),
		CreatedAt:     d.CreatedAt,
	}
	if gd.ID == uuid.Nil {
		gd.ID = uuid.New()
	}
	if gd.CreatedAt.IsZero() {
		gd.CreatedAt = time.Now()
	}
	if err := q.GORM(ctx).Create(gd).Error; err != nil {
		return nil, fmt.Errorf("insert: %w", postgres.Classify(err))
	}
	return gd.Model()
}

func SetStatus[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, s model.DriverStatus) (*model.Driver, error) {
	var gds []gDriver
	err := q.GORM(ctx).Model(&gds).Clauses(clause.Returning{}).Where(
		"id = ?", id,
	).Updates(map[string]any{"status": s.String()}).Error
	if err != nil {
		return nil, fmt.Errorf("update: %w", postgres.Classify(err))
	}
	if n := len(gds); n != 1 {
		return nil, cerr.NotFound(fmt.Errorf(
			"driver %s: expected one row, but got %d", id, n,
		))
	}
	return gds[0].Model()
}
