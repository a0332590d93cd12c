package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type DriversConnQueryer interface {
	DriversQueryer
}

type DriversTxQueryer interface {
	DriversQueryer
	Create(ctx context.Context, d *model.Driver) (*model.Driver, error)
	Lock(ctx context.Context, id uuid.UUID) (*model.Driver, error)
	SetStatus(ctx context.Context, id uuid.UUID, s model.DriverStatus) (*model.Driver, error)
}

type DriversQueryer interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Driver, error)
	List(ctx context.Context, f model.DriverFilter) ([]model.Driver, error)
}

type Drivers interface {
	Conn(Conn) DriversConnQueryer
	Tx(Tx) DriversTxQueryer
}
