package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type VehiclesConnQueryer interface {
	VehiclesQueryer
}

type VehiclesTxQueryer interface {
	VehiclesQueryer
	Create(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error)
	Lock(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	SetStatus(ctx context.Context, id uuid.UUID, s model.VehicleStatus) (*model.Vehicle, error)
	AdvanceOdometer(ctx context.Context, id uuid.UUID, reading float64) (*model.Vehicle, error)
	Retire(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
}

type VehiclesQueryer interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	List(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error)
}

type Vehicles interface {
	Conn(Conn) VehiclesConnQueryer
	Tx(Tx) VehiclesTxQueryer
}
