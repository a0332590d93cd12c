package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type MaintenanceConnQueryer interface {
	MaintenanceQueryer
}

// MaintenanceTxQueryer adds the mutating queries. HasOpen reports if
// the vehicle has an OPEN record and must be called after locking the
// vehicle row.
type MaintenanceTxQueryer interface {
	MaintenanceQueryer
	Create(ctx context.Context, m *model.MaintenanceLog) (*model.MaintenanceLog, error)
	Lock(ctx context.Context, id uuid.UUID) (*model.MaintenanceLog, error)
	Close(ctx context.Context, id uuid.UUID, at time.Time) (*model.MaintenanceLog, error)
	HasOpen(ctx context.Context, vehicleID uuid.UUID) (bool, error)
}

type MaintenanceQueryer interface {
	Get(ctx context.Context, id uuid.UUID) (*model.MaintenanceLog, error)
	List(ctx context.Context, f model.MaintenanceFilter) ([]model.MaintenanceLog, error)
}

type Maintenance interface {
	Conn(Conn) MaintenanceConnQueryer
	Tx(Tx) MaintenanceTxQueryer
}
