package repo

import (
	"context"

	"github.com/momeni/fleetflow/pkg/core/model"
)

type FuelConnQueryer interface {
	FuelQueryer
}

type FuelTxQueryer interface {
	FuelQueryer
	Create(ctx context.Context, f *model.FuelLog) (*model.FuelLog, error)
}

type FuelQueryer interface {
	List(ctx context.Context, f model.FuelFilter) ([]model.FuelLog, error)
}

type Fuel interface {
	Conn(Conn) FuelConnQueryer
	Tx(Tx) FuelTxQueryer
}
