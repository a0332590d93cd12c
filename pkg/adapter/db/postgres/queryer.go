package postgres

import (
	"context"

	"github.com/momeni/fleetflow/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the type constraint of generic query functions which may
// run either on a connection or in a transaction.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}
