package repo

import "context"

// Queryer runs raw statements, such as the schema management DDL.
// The use cases rely on the typed repository methods instead.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
}
