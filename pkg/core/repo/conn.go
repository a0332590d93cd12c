package repo

import "context"

// TxHandler is a function which runs inside of a transaction. The
// transaction is committed if it returns nil and rolled back otherwise.
type TxHandler func(context.Context, Tx) error

type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error
	IsConn()
}
