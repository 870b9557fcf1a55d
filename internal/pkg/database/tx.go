package database

import "context"

// TxManager runs fn inside one store transaction. Repositories called with
// the ctx passed to fn take part in that transaction; nested calls join the
// outer one. Any error returned by fn rolls everything back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
