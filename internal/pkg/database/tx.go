package database

import "context"

// TxRunner runs fn inside a single database transaction. The context passed
// to fn carries the transaction; repositories resolve it transparently.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
