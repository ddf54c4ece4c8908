package storage

import "context"

// Tx is an opaque transaction handle passed through repository methods
// that take part in an atomic write. Concrete backends (pgx, memory)
// provide their own implementation; repositories unwrap the handle they
// were paired with.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager starts transactions for the backend the repositories run on.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}
