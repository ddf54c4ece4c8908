package db

import (
	"context"
	"fmt"

	"github.com/greenbay-io/greenbay/internal/shared/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager starts pgx transactions behind the storage.TxManager
// interface.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// Unwrap recovers the pgx transaction from the opaque handle; the
// repositories in the postgres packages are only ever paired with this
// manager.
func Unwrap(tx storage.Tx) (pgx.Tx, error) {
	p, ok := tx.(*pgTx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction handle %T", tx)
	}
	return p.tx, nil
}
