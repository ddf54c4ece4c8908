package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	"github.com/greenbay-io/greenbay/internal/shared/db"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PurchaseRepository implements domain.PurchaseRepository for
// PostgreSQL. The UNIQUE constraint on item_id backs the zero-or-one
// purchase invariant.
type PurchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

func (r *PurchaseRepository) Save(ctx context.Context, tx storage.Tx, purchase *domain.Purchase) error {
	pgtx, err := db.Unwrap(tx)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO purchases (id, item_id, buyer_id, amount, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err = pgtx.Exec(ctx, query,
		purchase.ID,
		purchase.ItemID,
		purchase.BuyerID,
		purchase.Amount,
		purchase.CreatedAt,
	)
	return err
}

func (r *PurchaseRepository) GetByItem(ctx context.Context, itemID uuid.UUID) (*domain.Purchase, error) {
	query := `
        SELECT p.id, p.item_id, p.buyer_id, u.username, p.amount, p.created_at
        FROM purchases p
        JOIN users u ON u.id = p.buyer_id
        WHERE p.item_id = $1
    `
	purchase := &domain.Purchase{}
	err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&purchase.ID,
		&purchase.ItemID,
		&purchase.BuyerID,
		&purchase.BuyerUsername,
		&purchase.Amount,
		&purchase.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, err
	}
	return purchase, nil
}

// Delete removes a purchase by id, atomic find-then-delete.
func (r *PurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPurchaseNotFound
	}
	return nil
}
