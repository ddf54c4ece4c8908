package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	"github.com/greenbay-io/greenbay/internal/shared/db"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository implements domain.BidRepository for PostgreSQL.
type BidRepository struct {
	pool *pgxpool.Pool
}

func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

// Save only inserts the bid; the surrounding transaction is owned by
// the place-bid use case.
func (r *BidRepository) Save(ctx context.Context, tx storage.Tx, bid *domain.Bid) error {
	pgtx, err := db.Unwrap(tx)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO bids (id, item_id, bidder_id, amount, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err = pgtx.Exec(ctx, query,
		bid.ID,
		bid.ItemID,
		bid.BidderID,
		bid.Amount,
		bid.CreatedAt,
	)
	return err
}

func (r *BidRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.Bid, error) {
	query := `
        SELECT b.id, b.item_id, b.bidder_id, u.username, b.amount, b.created_at
        FROM bids b
        JOIN users u ON u.id = b.bidder_id
        WHERE b.item_id = $1
        ORDER BY b.created_at ASC
    `
	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid := &domain.Bid{}
		err := rows.Scan(
			&bid.ID,
			&bid.ItemID,
			&bid.BidderID,
			&bid.BidderUsername,
			&bid.Amount,
			&bid.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}
