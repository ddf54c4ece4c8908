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

const itemColumns = `
    i.id, i.name, i.description, i.photo_url, i.starting_price,
    i.purchase_price, i.last_bid, i.sellable, i.seller_id, u.username, i.created_at`

// ItemRepository implements domain.ItemRepository for PostgreSQL.
type ItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	item := &domain.Item{}
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.PhotoURL,
		&item.StartingPrice,
		&item.PurchasePrice,
		&item.LastBid,
		&item.Sellable,
		&item.SellerID,
		&item.SellerUsername,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `
        SELECT` + itemColumns + `
        FROM items i
        JOIN users u ON u.id = i.seller_id
        WHERE i.id = $1
    `
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

// GetForUpdate loads the item inside tx with a row lock, serializing
// every concurrent placeBid on the same item until commit/rollback.
func (r *ItemRepository) GetForUpdate(ctx context.Context, tx storage.Tx, id uuid.UUID) (*domain.Item, error) {
	pgtx, err := db.Unwrap(tx)
	if err != nil {
		return nil, err
	}
	query := `
        SELECT` + itemColumns + `
        FROM items i
        JOIN users u ON u.id = i.seller_id
        WHERE i.id = $1
        FOR UPDATE OF i
    `
	return scanItem(pgtx.QueryRow(ctx, query, id))
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
        INSERT INTO items (id, name, description, photo_url, starting_price, purchase_price, last_bid, sellable, seller_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		item.PhotoURL,
		item.StartingPrice,
		item.PurchasePrice,
		item.LastBid,
		item.Sellable,
		item.SellerID,
		item.CreatedAt,
	)
	return err
}

// Save writes back the only fields the engine mutates.
func (r *ItemRepository) Save(ctx context.Context, tx storage.Tx, item *domain.Item) error {
	pgtx, err := db.Unwrap(tx)
	if err != nil {
		return err
	}
	query := `
        UPDATE items
        SET last_bid = $2, sellable = $3
        WHERE id = $1
    `
	_, err = pgtx.Exec(ctx, query, item.ID, item.LastBid, item.Sellable)
	return err
}

// ListSellable reads the count and the page from one repeatable-read
// snapshot, so total_pages agrees with the returned rows even while
// items sell concurrently.
func (r *ItemRepository) ListSellable(ctx context.Context, offset, limit int) ([]*domain.Item, int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	var total int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE sellable`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT` + itemColumns + `
        FROM items i
        JOIN users u ON u.id = i.seller_id
        WHERE i.sellable
        ORDER BY i.created_at
        OFFSET $1 LIMIT $2
    `
	rows, err := tx.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
