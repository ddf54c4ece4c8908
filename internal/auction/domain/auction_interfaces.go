package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
)

// ItemRepository is the item catalog. GetForUpdate pins the item for
// the duration of the transaction so that placeBid behaves as if under
// mutual exclusion per item.
type ItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	GetForUpdate(ctx context.Context, tx storage.Tx, id uuid.UUID) (*Item, error)
	Create(ctx context.Context, item *Item) error
	// Save writes back LastBid and Sellable; monotonicity was already
	// validated by the caller under the item's critical section.
	Save(ctx context.Context, tx storage.Tx, item *Item) error
	// ListSellable returns one page of sellable items in insertion
	// order plus the total sellable count.
	ListSellable(ctx context.Context, offset, limit int) ([]*Item, int, error)
}

// BidRepository is the append-only bid history.
type BidRepository interface {
	Save(ctx context.Context, tx storage.Tx, bid *Bid) error
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*Bid, error)
}

// PurchaseRepository is the append-only purchase log, with the single
// administrative compensating delete.
type PurchaseRepository interface {
	Save(ctx context.Context, tx storage.Tx, purchase *Purchase) error
	GetByItem(ctx context.Context, itemID uuid.UUID) (*Purchase, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
