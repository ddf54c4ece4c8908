package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
)

// BidRepository implements domain.BidRepository on the shared Store.
// Append-only; creation order is preserved per item.
type BidRepository struct {
	store *Store
}

func NewBidRepository(store *Store) *BidRepository {
	return &BidRepository{store: store}
}

func (r *BidRepository) Save(ctx context.Context, tx storage.Tx, bid *domain.Bid) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}
	snapshot := copyBid(bid)
	t.stage(func() {
		r.store.bids[snapshot.ItemID] = append(r.store.bids[snapshot.ItemID], snapshot)
	})
	return nil
}

func (r *BidRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.Bid, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bids := r.store.bids[itemID]
	out := make([]*domain.Bid, 0, len(bids))
	for _, b := range bids {
		out = append(out, copyBid(b))
	}
	return out, nil
}
