package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
)

// PurchaseRepository implements domain.PurchaseRepository on the shared
// Store.
type PurchaseRepository struct {
	store *Store
}

func NewPurchaseRepository(store *Store) *PurchaseRepository {
	return &PurchaseRepository{store: store}
}

func (r *PurchaseRepository) Save(ctx context.Context, tx storage.Tx, purchase *domain.Purchase) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}
	snapshot := copyPurchase(purchase)
	t.stage(func() {
		r.store.purchases[snapshot.ID] = snapshot
		r.store.purchaseByItem[snapshot.ItemID] = snapshot.ID
	})
	return nil
}

func (r *PurchaseRepository) GetByItem(ctx context.Context, itemID uuid.UUID) (*domain.Purchase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.purchaseByItem[itemID]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	return copyPurchase(r.store.purchases[id]), nil
}

func (r *PurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	purchase, ok := r.store.purchases[id]
	if !ok {
		return domain.ErrPurchaseNotFound
	}
	delete(r.store.purchases, id)
	delete(r.store.purchaseByItem, purchase.ItemID)
	return nil
}
