package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
)

// ItemRepository implements domain.ItemRepository on the shared Store.
type ItemRepository struct {
	store *Store
}

func NewItemRepository(store *Store) *ItemRepository {
	return &ItemRepository{store: store}
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return copyItem(item), nil
}

// GetForUpdate takes the per-item lock for the rest of the transaction
// before reading, the memory equivalent of SELECT ... FOR UPDATE.
func (r *ItemRepository) GetForUpdate(ctx context.Context, tx storage.Tx, id uuid.UUID) (*domain.Item, error) {
	t, err := txFrom(tx)
	if err != nil {
		return nil, err
	}
	t.hold(r.store.itemLock(id))

	return r.GetByID(ctx, id)
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.items[item.ID] = copyItem(item)
	r.store.itemOrder = append(r.store.itemOrder, item.ID)
	return nil
}

func (r *ItemRepository) Save(ctx context.Context, tx storage.Tx, item *domain.Item) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}
	snapshot := copyItem(item)
	t.stage(func() {
		r.store.items[snapshot.ID] = snapshot
	})
	return nil
}

func (r *ItemRepository) ListSellable(ctx context.Context, offset, limit int) ([]*domain.Item, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var sellable []*domain.Item
	for _, id := range r.store.itemOrder {
		if item := r.store.items[id]; item.Sellable {
			sellable = append(sellable, item)
		}
	}
	total := len(sellable)

	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]*domain.Item, 0, end-offset)
	for _, item := range sellable[offset:end] {
		page = append(page, copyItem(item))
	}
	return page, total, nil
}
