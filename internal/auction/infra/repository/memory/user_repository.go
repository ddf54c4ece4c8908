package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
	userdomain "github.com/greenbay-io/greenbay/internal/user/domain"
)

// UserRepository implements the user ledger on the shared Store. It
// lives in this package because the memory backend is one state blob;
// the postgres backends keep it in the user module.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*userdomain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.usersByName[username]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	return copyUser(r.store.users[id]), nil
}

func (r *UserRepository) Create(ctx context.Context, user *userdomain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.users[user.ID] = copyUser(user)
	r.store.usersByName[user.Username] = user.ID
	return nil
}

// Debit re-checks sufficiency while holding the per-user lock for the
// rest of the transaction, so no other transaction can drain the
// balance between the check and the commit.
func (r *UserRepository) Debit(ctx context.Context, tx storage.Tx, userID uuid.UUID, amount int) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}
	t.hold(r.store.userLock(userID))

	r.store.mu.RLock()
	user, ok := r.store.users[userID]
	sufficient := ok && user.Balance >= float64(amount)
	r.store.mu.RUnlock()

	if !sufficient {
		return userdomain.ErrInsufficientFunds
	}
	t.stage(func() {
		r.store.users[userID].Balance -= float64(amount)
	})
	return nil
}

func (r *UserRepository) UpdateBalance(ctx context.Context, username string, balance float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.usersByName[username]
	if !ok {
		return userdomain.ErrUserNotFound
	}
	r.store.users[id].Balance = balance
	return nil
}
