package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
)

// UserRepository is the account ledger: balances live here and are only
// decremented through Debit, inside the same transaction as the rest of
// a winning purchase.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	// Debit decrements the balance by amount, re-checking sufficiency
	// under the transaction. Returns ErrInsufficientFunds when the
	// decrement would go negative.
	Debit(ctx context.Context, tx storage.Tx, userID uuid.UUID, amount int) error
	// UpdateBalance is the administrative override, outside the auction
	// invariant chain.
	UpdateBalance(ctx context.Context, username string, balance float64) error
}
