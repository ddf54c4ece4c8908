package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. Authentication and credential issuance
// live in an external identity provider; here a user is an id, a name
// and a greenBay dollar balance.
type User struct {
	ID        uuid.UUID
	Username  string
	Balance   float64
	CreatedAt time.Time
}

// NewUser creates an account with the given opening balance, negative
// balances are rejected.
func NewUser(username string, balance float64) (*User, error) {
	if username == "" {
		return nil, ErrInvalidUser
	}
	if balance < 0 {
		return nil, ErrNegativeBalance
	}
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}, nil
}
