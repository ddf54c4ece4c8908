package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is the record of a completed sale. An item has zero or one
// purchase; if one exists the item is no longer sellable. Administrative
// deletion is a compensating action and does not restore sellability.
type Purchase struct {
	ID            uuid.UUID
	ItemID        uuid.UUID
	BuyerID       uuid.UUID
	BuyerUsername string
	Amount        int
	CreatedAt     time.Time
}

// NewPurchase creates a purchase record for the winning bid amount.
func NewPurchase(itemID, buyerID uuid.UUID, buyerUsername string, amount int) *Purchase {
	return &Purchase{
		ID:            uuid.New(),
		ItemID:        itemID,
		BuyerID:       buyerID,
		BuyerUsername: buyerUsername,
		Amount:        amount,
		CreatedAt:     time.Now().UTC(),
	}
}
