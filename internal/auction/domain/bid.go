package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bid is one raise attempt that was accepted. Append-only, immutable
// once created; a bid on its own moves no money.
type Bid struct {
	ID             uuid.UUID
	ItemID         uuid.UUID
	BidderID       uuid.UUID
	BidderUsername string
	Amount         int
	CreatedAt      time.Time
}

// NewBid creates a bid record for an already validated amount.
func NewBid(itemID, bidderID uuid.UUID, bidderUsername string, amount int) *Bid {
	return &Bid{
		ID:             uuid.New(),
		ItemID:         itemID,
		BidderID:       bidderID,
		BidderUsername: bidderUsername,
		Amount:         amount,
		CreatedAt:      time.Now().UTC(),
	}
}
