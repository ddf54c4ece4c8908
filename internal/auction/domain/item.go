package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// photoURLPattern mirrors the upload path layout served by the static
// image host: /img/<name>.(jpg|gif|png)
var photoURLPattern = regexp.MustCompile(`^/img/[a-zA-Z0-9_-]+\.(?:jpg|gif|png)$`)

// Item is a listed auction item. LastBid only increases while Sellable
// is true; the Sellable flag flips to false exactly once, the instant a
// bid meets or exceeds PurchasePrice, and never comes back.
type Item struct {
	ID             uuid.UUID
	Name           string
	Description    string
	PhotoURL       string
	StartingPrice  int
	PurchasePrice  int
	LastBid        int
	Sellable       bool
	SellerID       uuid.UUID
	SellerUsername string
	CreatedAt      time.Time
}

// NewItem validates the listing data and creates a sellable item with
// LastBid 0. Invariants are enforced here instead of leaving defaulted
// fields that callers could omit.
func NewItem(name, description, photoURL string, startingPrice, purchasePrice int, sellerID uuid.UUID, sellerUsername string) (*Item, error) {
	switch {
	case name == "":
		return nil, fieldError("name", "item name is empty or missing")
	case description == "":
		return nil, fieldError("description", "item description is empty or missing")
	case photoURL == "":
		return nil, fieldError("photoURL", "URL is empty or missing")
	case !photoURLPattern.MatchString(photoURL):
		return nil, fieldError("photoURL", "invalid path")
	case startingPrice < 1:
		return nil, fieldError("startingPrice", "starting price must be greater than or equal to 1")
	case purchasePrice < 1:
		return nil, fieldError("purchasePrice", "purchase price must be greater than or equal to 1")
	}

	return &Item{
		ID:             uuid.New(),
		Name:           name,
		Description:    description,
		PhotoURL:       photoURL,
		StartingPrice:  startingPrice,
		PurchasePrice:  purchasePrice,
		LastBid:        0,
		Sellable:       true,
		SellerID:       sellerID,
		SellerUsername: sellerUsername,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// BidOutcome tags what an accepted bid did to the item.
type BidOutcome int

const (
	// OutcomeRaise is a bid strictly between the current highest bid
	// and the purchase price; the item stays open.
	OutcomeRaise BidOutcome = iota + 1
	// OutcomePurchase is a bid at or above the purchase price; the item
	// closes permanently.
	OutcomePurchase
)

// ApplyBid runs the bid validation ladder against the current item
// state and, when the bid is acceptable, mutates the item. First
// failing check wins. Callers must hold the item's critical section
// (row lock or per-item mutex) across the whole validate-then-persist
// sequence.
func (i *Item) ApplyBid(bidderID uuid.UUID, amount int) (BidOutcome, error) {
	if bidderID == i.SellerID {
		return 0, ErrBidOnOwnItem
	}
	if !i.Sellable {
		return 0, ErrItemNotSellable
	}
	if amount < i.StartingPrice || amount <= i.LastBid {
		return 0, ErrBidTooLow
	}

	// After the ladder the raise/purchase guards partition the amount
	// space, there is no third branch.
	i.LastBid = amount
	if amount >= i.PurchasePrice {
		i.Sellable = false
		return OutcomePurchase, nil
	}
	return OutcomeRaise, nil
}
