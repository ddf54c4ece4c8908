package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
)

// BidEntryDTO is one line of an item's bid history.
type BidEntryDTO struct {
	ID             uuid.UUID
	BidderUsername string
	Amount         int
}

// ItemDetailDTO is the detail view of an item. A sellable item carries
// its bid history; a sold item carries the buyer and the price paid.
type ItemDetailDTO struct {
	ID             uuid.UUID
	Name           string
	Description    string
	PhotoURL       string
	SellerUsername string
	Sellable       bool
	LastBid        int

	Bids []BidEntryDTO // sellable view

	BuyerUsername string // sold view
	BuyingPrice   int
}

// GetItemDetailUseCase builds the sellable or sold view of one item.
type GetItemDetailUseCase struct {
	itemRepo     domain.ItemRepository
	bidRepo      domain.BidRepository
	purchaseRepo domain.PurchaseRepository
}

func NewGetItemDetailUseCase(itemRepo domain.ItemRepository, bidRepo domain.BidRepository, purchaseRepo domain.PurchaseRepository) *GetItemDetailUseCase {
	return &GetItemDetailUseCase{itemRepo: itemRepo, bidRepo: bidRepo, purchaseRepo: purchaseRepo}
}

func (uc *GetItemDetailUseCase) Execute(ctx context.Context, itemID uuid.UUID) (*ItemDetailDTO, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	dto := &ItemDetailDTO{
		ID:             item.ID,
		Name:           item.Name,
		Description:    item.Description,
		PhotoURL:       item.PhotoURL,
		SellerUsername: item.SellerUsername,
		Sellable:       item.Sellable,
		LastBid:        item.LastBid,
	}

	if !item.Sellable {
		purchase, err := uc.purchaseRepo.GetByItem(ctx, itemID)
		if err != nil {
			// A closed item without a purchase record only exists after
			// an administrative delete; surface it as missing record.
			return nil, fmt.Errorf("item detail %s: %w", itemID, err)
		}
		dto.BuyerUsername = purchase.BuyerUsername
		dto.BuyingPrice = purchase.Amount
		return dto, nil
	}

	bids, err := uc.bidRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item detail %s: list bids: %w", itemID, err)
	}
	dto.Bids = make([]BidEntryDTO, 0, len(bids))
	for _, b := range bids {
		dto.Bids = append(dto.Bids, BidEntryDTO{
			ID:             b.ID,
			BidderUsername: b.BidderUsername,
			Amount:         b.Amount,
		})
	}
	return dto, nil
}
