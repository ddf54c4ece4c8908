package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
)

// PageSize is fixed by the storefront layout.
const PageSize = 3

// ItemPageEntryDTO is one storefront card on a listing page.
type ItemPageEntryDTO struct {
	ID             uuid.UUID
	Name           string
	PhotoURL       string
	LastBid        int
	SellerUsername string
}

// ItemPageDTO is one page of sellable items. Pages are 1-based.
type ItemPageDTO struct {
	Page       int
	TotalPages int
	Items      []ItemPageEntryDTO
}

// ListSellableItemsUseCase pages through sellable items in insertion
// order.
type ListSellableItemsUseCase struct {
	itemRepo domain.ItemRepository
}

func NewListSellableItemsUseCase(itemRepo domain.ItemRepository) *ListSellableItemsUseCase {
	return &ListSellableItemsUseCase{itemRepo: itemRepo}
}

func (uc *ListSellableItemsUseCase) Execute(ctx context.Context, page int) (*ItemPageDTO, error) {
	if page < 1 {
		return nil, domain.ErrNoSuchPage
	}

	items, total, err := uc.itemRepo.ListSellable(ctx, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("list items page %d: %w", page, err)
	}

	totalPages := (total + PageSize - 1) / PageSize
	if total == 0 || page > totalPages {
		return nil, domain.ErrNoSuchPage
	}

	dto := &ItemPageDTO{
		Page:       page,
		TotalPages: totalPages,
		Items:      make([]ItemPageEntryDTO, 0, len(items)),
	}
	for _, it := range items {
		dto.Items = append(dto.Items, ItemPageEntryDTO{
			ID:             it.ID,
			Name:           it.Name,
			PhotoURL:       it.PhotoURL,
			LastBid:        it.LastBid,
			SellerUsername: it.SellerUsername,
		})
	}
	return dto, nil
}
