package application

import (
	"context"

	"github.com/google/uuid"
)

// AuctionService is the application interface of the auction module,
// exposed to the outer layers (HTTP, websocket feed).
type AuctionService interface {
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*BidResultDTO, error)
	CreateItem(ctx context.Context, cmd CreateItemDTO) (*ItemSummaryDTO, error)
	GetItemDetail(ctx context.Context, itemID uuid.UUID) (*ItemDetailDTO, error)
	ListSellableItems(ctx context.Context, page int) (*ItemPageDTO, error)
	DeletePurchase(ctx context.Context, purchaseID uuid.UUID) error
}

type auctionService struct {
	placeBidUC       *PlaceBidUseCase
	createItemUC     *CreateItemUseCase
	itemDetailUC     *GetItemDetailUseCase
	listItemsUC      *ListSellableItemsUseCase
	deletePurchaseUC *DeletePurchaseUseCase
}

func NewAuctionService(
	placeBidUC *PlaceBidUseCase,
	createItemUC *CreateItemUseCase,
	itemDetailUC *GetItemDetailUseCase,
	listItemsUC *ListSellableItemsUseCase,
	deletePurchaseUC *DeletePurchaseUseCase,
) AuctionService {
	return &auctionService{
		placeBidUC:       placeBidUC,
		createItemUC:     createItemUC,
		itemDetailUC:     itemDetailUC,
		listItemsUC:      listItemsUC,
		deletePurchaseUC: deletePurchaseUC,
	}
}

// PlaceBid implements AuctionService.
func (as *auctionService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*BidResultDTO, error) {
	return as.placeBidUC.Execute(ctx, cmd)
}

// CreateItem implements AuctionService.
func (as *auctionService) CreateItem(ctx context.Context, cmd CreateItemDTO) (*ItemSummaryDTO, error) {
	return as.createItemUC.Execute(ctx, cmd)
}

// GetItemDetail implements AuctionService.
func (as *auctionService) GetItemDetail(ctx context.Context, itemID uuid.UUID) (*ItemDetailDTO, error) {
	return as.itemDetailUC.Execute(ctx, itemID)
}

// ListSellableItems implements AuctionService.
func (as *auctionService) ListSellableItems(ctx context.Context, page int) (*ItemPageDTO, error) {
	return as.listItemsUC.Execute(ctx, page)
}

// DeletePurchase implements AuctionService.
func (as *auctionService) DeletePurchase(ctx context.Context, purchaseID uuid.UUID) error {
	return as.deletePurchaseUC.Execute(ctx, purchaseID)
}
