package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	userdomain "github.com/greenbay-io/greenbay/internal/user/domain"
	"go.uber.org/zap"
)

// CreateItemDTO is the input for listing a new item.
type CreateItemDTO struct {
	Name          string
	Description   string
	PhotoURL      string
	StartingPrice int
	PurchasePrice int
	SellerID      uuid.UUID
}

// ItemSummaryDTO is the listing confirmation returned to the seller.
type ItemSummaryDTO struct {
	ID             uuid.UUID
	Name           string
	Description    string
	PhotoURL       string
	StartingPrice  int
	PurchasePrice  int
	SellerUsername string
}

// CreateItemUseCase lists a new item for a seller. Independent of the
// bidding invariants, no concurrency concerns beyond the insert itself.
type CreateItemUseCase struct {
	itemRepo domain.ItemRepository
	userRepo userdomain.UserRepository
}

func NewCreateItemUseCase(itemRepo domain.ItemRepository, userRepo userdomain.UserRepository) *CreateItemUseCase {
	return &CreateItemUseCase{itemRepo: itemRepo, userRepo: userRepo}
}

func (uc *CreateItemUseCase) Execute(ctx context.Context, cmd CreateItemDTO) (*ItemSummaryDTO, error) {
	seller, err := uc.userRepo.GetByID(ctx, cmd.SellerID)
	if err != nil {
		return nil, fmt.Errorf("create item: resolve seller %s: %w", cmd.SellerID, err)
	}

	item, err := domain.NewItem(cmd.Name, cmd.Description, cmd.PhotoURL, cmd.StartingPrice, cmd.PurchasePrice, seller.ID, seller.Username)
	if err != nil {
		return nil, err
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		log.Error("CreateItemUseCase: failed to create item",
			zap.String("seller", seller.Username),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create item: %w: %w", domain.ErrStorageFailure, err)
	}

	log.Info("CreateItemUseCase: item listed",
		zap.String("itemID", item.ID.String()),
		zap.String("seller", seller.Username),
		zap.Int("startingPrice", item.StartingPrice),
		zap.Int("purchasePrice", item.PurchasePrice),
	)

	return &ItemSummaryDTO{
		ID:             item.ID,
		Name:           item.Name,
		Description:    item.Description,
		PhotoURL:       item.PhotoURL,
		StartingPrice:  item.StartingPrice,
		PurchasePrice:  item.PurchasePrice,
		SellerUsername: item.SellerUsername,
	}, nil
}
