package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	"go.uber.org/zap"
)

// DeletePurchaseUseCase is the administrative compensating action: it
// removes a purchase record by id. The item it was attached to stays
// unsellable.
type DeletePurchaseUseCase struct {
	purchaseRepo domain.PurchaseRepository
}

func NewDeletePurchaseUseCase(purchaseRepo domain.PurchaseRepository) *DeletePurchaseUseCase {
	return &DeletePurchaseUseCase{purchaseRepo: purchaseRepo}
}

func (uc *DeletePurchaseUseCase) Execute(ctx context.Context, purchaseID uuid.UUID) error {
	if err := uc.purchaseRepo.Delete(ctx, purchaseID); err != nil {
		return err
	}
	log.Info("DeletePurchaseUseCase: purchase deleted",
		zap.String("purchaseID", purchaseID.String()),
	)
	return nil
}
