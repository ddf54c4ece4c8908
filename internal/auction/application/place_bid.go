package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	"github.com/greenbay-io/greenbay/internal/shared/logger"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
	userdomain "github.com/greenbay-io/greenbay/internal/user/domain"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// PlaceBidDTO is the input for the PlaceBid use case.
type PlaceBidDTO struct {
	ItemID   uuid.UUID
	BidderID uuid.UUID
	Amount   int
}

// BidResultDTO is the outcome of an accepted bid: a raise keeps the
// item open, a purchase closes it and debits the buyer.
type BidResultDTO struct {
	Outcome        domain.BidOutcome
	ItemID         uuid.UUID
	ItemName       string
	Description    string
	PhotoURL       string
	SellerUsername string
	BuyerUsername  string // only set on a purchase
	Amount         int
}

// PlaceBidUseCase processes one bid attempt as a single logical
// transaction: validate against item state and bidder balance, decide
// raise vs purchase, and apply all writes atomically.
type PlaceBidUseCase struct {
	itemRepo     domain.ItemRepository
	bidRepo      domain.BidRepository
	purchaseRepo domain.PurchaseRepository
	userRepo     userdomain.UserRepository
	txm          storage.TxManager
}

// NewPlaceBidUseCase creates the use case, dependencies come through
// injection.
func NewPlaceBidUseCase(
	itemRepo domain.ItemRepository,
	bidRepo domain.BidRepository,
	purchaseRepo domain.PurchaseRepository,
	userRepo userdomain.UserRepository,
	txm storage.TxManager,
) *PlaceBidUseCase {
	return &PlaceBidUseCase{
		itemRepo:     itemRepo,
		bidRepo:      bidRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		txm:          txm,
	}
}

// Execute runs the validation ladder and, when the bid is acceptable,
// applies item update, bid record, purchase record and balance debit as
// one atomic unit. Validation failures come back as domain errors; any
// persistence error inside the transaction comes back wrapped in
// domain.ErrStorageFailure and leaves no partial state.
func (uc *PlaceBidUseCase) Execute(ctx context.Context, cmd PlaceBidDTO) (result *BidResultDTO, err error) {
	log.Info("Executing PlaceBidUseCase",
		zap.String("itemID", cmd.ItemID.String()),
		zap.String("bidderID", cmd.BidderID.String()),
		zap.Int("amount", cmd.Amount),
	)
	if cmd.Amount < 1 {
		return nil, domain.ErrInvalidAmount
	}

	bidder, err := uc.userRepo.GetByID(ctx, cmd.BidderID)
	if err != nil {
		return nil, fmt.Errorf("place bid: resolve bidder %s: %w", cmd.BidderID, err)
	}
	// Balance gate runs before the item is even looked at, matching the
	// check order of the engine contract.
	if bidder.Balance <= 0 {
		return nil, userdomain.ErrNoFunds
	}
	if bidder.Balance < float64(cmd.Amount) {
		return nil, userdomain.ErrInsufficientFunds
	}

	tx, err := uc.txm.Begin(ctx)
	if err != nil {
		log.Error("PlaceBidUseCase: failed to begin transaction",
			zap.String("itemID", cmd.ItemID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("place bid: begin transaction: %w: %w", domain.ErrStorageFailure, err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("PlaceBidUseCase: recovered from panic during transaction",
				zap.String("itemID", cmd.ItemID.String()),
				zap.Any("panic", r),
			)
			_ = tx.Rollback(ctx)
			panic(r)
		}
		// 'err' still set at the end of the function means a later step
		// failed; only the rollback is logged here, the step logged the
		// cause itself.
		if err != nil {
			log.Warn("PlaceBidUseCase: rolling back transaction",
				zap.String("itemID", cmd.ItemID.String()),
				zap.Error(err),
			)
			_ = tx.Rollback(ctx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			log.Error("PlaceBidUseCase: failed to commit transaction",
				zap.String("itemID", cmd.ItemID.String()),
				zap.Error(commitErr),
			)
			result = nil
			err = fmt.Errorf("place bid: commit transaction: %w: %w", domain.ErrStorageFailure, commitErr)
		}
	}()

	// The item row stays locked from here until commit/rollback: two
	// bidders racing for the same item serialize on this read.
	item, err := uc.itemRepo.GetForUpdate(ctx, tx, cmd.ItemID)
	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			log.Error("PlaceBidUseCase: failed to get item",
				zap.String("itemID", cmd.ItemID.String()),
				zap.Error(err),
			)
			err = fmt.Errorf("place bid: get item %s: %w: %w", cmd.ItemID, domain.ErrStorageFailure, err)
			return nil, err
		}
		return nil, err
	}

	outcome, err := item.ApplyBid(bidder.ID, cmd.Amount)
	if err != nil {
		log.Warn("PlaceBidUseCase: bid rejected",
			zap.String("itemID", cmd.ItemID.String()),
			zap.String("bidderID", cmd.BidderID.String()),
			zap.Int("amount", cmd.Amount),
			zap.Error(err),
		)
		return nil, err
	}

	newBid := domain.NewBid(item.ID, bidder.ID, bidder.Username, cmd.Amount)
	if err = uc.itemRepo.Save(ctx, tx, item); err != nil {
		err = fmt.Errorf("place bid: save item %s: %w: %w", item.ID, domain.ErrStorageFailure, err)
		return nil, err
	}
	if err = uc.bidRepo.Save(ctx, tx, newBid); err != nil {
		err = fmt.Errorf("place bid: save bid %s: %w: %w", newBid.ID, domain.ErrStorageFailure, err)
		return nil, err
	}

	result = &BidResultDTO{
		Outcome:        outcome,
		ItemID:         item.ID,
		ItemName:       item.Name,
		Description:    item.Description,
		PhotoURL:       item.PhotoURL,
		SellerUsername: item.SellerUsername,
		Amount:         cmd.Amount,
	}

	if outcome == domain.OutcomePurchase {
		purchase := domain.NewPurchase(item.ID, bidder.ID, bidder.Username, cmd.Amount)
		if err = uc.purchaseRepo.Save(ctx, tx, purchase); err != nil {
			err = fmt.Errorf("place bid: save purchase for item %s: %w: %w", item.ID, domain.ErrStorageFailure, err)
			return nil, err
		}
		// Sufficiency is re-checked under the transaction: a bidder
		// racing themselves across two items cannot overdraw.
		if err = uc.userRepo.Debit(ctx, tx, bidder.ID, cmd.Amount); err != nil {
			if !errors.Is(err, userdomain.ErrInsufficientFunds) {
				err = fmt.Errorf("place bid: debit bidder %s: %w: %w", bidder.ID, domain.ErrStorageFailure, err)
			}
			return nil, err
		}
		result.BuyerUsername = bidder.Username

		log.Info("PlaceBidUseCase: item purchased",
			zap.String("itemID", item.ID.String()),
			zap.String("buyer", bidder.Username),
			zap.Int("price", cmd.Amount),
		)
		return result, nil
	}

	log.Info("PlaceBidUseCase: bid placed",
		zap.String("itemID", item.ID.String()),
		zap.String("bidder", bidder.Username),
		zap.Int("amount", cmd.Amount),
	)
	return result, nil
}
