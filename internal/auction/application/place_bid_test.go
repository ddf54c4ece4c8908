package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/application"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	"github.com/greenbay-io/greenbay/internal/auction/infra/repository/memory"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
	userdomain "github.com/greenbay-io/greenbay/internal/user/domain"
	"github.com/stretchr/testify/require"
)

// env wires the use cases against a fresh memory store, the same
// composition main uses in demo mode.
type env struct {
	store        *memory.Store
	itemRepo     *memory.ItemRepository
	bidRepo      *memory.BidRepository
	purchaseRepo *memory.PurchaseRepository
	userRepo     *memory.UserRepository
	svc          application.AuctionService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	e := &env{
		store:        store,
		itemRepo:     memory.NewItemRepository(store),
		bidRepo:      memory.NewBidRepository(store),
		purchaseRepo: memory.NewPurchaseRepository(store),
		userRepo:     memory.NewUserRepository(store),
	}
	e.svc = application.NewAuctionService(
		application.NewPlaceBidUseCase(e.itemRepo, e.bidRepo, e.purchaseRepo, e.userRepo, store),
		application.NewCreateItemUseCase(e.itemRepo, e.userRepo),
		application.NewGetItemDetailUseCase(e.itemRepo, e.bidRepo, e.purchaseRepo),
		application.NewListSellableItemsUseCase(e.itemRepo),
		application.NewDeletePurchaseUseCase(e.purchaseRepo),
	)
	return e
}

func (e *env) seedUser(t *testing.T, username string, balance float64) *userdomain.User {
	t.Helper()
	user, err := userdomain.NewUser(username, balance)
	require.NoError(t, err)
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *env) seedItem(t *testing.T, sellerID uuid.UUID, startingPrice, purchasePrice int) uuid.UUID {
	t.Helper()
	summary, err := e.svc.CreateItem(context.Background(), application.CreateItemDTO{
		Name:          "lava lamp",
		Description:   "still bubbling",
		PhotoURL:      "/img/lava-lamp.jpg",
		StartingPrice: startingPrice,
		PurchasePrice: purchasePrice,
		SellerID:      sellerID,
	})
	require.NoError(t, err)
	return summary.ID
}

func TestPlaceBid_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("amount below one", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		bidder := e.seedUser(t, "bidder", 100)

		_, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: uuid.New(), BidderID: bidder.ID, Amount: 0,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("unknown bidder", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		_, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: uuid.New(), BidderID: uuid.New(), Amount: 10,
		})
		require.ErrorIs(t, err, userdomain.ErrUserNotFound)
	})

	t.Run("zero balance blocks before item lookup", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		bidder := e.seedUser(t, "broke", 0)

		// The item does not even exist; the funds gate fires first.
		_, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: uuid.New(), BidderID: bidder.ID, Amount: 10,
		})
		require.ErrorIs(t, err, userdomain.ErrNoFunds)
	})

	t.Run("balance below amount", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		bidder := e.seedUser(t, "short", 15)

		_, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: uuid.New(), BidderID: bidder.ID, Amount: 20,
		})
		require.ErrorIs(t, err, userdomain.ErrInsufficientFunds)
	})

	t.Run("unknown item", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		bidder := e.seedUser(t, "bidder", 100)

		_, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: uuid.New(), BidderID: bidder.ID, Amount: 10,
		})
		require.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("seller bids on own item", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		seller := e.seedUser(t, "seller", 100)
		itemID := e.seedItem(t, seller.ID, 10, 50)

		_, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: itemID, BidderID: seller.ID, Amount: 20,
		})
		require.ErrorIs(t, err, domain.ErrBidOnOwnItem)
	})

	t.Run("bid too low leaves no trace", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		seller := e.seedUser(t, "seller", 0)
		bidder := e.seedUser(t, "bidder", 100)
		itemID := e.seedItem(t, seller.ID, 10, 50)

		_, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: itemID, BidderID: bidder.ID, Amount: 5,
		})
		require.ErrorIs(t, err, domain.ErrBidTooLow)

		detail, err := e.svc.GetItemDetail(ctx, itemID)
		require.NoError(t, err)
		require.Empty(t, detail.Bids)
		require.Zero(t, detail.LastBid)
	})
}

func TestPlaceBid_Raise(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	seller := e.seedUser(t, "seller", 0)
	bidder := e.seedUser(t, "bidder", 100)
	itemID := e.seedItem(t, seller.ID, 10, 50)

	result, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
		ItemID: itemID, BidderID: bidder.ID, Amount: 20,
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeRaise, result.Outcome)
	require.Equal(t, itemID, result.ItemID)
	require.Equal(t, "seller", result.SellerUsername)
	require.Equal(t, 20, result.Amount)
	require.Empty(t, result.BuyerUsername)

	detail, err := e.svc.GetItemDetail(ctx, itemID)
	require.NoError(t, err)
	require.True(t, detail.Sellable)
	require.Equal(t, 20, detail.LastBid)
	require.Len(t, detail.Bids, 1)
	require.Equal(t, "bidder", detail.Bids[0].BidderUsername)
	require.Equal(t, 20, detail.Bids[0].Amount)

	// A raise never touches the balance.
	after, err := e.userRepo.GetByID(ctx, bidder.ID)
	require.NoError(t, err)
	require.Equal(t, float64(100), after.Balance)
}

func TestPlaceBid_Purchase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	seller := e.seedUser(t, "seller", 0)
	bidder := e.seedUser(t, "bidder", 100)
	itemID := e.seedItem(t, seller.ID, 10, 50)

	result, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
		ItemID: itemID, BidderID: bidder.ID, Amount: 51,
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomePurchase, result.Outcome)
	require.Equal(t, "bidder", result.BuyerUsername)
	require.Equal(t, 51, result.Amount)

	detail, err := e.svc.GetItemDetail(ctx, itemID)
	require.NoError(t, err)
	require.False(t, detail.Sellable)
	require.Equal(t, "bidder", detail.BuyerUsername)
	require.Equal(t, 51, detail.BuyingPrice)

	after, err := e.userRepo.GetByID(ctx, bidder.ID)
	require.NoError(t, err)
	require.Equal(t, float64(49), after.Balance)

	// The item is closed for good.
	_, err = e.svc.PlaceBid(ctx, application.PlaceBidDTO{
		ItemID: itemID, BidderID: bidder.ID, Amount: 60,
	})
	require.ErrorIs(t, err, domain.ErrItemNotSellable)
}

// TestPlaceBid_NoSilentOutcome sweeps the whole amount range: every
// call must end in a domain error or a result with a set outcome,
// never a silent nothing.
func TestPlaceBid_NoSilentOutcome(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	seller := e.seedUser(t, "seller", 0)
	bidder := e.seedUser(t, "bidder", 1000)

	for amount := 1; amount <= 60; amount++ {
		itemID := e.seedItem(t, seller.ID, 10, 50)
		result, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: itemID, BidderID: bidder.ID, Amount: amount,
		})
		switch {
		case amount < 10:
			require.ErrorIs(t, err, domain.ErrBidTooLow, "amount %d", amount)
			require.Nil(t, result)
		case amount < 50:
			require.NoError(t, err, "amount %d", amount)
			require.Equal(t, domain.OutcomeRaise, result.Outcome, "amount %d", amount)
		default:
			require.NoError(t, err, "amount %d", amount)
			require.Equal(t, domain.OutcomePurchase, result.Outcome, "amount %d", amount)
		}
	}
}

// failingBidRepo refuses every bid insert; everything else passes
// through to the memory backend.
type failingBidRepo struct {
	domain.BidRepository
	err error
}

func (r failingBidRepo) Save(ctx context.Context, tx storage.Tx, bid *domain.Bid) error {
	return r.err
}

type failingPurchaseRepo struct {
	domain.PurchaseRepository
	err error
}

func (r failingPurchaseRepo) Save(ctx context.Context, tx storage.Tx, purchase *domain.Purchase) error {
	return r.err
}

// TestPlaceBid_StorageFailureRollsBack breaks one repository inside the
// atomic section: the caller gets a storage failure and the attempt
// leaves no trace at all.
func TestPlaceBid_StorageFailureRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	assertUntouched := func(t *testing.T, e *env, itemID uuid.UUID, bidderID uuid.UUID) {
		t.Helper()
		detail, err := e.svc.GetItemDetail(ctx, itemID)
		require.NoError(t, err)
		require.True(t, detail.Sellable)
		require.Zero(t, detail.LastBid)
		require.Empty(t, detail.Bids)

		_, err = e.purchaseRepo.GetByItem(ctx, itemID)
		require.ErrorIs(t, err, domain.ErrPurchaseNotFound)

		account, err := e.userRepo.GetByID(ctx, bidderID)
		require.NoError(t, err)
		require.Equal(t, float64(100), account.Balance)
	}

	t.Run("bid insert fails", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		seller := e.seedUser(t, "seller", 0)
		bidder := e.seedUser(t, "bidder", 100)
		itemID := e.seedItem(t, seller.ID, 10, 50)

		uc := application.NewPlaceBidUseCase(
			e.itemRepo,
			failingBidRepo{e.bidRepo, errors.New("connection reset")},
			e.purchaseRepo, e.userRepo, e.store,
		)
		result, err := uc.Execute(ctx, application.PlaceBidDTO{
			ItemID: itemID, BidderID: bidder.ID, Amount: 20,
		})
		require.ErrorIs(t, err, domain.ErrStorageFailure)
		require.Nil(t, result)
		assertUntouched(t, e, itemID, bidder.ID)
	})

	t.Run("purchase insert fails", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		seller := e.seedUser(t, "seller", 0)
		bidder := e.seedUser(t, "bidder", 100)
		itemID := e.seedItem(t, seller.ID, 10, 50)

		uc := application.NewPlaceBidUseCase(
			e.itemRepo, e.bidRepo,
			failingPurchaseRepo{e.purchaseRepo, errors.New("connection reset")},
			e.userRepo, e.store,
		)
		result, err := uc.Execute(ctx, application.PlaceBidDTO{
			ItemID: itemID, BidderID: bidder.ID, Amount: 50,
		})
		require.ErrorIs(t, err, domain.ErrStorageFailure)
		require.Nil(t, result)
		// The item update and bid record staged before the purchase
		// insert are discarded with it.
		assertUntouched(t, e, itemID, bidder.ID)
	})

	t.Run("item still biddable after a failed attempt", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		seller := e.seedUser(t, "seller", 0)
		bidder := e.seedUser(t, "bidder", 100)
		itemID := e.seedItem(t, seller.ID, 10, 50)

		uc := application.NewPlaceBidUseCase(
			e.itemRepo,
			failingBidRepo{e.bidRepo, errors.New("connection reset")},
			e.purchaseRepo, e.userRepo, e.store,
		)
		_, err := uc.Execute(ctx, application.PlaceBidDTO{
			ItemID: itemID, BidderID: bidder.ID, Amount: 20,
		})
		require.ErrorIs(t, err, domain.ErrStorageFailure)

		// The rollback released the item lock; the healthy path works.
		result, err := e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: itemID, BidderID: bidder.ID, Amount: 20,
		})
		require.NoError(t, err)
		require.Equal(t, domain.OutcomeRaise, result.Outcome)
	})
}

// TestPlaceBid_ConcurrentPurchase races many buyers for one item at the
// purchase price: exactly one wins, everyone else is told the item is
// gone, and only the winner pays.
func TestPlaceBid_ConcurrentPurchase(t *testing.T) {
	t.Parallel()

	const buyers = 8

	ctx := context.Background()
	e := newEnv(t)
	seller := e.seedUser(t, "seller", 0)
	itemID := e.seedItem(t, seller.ID, 10, 50)

	bidders := make([]*userdomain.User, buyers)
	for i := range bidders {
		bidders[i] = e.seedUser(t, "buyer"+string(rune('a'+i)), 100)
	}

	results := make([]*application.BidResultDTO, buyers)
	errs := make([]error, buyers)

	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.svc.PlaceBid(ctx, application.PlaceBidDTO{
				ItemID: itemID, BidderID: bidders[i].ID, Amount: 50,
			})
		}(i)
	}
	wg.Wait()

	var winners int
	for i := 0; i < buyers; i++ {
		if errs[i] == nil {
			winners++
			require.Equal(t, domain.OutcomePurchase, results[i].Outcome)

			after, err := e.userRepo.GetByID(ctx, bidders[i].ID)
			require.NoError(t, err)
			require.Equal(t, float64(50), after.Balance)
			continue
		}
		require.ErrorIs(t, errs[i], domain.ErrItemNotSellable)

		after, err := e.userRepo.GetByID(ctx, bidders[i].ID)
		require.NoError(t, err)
		require.Equal(t, float64(100), after.Balance)
	}
	require.Equal(t, 1, winners)

	detail, err := e.svc.GetItemDetail(ctx, itemID)
	require.NoError(t, err)
	require.False(t, detail.Sellable)
	require.Equal(t, 50, detail.BuyingPrice)
}

// TestPlaceBid_ConcurrentOverdraw races one buyer against themselves
// across two items they can only afford one of. The per-account debit
// re-check makes the second purchase fail and roll back whole.
func TestPlaceBid_ConcurrentOverdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	seller := e.seedUser(t, "seller", 0)
	bidder := e.seedUser(t, "bidder", 50)

	itemA := e.seedItem(t, seller.ID, 10, 40)
	itemB := e.seedItem(t, seller.ID, 10, 40)

	var (
		wg         sync.WaitGroup
		errA, errB error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errA = e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: itemA, BidderID: bidder.ID, Amount: 40,
		})
	}()
	go func() {
		defer wg.Done()
		_, errB = e.svc.PlaceBid(ctx, application.PlaceBidDTO{
			ItemID: itemB, BidderID: bidder.ID, Amount: 40,
		})
	}()
	wg.Wait()

	var winnerItem, loserItem uuid.UUID
	switch {
	case errA == nil && errB != nil:
		winnerItem, loserItem = itemA, itemB
		require.ErrorIs(t, errB, userdomain.ErrInsufficientFunds)
	case errB == nil && errA != nil:
		winnerItem, loserItem = itemB, itemA
		require.ErrorIs(t, errA, userdomain.ErrInsufficientFunds)
	default:
		t.Fatalf("want exactly one winner, got errA=%v errB=%v", errA, errB)
	}

	after, err := e.userRepo.GetByID(ctx, bidder.ID)
	require.NoError(t, err)
	require.Equal(t, float64(10), after.Balance)

	won, err := e.svc.GetItemDetail(ctx, winnerItem)
	require.NoError(t, err)
	require.False(t, won.Sellable)

	// The losing attempt rolled back completely: no bid, no purchase,
	// item still open.
	lost, err := e.svc.GetItemDetail(ctx, loserItem)
	require.NoError(t, err)
	require.True(t, lost.Sellable)
	require.Zero(t, lost.LastBid)
	require.Empty(t, lost.Bids)
}

// TestPlaceBid_ConcurrentRaises hammers one item with raising bids from
// many goroutines; the per-item lock serializes them so LastBid only
// ever increases and the recorded history is strictly ascending.
func TestPlaceBid_ConcurrentRaises(t *testing.T) {
	t.Parallel()

	const bidders = 10

	ctx := context.Background()
	e := newEnv(t)
	seller := e.seedUser(t, "seller", 0)
	itemID := e.seedItem(t, seller.ID, 10, 1000)

	users := make([]*userdomain.User, bidders)
	for i := range users {
		users[i] = e.seedUser(t, "raiser"+string(rune('a'+i)), 1000)
	}

	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Distinct amounts; some lose the race and get ErrBidTooLow,
			// which is fine, the invariant is about what gets recorded.
			_, _ = e.svc.PlaceBid(ctx, application.PlaceBidDTO{
				ItemID: itemID, BidderID: users[i].ID, Amount: 20 + i,
			})
		}(i)
	}
	wg.Wait()

	detail, err := e.svc.GetItemDetail(ctx, itemID)
	require.NoError(t, err)
	require.True(t, detail.Sellable)
	require.NotEmpty(t, detail.Bids)

	prev := 0
	for _, b := range detail.Bids {
		require.Greater(t, b.Amount, prev)
		prev = b.Amount
	}
	require.Equal(t, prev, detail.LastBid)
}
