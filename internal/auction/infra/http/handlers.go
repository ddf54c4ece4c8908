package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/auction/application"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	wsinfra "github.com/greenbay-io/greenbay/internal/auction/infra/websocket"
	"github.com/greenbay-io/greenbay/internal/shared/logger"
	userapp "github.com/greenbay-io/greenbay/internal/user/application"
	userdomain "github.com/greenbay-io/greenbay/internal/user/domain"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionHandler exposes the auction engine over HTTP. Identity is
// resolved by an external provider upstream; this layer trusts the
// X-User-ID header it forwards.
type AuctionHandler struct {
	svc      application.AuctionService
	balances userapp.BalanceService
	feed     *wsinfra.ItemFeed
}

func NewAuctionHandler(svc application.AuctionService, balances userapp.BalanceService, feed *wsinfra.ItemFeed) *AuctionHandler {
	return &AuctionHandler{svc: svc, balances: balances, feed: feed}
}

// RegisterRoutes mounts the API on app.
func (h *AuctionHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Post("/items", h.createItem)
	api.Get("/items", h.listItems)
	api.Get("/items/:id", h.itemDetail)
	api.Post("/items/:id/bid", h.placeBid)
	api.Delete("/purchases/:id", h.deletePurchase)
	api.Get("/users/:username/balance", h.getBalance)
	api.Patch("/users/:username/balance", h.updateBalance)
}

type createItemRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PhotoURL      string `json:"photoURL"`
	StartingPrice int    `json:"starting_price"`
	PurchasePrice int    `json:"purchase_price"`
}

type bidRequest struct {
	Amount int `json:"amount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *AuctionHandler) createItem(c *fiber.Ctx) error {
	sellerID, ok := callerID(c)
	if !ok {
		return nil
	}
	var req createItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	summary, err := h.svc.CreateItem(c.Context(), application.CreateItemDTO{
		Name:          req.Name,
		Description:   req.Description,
		PhotoURL:      req.PhotoURL,
		StartingPrice: req.StartingPrice,
		PurchasePrice: req.PurchasePrice,
		SellerID:      sellerID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":             summary.ID,
		"name":           summary.Name,
		"description":    summary.Description,
		"photoURL":       summary.PhotoURL,
		"starting_price": summary.StartingPrice,
		"purchase_price": summary.PurchasePrice,
		"seller":         summary.SellerUsername,
	})
}

func (h *AuctionHandler) placeBid(c *fiber.Ctx) error {
	bidderID, ok := callerID(c)
	if !ok {
		return nil
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid item id"})
	}
	var req bidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	result, err := h.svc.PlaceBid(c.Context(), application.PlaceBidDTO{
		ItemID:   itemID,
		BidderID: bidderID,
		Amount:   req.Amount,
	})
	if err != nil {
		return domainError(c, err)
	}

	h.feed.PublishBidResult(result)

	resp := fiber.Map{
		"name":        result.ItemName,
		"description": result.Description,
		"photoURL":    result.PhotoURL,
		"seller":      result.SellerUsername,
	}
	if result.Outcome == domain.OutcomePurchase {
		resp["buyer"] = result.BuyerUsername
		resp["bought_at"] = result.Amount
	} else {
		resp["bid_placed"] = result.Amount
	}
	return c.JSON(resp)
}

func (h *AuctionHandler) itemDetail(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid item id"})
	}

	detail, err := h.svc.GetItemDetail(c.Context(), itemID)
	if err != nil {
		return domainError(c, err)
	}

	resp := fiber.Map{
		"name":        detail.Name,
		"description": detail.Description,
		"photoURL":    detail.PhotoURL,
		"seller":      detail.SellerUsername,
	}
	if detail.Sellable {
		bids := make([]fiber.Map, 0, len(detail.Bids))
		for _, b := range detail.Bids {
			bids = append(bids, fiber.Map{
				"id":     b.ID,
				"bidder": b.BidderUsername,
				"amount": b.Amount,
			})
		}
		resp["bids"] = bids
	} else {
		resp["buyer"] = detail.BuyerUsername
		resp["buying_price"] = detail.BuyingPrice
	}
	return c.JSON(resp)
}

func (h *AuctionHandler) listItems(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)

	itemPage, err := h.svc.ListSellableItems(c.Context(), page)
	if err != nil {
		return domainError(c, err)
	}

	items := make([]fiber.Map, 0, len(itemPage.Items))
	for _, it := range itemPage.Items {
		items = append(items, fiber.Map{
			"id":       it.ID,
			"name":     it.Name,
			"photoURL": it.PhotoURL,
			"lastBid":  it.LastBid,
			"seller":   it.SellerUsername,
		})
	}
	return c.JSON(fiber.Map{
		"page":        itemPage.Page,
		"total_pages": itemPage.TotalPages,
		"items":       items,
	})
}

func (h *AuctionHandler) deletePurchase(c *fiber.Ctx) error {
	purchaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid purchase id"})
	}
	if err := h.svc.DeletePurchase(c.Context(), purchaseID); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuctionHandler) getBalance(c *fiber.Ctx) error {
	balance, err := h.balances.GetBalance(c.Context(), c.Params("username"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}

func (h *AuctionHandler) updateBalance(c *fiber.Ctx) error {
	newBalance := c.QueryFloat("newBalance", -1)
	if newBalance < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "new balance must be a positive number"})
	}
	if err := h.balances.SetBalance(c.Context(), c.Params("username"), newBalance); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "balance successfully updated"})
}

// callerID reads the identity forwarded by the auth layer. It writes
// the 401 response itself when the header is missing or malformed and
// reports false; fiber's JSON returns nil on success, so the response
// cannot double as the error signal.
func callerID(c *fiber.Ctx) (uuid.UUID, bool) {
	raw := c.Get("X-User-ID")
	if raw == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "missing identity"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "invalid identity"})
		return uuid.Nil, false
	}
	return id, true
}

// domainError recovers validation failures into structured responses;
// only storage failures surface as server-side errors.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrPurchaseNotFound),
		errors.Is(err, userdomain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrStorageFailure):
		log.Error("storage failure", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "the operation has failed, please retry"})

	case errors.Is(err, userdomain.ErrNoFunds),
		errors.Is(err, userdomain.ErrInsufficientFunds),
		errors.Is(err, userdomain.ErrNegativeBalance),
		errors.Is(err, domain.ErrBidOnOwnItem),
		errors.Is(err, domain.ErrItemNotSellable),
		errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrNoSuchPage):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})

	default:
		log.Error("unhandled error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal error"})
	}
}
