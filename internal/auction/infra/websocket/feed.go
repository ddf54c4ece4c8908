package websocket

import (
	"encoding/json"

	"github.com/greenbay-io/greenbay/internal/auction/application"
	"github.com/greenbay-io/greenbay/internal/auction/domain"
	"github.com/greenbay-io/greenbay/internal/shared/logger"
	"github.com/greenbay-io/greenbay/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// ItemFeed publishes bid outcomes to the item's websocket subscribers.
// Notification only: it runs after the transaction committed and never
// participates in it.
type ItemFeed struct {
	hub *websocket.Hub
}

func NewItemFeed(hub *websocket.Hub) *ItemFeed {
	return &ItemFeed{hub: hub}
}

// PublishBidResult pushes the new item state to everyone watching it.
func (f *ItemFeed) PublishBidResult(result *application.BidResultDTO) {
	msgType := MessageTypeItemUpdate
	if result.Outcome == domain.OutcomePurchase {
		msgType = MessageTypeItemSold
	}
	msg := ItemUpdateMessage{BaseMessage: BaseMessage{Type: msgType}}
	msg.Payload.ItemID = result.ItemID
	msg.Payload.LastBid = result.Amount
	msg.Payload.Sellable = result.Outcome != domain.OutcomePurchase
	msg.Payload.Buyer = result.BuyerUsername

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal item update", zap.Error(err))
		return
	}
	f.hub.BroadcastToItem(result.ItemID.String(), data)
}
