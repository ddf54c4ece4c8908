package websocket

import "github.com/google/uuid"

// MessageType tags the feed messages pushed to item subscribers.
type MessageType string

const (
	MessageTypeItemUpdate MessageType = "item_update" // state change after an accepted bid
	MessageTypeItemSold   MessageType = "item_sold"   // terminal message, the item closed
)

type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ItemUpdateMessage is pushed to an item's subscribers after every
// accepted bid.
type ItemUpdateMessage struct {
	BaseMessage
	Payload struct {
		ItemID   uuid.UUID `json:"item_id"`
		LastBid  int       `json:"last_bid"`
		Sellable bool      `json:"sellable"`
		Buyer    string    `json:"buyer,omitempty"`
	} `json:"payload"`
}
