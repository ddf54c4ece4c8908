package websocket

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/greenbay-io/greenbay/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. The feed is broadcast
	// only, clients are not expected to send anything beyond control
	// frames.
	maxMessageSize = 256
)

// Hub keeps the registry of item-feed subscribers and broadcasts state
// updates to them. Clients are grouped by the item id they watch.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	// closed when Run returns; keeps register/unregister from blocking
	// forever on a stopped hub
	done chan struct{}
}

// Client is one websocket subscription to a single item's feed.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// The item this client is watching.
	ItemID string
	ID     string
}

type Message struct {
	ItemID string
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run starts the hub listening on its channels until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Info("Item feed hub started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			log.Info("Item feed hub shutting down")
			return

		case client := <-h.register:
			if _, ok := h.clients[client.ItemID]; !ok {
				h.clients[client.ItemID] = make(map[*Client]bool)
			}
			h.clients[client.ItemID][client] = true
			log.Info("Feed client registered",
				zap.String("clientID", client.ID),
				zap.String("itemID", client.ItemID),
			)

		case client := <-h.unregister:
			if clients, ok := h.clients[client.ItemID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					log.Info("Feed client unregistered",
						zap.String("clientID", client.ID),
						zap.String("itemID", client.ItemID),
					)
					if len(clients) == 0 {
						delete(h.clients, client.ItemID)
					}
				}
			}

		case message := <-h.broadcast:
			clients := h.clients[message.ItemID]
			for client := range clients {
				select {
				case client.Send <- message.Data:
				default:
					// client not draining, drop it
					close(client.Send)
					delete(clients, client)
					log.Warn("Feed client not keeping up, unregistering",
						zap.String("clientID", client.ID),
						zap.String("itemID", client.ItemID),
					)
				}
			}
		}
	}
}

// RegisterClient queues a new client for registration.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// UnregisterClient queues a client for removal. Delivery is
// guaranteed while the hub runs; a dropped removal would leak the
// client entry and its Send channel.
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToItem sends data to every subscriber of itemID. Never
// blocks the caller: the feed is best effort and must not slow down the
// bid path.
func (h *Hub) BroadcastToItem(itemID string, data []byte) {
	select {
	case h.broadcast <- &Message{ItemID: itemID, Data: data}:
	default:
		log.Error("Feed broadcast channel is full, message dropped", zap.String("itemID", itemID))
	}
}

// ReadPump consumes the client connection until it closes. Inbound
// payloads are discarded: bids enter over HTTP, the socket only carries
// server pushes and control frames.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("Feed read error",
					zap.String("clientID", c.ID),
					zap.String("itemID", c.ItemID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection,
// one goroutine per connection so there is a single writer.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return

		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// the hub closed the channel
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Feed write error",
					zap.String("clientID", c.ID),
					zap.String("itemID", c.ItemID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
