package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	sharedws "github.com/greenbay-io/greenbay/internal/shared/websocket"
)

// RegisterItemFeed mounts the live item feed: one websocket per
// watched item, server push only.
func RegisterItemFeed(app *fiber.App, hub *sharedws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/items/:id", fiberws.New(func(conn *fiberws.Conn) {
		client := &sharedws.Client{
			Hub:    hub,
			Conn:   conn,
			Send:   make(chan []byte, 16),
			ItemID: conn.Params("id"),
			ID:     uuid.NewString(),
		}
		hub.RegisterClient(client)

		ctx := context.Background()
		go client.WritePump(ctx)
		// blocks until the peer goes away
		client.ReadPump(ctx)
	}))
}
