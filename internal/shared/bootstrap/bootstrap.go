// Package bootstrap seeds demo accounts and listings, used by the
// memory store mode so the marketplace starts usable.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/greenbay-io/greenbay/internal/auction/application"
	"github.com/greenbay-io/greenbay/internal/shared/logger"
	userdomain "github.com/greenbay-io/greenbay/internal/user/domain"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Load creates the demo users and their starter items.
func Load(ctx context.Context, userRepo userdomain.UserRepository, auctionSvc application.AuctionService) error {
	seedUsers := []struct {
		username string
		balance  float64
	}{
		{"admin", 0},
		{"user1", 100},
		{"user2", 200},
	}

	users := make(map[string]*userdomain.User, len(seedUsers))
	for _, su := range seedUsers {
		user, err := userdomain.NewUser(su.username, su.balance)
		if err != nil {
			return fmt.Errorf("bootstrap: seed user %s: %w", su.username, err)
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("bootstrap: save user %s: %w", su.username, err)
		}
		users[su.username] = user
	}

	seedItems := []struct {
		seller string
		item   application.CreateItemDTO
	}{
		{"user1", application.CreateItemDTO{
			Name: "Retro lava lamp", Description: "Original 70s lava lamp, still bubbling.",
			PhotoURL: "/img/lava-lamp.jpg", StartingPrice: 10, PurchasePrice: 50,
		}},
		{"user1", application.CreateItemDTO{
			Name: "Mechanical keyboard", Description: "Clacky switches, worn keycaps, full of character.",
			PhotoURL: "/img/keyboard.png", StartingPrice: 20, PurchasePrice: 120,
		}},
		{"user2", application.CreateItemDTO{
			Name: "Vinyl record crate", Description: "Forty-odd records, mostly jazz, some surprises.",
			PhotoURL: "/img/vinyl-crate.jpg", StartingPrice: 15, PurchasePrice: 90,
		}},
		{"user2", application.CreateItemDTO{
			Name: "Film camera", Description: "35mm rangefinder, light meter works.",
			PhotoURL: "/img/film-camera.gif", StartingPrice: 30, PurchasePrice: 150,
		}},
	}

	for _, si := range seedItems {
		dto := si.item
		dto.SellerID = users[si.seller].ID
		if _, err := auctionSvc.CreateItem(ctx, dto); err != nil {
			return fmt.Errorf("bootstrap: seed item %q: %w", si.item.Name, err)
		}
	}

	log.Info("Demo data loaded",
		zap.Int("users", len(seedUsers)),
		zap.Int("items", len(seedItems)),
	)
	return nil
}
