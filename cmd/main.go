package main

import (
	"context"

	"github.com/greenbay-io/greenbay/internal/auction/application"
	auctiondomain "github.com/greenbay-io/greenbay/internal/auction/domain"
	auctionhttp "github.com/greenbay-io/greenbay/internal/auction/infra/http"
	"github.com/greenbay-io/greenbay/internal/auction/infra/repository/memory"
	auctionpg "github.com/greenbay-io/greenbay/internal/auction/infra/repository/postgres"
	auctionws "github.com/greenbay-io/greenbay/internal/auction/infra/websocket"
	"github.com/greenbay-io/greenbay/internal/shared/bootstrap"
	"github.com/greenbay-io/greenbay/internal/shared/config"
	"github.com/greenbay-io/greenbay/internal/shared/db"
	"github.com/greenbay-io/greenbay/internal/shared/db/migrations"
	"github.com/greenbay-io/greenbay/internal/shared/httpserver"
	"github.com/greenbay-io/greenbay/internal/shared/logger"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
	sharedws "github.com/greenbay-io/greenbay/internal/shared/websocket"
	userapp "github.com/greenbay-io/greenbay/internal/user/application"
	userdomain "github.com/greenbay-io/greenbay/internal/user/domain"
	userpg "github.com/greenbay-io/greenbay/internal/user/infra/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting greenBay server...")

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		itemRepo     auctiondomain.ItemRepository
		bidRepo      auctiondomain.BidRepository
		purchaseRepo auctiondomain.PurchaseRepository
		userRepo     userdomain.UserRepository
		txm          storage.TxManager
		seed         bool
	)

	switch cfg.Store {
	case "memory":
		log.Info("Using in-memory store with demo data")
		store := memory.NewStore()
		itemRepo = memory.NewItemRepository(store)
		bidRepo = memory.NewBidRepository(store)
		purchaseRepo = memory.NewPurchaseRepository(store)
		userRepo = memory.NewUserRepository(store)
		txm = store
		seed = true
	default:
		log.Info("Running database migrations...")
		if err := migrations.RunMigrations(cfg.PostgresDSN()); err != nil {
			log.Fatal("Database migration failed", zap.Error(err))
		}
		log.Info("Database migrations completed successfully.")

		pool, err := db.GetPostgresDBPool(ctx, cfg)
		if err != nil {
			log.Fatal("Database connection failed", zap.Error(err))
		}
		defer pool.Close()

		itemRepo = auctionpg.NewItemRepository(pool)
		bidRepo = auctionpg.NewBidRepository(pool)
		purchaseRepo = auctionpg.NewPurchaseRepository(pool)
		userRepo = userpg.NewUserRepository(pool)
		txm = db.NewTxManager(pool)
	}

	auctionSvc := application.NewAuctionService(
		application.NewPlaceBidUseCase(itemRepo, bidRepo, purchaseRepo, userRepo, txm),
		application.NewCreateItemUseCase(itemRepo, userRepo),
		application.NewGetItemDetailUseCase(itemRepo, bidRepo, purchaseRepo),
		application.NewListSellableItemsUseCase(itemRepo),
		application.NewDeletePurchaseUseCase(purchaseRepo),
	)
	balanceSvc := userapp.NewBalanceService(userRepo)

	if seed {
		if err := bootstrap.Load(ctx, userRepo, auctionSvc); err != nil {
			log.Fatal("Demo data load failed", zap.Error(err))
		}
	}

	hub := sharedws.NewHub()
	go hub.Run(ctx)
	feed := auctionws.NewItemFeed(hub)

	server := httpserver.NewServer()
	auctionhttp.NewAuctionHandler(auctionSvc, balanceSvc, feed).RegisterRoutes(server.App())
	auctionhttp.RegisterItemFeed(server.App(), hub)

	if err := server.Start(cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
