package main

import (
	authservice "github.com/starbookhq/starbook/internal/application/auth"
	"github.com/starbookhq/starbook/internal/application/bookingservice"
	"github.com/starbookhq/starbook/internal/application/campaignservice"
	"github.com/starbookhq/starbook/internal/application/depositservice"
	"github.com/starbookhq/starbook/internal/application/ledgerservice"
	"github.com/starbookhq/starbook/internal/application/messageservice"
	"github.com/starbookhq/starbook/internal/application/notificationservice"
	"github.com/starbookhq/starbook/internal/application/offeringservice"
	"github.com/starbookhq/starbook/internal/infrastructure/clients"
	"github.com/starbookhq/starbook/internal/infrastructure/database"
	"github.com/starbookhq/starbook/internal/server"
	"github.com/starbookhq/starbook/internal/server/handlers"
	"github.com/starbookhq/starbook/internal/server/websocket"
	"github.com/starbookhq/starbook/pkg/config"
	"github.com/starbookhq/starbook/pkg/logger"
)

func main() {
	logger := logger.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.ShutDown()

	txm := database.NewTxManager(db)
	priceClient := clients.NewPriceAPIClient(&cfg.PriceAPI, logger)

	wsHub := websocket.NewHub(logger)
	wsTokens := websocket.NewTokenStore(cfg.WebSocket.TokenTTL)

	bookingSvc := bookingservice.NewBookingService(txm, wsHub, cfg.Coordinator, logger)
	offeringSvc := offeringservice.NewOfferingService(txm, logger)
	depositSvc, err := depositservice.NewDepositService(txm, priceClient, wsHub, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build deposit service")
	}
	ledgerSvc := ledgerservice.NewLedgerService(txm, wsHub, cfg.Coordinator, logger)
	campaignSvc := campaignservice.NewCampaignService(txm, wsHub, logger)
	messageSvc := messageservice.NewMessageService(txm, wsHub, logger)
	notificationSvc := notificationservice.NewNotificationService(txm, logger)
	authSvc := authservice.NewAuthService(cfg, logger)

	h := handlers.New(
		bookingSvc,
		offeringSvc,
		depositSvc,
		ledgerSvc,
		campaignSvc,
		messageSvc,
		notificationSvc,
		authSvc,
		wsHub,
		wsTokens,
		logger,
		cfg,
	)

	srv := server.New(cfg, h, logger)
	srv.Start()
}
