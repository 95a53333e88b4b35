package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	authservice "github.com/starbookhq/starbook/internal/application/auth"
	"github.com/starbookhq/starbook/internal/application/bookingservice"
	"github.com/starbookhq/starbook/internal/application/campaignservice"
	"github.com/starbookhq/starbook/internal/application/depositservice"
	"github.com/starbookhq/starbook/internal/application/ledgerservice"
	"github.com/starbookhq/starbook/internal/application/messageservice"
	"github.com/starbookhq/starbook/internal/application/notificationservice"
	"github.com/starbookhq/starbook/internal/application/offeringservice"
	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/server/middleware"
	"github.com/starbookhq/starbook/internal/server/websocket"
	"github.com/starbookhq/starbook/pkg/config"
)

type Handlers struct {
	BookingSvc      bookingservice.IBookingService
	OfferingSvc     offeringservice.IOfferingService
	DepositSvc      depositservice.IDepositService
	LedgerSvc       ledgerservice.ILedgerService
	CampaignSvc     campaignservice.ICampaignService
	MessageSvc      messageservice.IMessageService
	NotificationSvc notificationservice.INotificationService
	AuthSvc         authservice.IAuthService
	WsHub           *websocket.Hub
	WsTokens        *websocket.TokenStore
	Logger          zerolog.Logger
	Config          *config.Config
}

func New(
	bookingSvc bookingservice.IBookingService,
	offeringSvc offeringservice.IOfferingService,
	depositSvc depositservice.IDepositService,
	ledgerSvc ledgerservice.ILedgerService,
	campaignSvc campaignservice.ICampaignService,
	messageSvc messageservice.IMessageService,
	notificationSvc notificationservice.INotificationService,
	authSvc authservice.IAuthService,
	wsHub *websocket.Hub,
	wsTokens *websocket.TokenStore,
	logger zerolog.Logger,
	config *config.Config,
) *Handlers {
	return &Handlers{
		BookingSvc:      bookingSvc,
		OfferingSvc:     offeringSvc,
		DepositSvc:      depositSvc,
		LedgerSvc:       ledgerSvc,
		CampaignSvc:     campaignSvc,
		MessageSvc:      messageSvc,
		NotificationSvc: notificationSvc,
		AuthSvc:         authSvc,
		WsHub:           wsHub,
		WsTokens:        wsTokens,
		Logger:          logger,
		Config:          config,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	mw := middleware.NewMiddleware(h.AuthSvc, h.Logger)
	mw.SetupMiddleware(router)

	bookingHandler := NewBookingHandler(h.BookingSvc, h.Logger)
	offeringHandler := NewOfferingHandler(h.OfferingSvc, h.Logger)
	depositHandler := NewDepositHandler(h.DepositSvc, h.Logger)
	balanceHandler := NewBalanceHandler(h.LedgerSvc, h.Logger)
	campaignHandler := NewCampaignHandler(h.CampaignSvc, h.Logger)
	messageHandler := NewMessageHandler(h.MessageSvc, h.Logger)
	notificationHandler := NewNotificationHandler(h.NotificationSvc, h.Logger)
	wsHandler := NewWsHandler(h.WsHub, h.WsTokens, h.Config.WebSocket, h.Logger)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Unauthenticated upgrade; identity is bound by the handshake token.
	router.GET("/ws", wsHandler.HandleConnection)

	v1 := router.Group("/v1")
	v1.Use(mw.AuthMiddleware())
	{
		v1.POST("/ws/token", wsHandler.MintToken)

		bookings := v1.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.ListBookings)
			bookings.PUT("/:id/status", bookingHandler.UpdateBookingStatus)
		}

		offerings := v1.Group("/offerings")
		{
			offerings.GET("/:id", offeringHandler.GetOffering)
			offerings.POST("", mw.RequireAdmin(), offeringHandler.CreateOffering)
			offerings.PUT("/:id/price", mw.RequireAdmin(), offeringHandler.SetOfferingPrice)
		}

		deposits := v1.Group("/deposits")
		{
			deposits.POST("", depositHandler.CreateDeposit)
			deposits.GET("", depositHandler.ListDeposits)
			deposits.PUT("/:id/status", mw.RequireAdmin(), depositHandler.SetDepositStatus)
		}

		users := v1.Group("/users")
		{
			users.GET("/:id/balance", balanceHandler.GetBalance)
			users.GET("/:id/ledger", balanceHandler.ListEntries)
			users.POST("/:id/balance/adjust", mw.RequireAdmin(), balanceHandler.AdjustBalance)
		}

		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.PUT("/:id/status", campaignHandler.SetCampaignStatus)
		}

		v1.POST("/messages", messageHandler.SendMessage)

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}
	}
}

// respondError maps domain errors onto HTTP statuses with an ApiResponse
// envelope.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientBalance):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrTxConflict):
		status = http.StatusConflict
	}
	c.JSON(status, domain.ApiResponse{
		Message: err.Error(),
		Success: false,
		Status:  status,
	})
}

func currentClaim(c *gin.Context) (*domain.Claim, bool) {
	v, ok := c.Get("claim")
	if !ok {
		return nil, false
	}
	claim, ok := v.(*domain.Claim)
	return claim, ok
}
