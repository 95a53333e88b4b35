package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/application/notificationservice"
)

type NotificationHandler struct {
	notificationSvc notificationservice.INotificationService
	logger          zerolog.Logger
}

func NewNotificationHandler(notificationSvc notificationservice.INotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationSvc: notificationSvc,
		logger:          logger,
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	notifications, err := h.notificationSvc.ListNotifications(c.Request.Context(), claim.UserID.String(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	notification, err := h.notificationSvc.MarkRead(c.Request.Context(), c.Param("id"), claim.UserID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}
