package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/application/messageservice"
)

type MessageHandler struct {
	messageSvc messageservice.IMessageService
	logger     zerolog.Logger
}

func NewMessageHandler(messageSvc messageservice.IMessageService, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		messageSvc: messageSvc,
		logger:     logger,
	}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body" binding:"required"`
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	message, err := h.messageSvc.SendMessage(c.Request.Context(), claim.UserID.String(), claim.Role, req.RecipientID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
