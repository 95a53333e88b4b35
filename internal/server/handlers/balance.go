package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/application/ledgerservice"
)

type BalanceHandler struct {
	ledgerSvc ledgerservice.ILedgerService
	logger    zerolog.Logger
}

func NewBalanceHandler(ledgerSvc ledgerservice.ILedgerService, logger zerolog.Logger) *BalanceHandler {
	return &BalanceHandler{
		ledgerSvc: ledgerSvc,
		logger:    logger,
	}
}

func (h *BalanceHandler) GetBalance(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	userID := c.Param("id")
	if userID != claim.UserID.String() && !claim.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return
	}

	balance, err := h.ledgerSvc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

func (h *BalanceHandler) ListEntries(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	userID := c.Param("id")
	if userID != claim.UserID.String() && !claim.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.ledgerSvc.ListEntries(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type adjustBalanceRequest struct {
	Delta string `json:"delta" binding:"required"`
}

// AdjustBalance is admin-only and has no lower bound: it may drive a
// balance negative, unlike booking debits.
func (h *BalanceHandler) AdjustBalance(c *gin.Context) {
	var req adjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	delta, err := decimal.NewFromString(req.Delta)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid delta"})
		return
	}

	balance, err := h.ledgerSvc.AdminAdjustBalance(c.Request.Context(), c.Param("id"), delta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}
