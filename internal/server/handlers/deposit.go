package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/application/depositservice"
	"github.com/starbookhq/starbook/internal/domain"
)

type DepositHandler struct {
	depositSvc depositservice.IDepositService
	logger     zerolog.Logger
}

func NewDepositHandler(depositSvc depositservice.IDepositService, logger zerolog.Logger) *DepositHandler {
	return &DepositHandler{
		depositSvc: depositSvc,
		logger:     logger,
	}
}

type createDepositRequest struct {
	AmountUSD string `json:"amount_usd" binding:"required"`
	Asset     string `json:"asset" binding:"required"`
}

func (h *DepositHandler) CreateDeposit(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req createDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.AmountUSD)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid amount_usd"})
		return
	}

	deposit, err := h.depositSvc.CreateDeposit(c.Request.Context(), claim.UserID.String(), amount, req.Asset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deposit)
}

type setDepositStatusRequest struct {
	Status   domain.DepositStatus `json:"status" binding:"required,oneof=approved rejected"`
	ProofRef string               `json:"proof_ref"`
}

func (h *DepositHandler) SetDepositStatus(c *gin.Context) {
	var req setDepositStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	deposit, err := h.depositSvc.SetDepositStatus(c.Request.Context(), c.Param("id"), req.Status, req.ProofRef)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deposit)
}

func (h *DepositHandler) ListDeposits(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	deposits, err := h.depositSvc.ListDeposits(c.Request.Context(), claim.UserID.String(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}
