package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/application/offeringservice"
)

type OfferingHandler struct {
	offeringSvc offeringservice.IOfferingService
	logger      zerolog.Logger
}

func NewOfferingHandler(offeringSvc offeringservice.IOfferingService, logger zerolog.Logger) *OfferingHandler {
	return &OfferingHandler{
		offeringSvc: offeringSvc,
		logger:      logger,
	}
}

type createOfferingRequest struct {
	CelebrityID string `json:"celebrity_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required"`
	Price       string `json:"price" binding:"required"`
}

func (h *OfferingHandler) CreateOffering(c *gin.Context) {
	var req createOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid price"})
		return
	}

	offering, err := h.offeringSvc.CreateOffering(c.Request.Context(), req.CelebrityID, req.Title, price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offering)
}

type setOfferingPriceRequest struct {
	Price string `json:"price" binding:"required"`
}

func (h *OfferingHandler) SetOfferingPrice(c *gin.Context) {
	var req setOfferingPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid price"})
		return
	}

	offering, err := h.offeringSvc.SetOfferingPrice(c.Request.Context(), c.Param("id"), price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, offering)
}

func (h *OfferingHandler) GetOffering(c *gin.Context) {
	offering, err := h.offeringSvc.GetOffering(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, offering)
}
