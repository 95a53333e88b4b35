package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/application/campaignservice"
	"github.com/starbookhq/starbook/internal/domain"
)

type CampaignHandler struct {
	campaignSvc campaignservice.ICampaignService
	logger      zerolog.Logger
}

func NewCampaignHandler(campaignSvc campaignservice.ICampaignService, logger zerolog.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaignSvc: campaignSvc,
		logger:      logger,
	}
}

type createCampaignRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	campaign, err := h.campaignSvc.CreateCampaign(c.Request.Context(), claim.UserID.String(), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignSvc.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

type setCampaignStatusRequest struct {
	Status domain.CampaignStatus `json:"status" binding:"required,oneof=draft active closed"`
}

func (h *CampaignHandler) SetCampaignStatus(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req setCampaignStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	campaign, err := h.campaignSvc.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if campaign.UserID != claim.UserID.String() && !claim.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return
	}

	campaign, err = h.campaignSvc.SetCampaignStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}
