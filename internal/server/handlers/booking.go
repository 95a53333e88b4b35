package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/application/bookingservice"
	"github.com/starbookhq/starbook/internal/domain"
)

type BookingHandler struct {
	bookingSvc bookingservice.IBookingService
	logger     zerolog.Logger
}

func NewBookingHandler(bookingSvc bookingservice.IBookingService, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingSvc: bookingSvc,
		logger:     logger,
	}
}

type createBookingRequest struct {
	OfferingID string `json:"offering_id" binding:"required,uuid"`
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	booking, err := h.bookingSvc.CreateBooking(c.Request.Context(), claim.UserID.String(), req.OfferingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

type updateBookingStatusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	booking, err := h.bookingSvc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if booking.UserID != claim.UserID.String() && !claim.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return
	}

	booking, err = h.bookingSvc.UpdateBookingStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	bookings, err := h.bookingSvc.ListBookings(c.Request.Context(), claim.UserID.String(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
