package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
)

type fakeBookingService struct {
	booking *domain.Booking
	updated bool
}

func (f *fakeBookingService) CreateBooking(_ context.Context, userID, offeringID string) (*domain.Booking, error) {
	return f.booking, nil
}

func (f *fakeBookingService) UpdateBookingStatus(_ context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	f.updated = true
	b := *f.booking
	b.Status = status
	return &b, nil
}

func (f *fakeBookingService) GetBooking(_ context.Context, bookingID string) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != bookingID {
		return nil, domain.ErrNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingService) ListBookings(_ context.Context, userID string, limit int) ([]*domain.Booking, error) {
	return nil, nil
}

func bookingStatusRouter(svc *fakeBookingService, claim *domain.Claim) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(svc, zerolog.Nop())

	router := gin.New()
	router.PUT("/v1/bookings/:id/status", func(c *gin.Context) {
		c.Set("claim", claim)
	}, h.UpdateBookingStatus)
	return router
}

func putStatus(t *testing.T, router *gin.Engine, bookingID, status string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/v1/bookings/"+bookingID+"/status",
		strings.NewReader(`{"status":"`+status+`"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateBookingStatusOwnershipGuard(t *testing.T) {
	owner := uuid.New()
	booking := &domain.Booking{
		ID:         uuid.New().String(),
		UserID:     owner.String(),
		OfferingID: uuid.New().String(),
		Price:      decimal.NewFromInt(40),
		Status:     domain.BookingStatusPending,
	}

	t.Run("owner may transition", func(t *testing.T) {
		svc := &fakeBookingService{booking: booking}
		router := bookingStatusRouter(svc, &domain.Claim{UserID: owner, Role: domain.RoleUser})

		rec := putStatus(t, router, booking.ID, "cancelled")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}
		if !svc.updated {
			t.Fatal("owner request never reached the service")
		}
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		svc := &fakeBookingService{booking: booking}
		router := bookingStatusRouter(svc, &domain.Claim{UserID: uuid.New(), Role: domain.RoleUser})

		rec := putStatus(t, router, booking.ID, "cancelled")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status %d, want 403", rec.Code)
		}
		if svc.updated {
			t.Fatal("forbidden request reached the service")
		}
	})

	t.Run("admin may transition any booking", func(t *testing.T) {
		svc := &fakeBookingService{booking: booking}
		router := bookingStatusRouter(svc, &domain.Claim{UserID: uuid.New(), Role: domain.RoleAdmin})

		rec := putStatus(t, router, booking.ID, "confirmed")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}
		if !svc.updated {
			t.Fatal("admin request never reached the service")
		}
	})

	t.Run("unknown booking is 404", func(t *testing.T) {
		svc := &fakeBookingService{booking: booking}
		router := bookingStatusRouter(svc, &domain.Claim{UserID: owner, Role: domain.RoleUser})

		rec := putStatus(t, router, uuid.New().String(), "cancelled")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status %d, want 404", rec.Code)
		}
	})
}
