package bookingservice

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type IBookingService interface {
	// CreateBooking snapshots the offering price, debits the user's ledger
	// and inserts the booking as one atomic unit.
	CreateBooking(ctx context.Context, userID, offeringID string) (*domain.Booking, error)
	// UpdateBookingStatus applies an allowed status transition. Cancelling
	// a still-pending booking refunds the snapshot price exactly once.
	// Disallowed transitions are idempotent no-ops returning the current
	// record.
	UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string, limit int) ([]*domain.Booking, error)
}
