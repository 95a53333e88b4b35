package bookingrepo

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type IBookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// GetForUpdate locks the booking row for the duration of the
	// surrounding transaction.
	GetForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Booking, error)
}
