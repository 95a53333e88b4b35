package bookingrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/pkg/db"
)

type BookingRepository struct {
	q db.DBTX
}

func New(q db.DBTX) IBookingRepository {
	return &BookingRepository{q: q}
}

const bookingColumns = "id, user_id, offering_id, price, status, created_at, updated_at"

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := r.q.Exec(ctx,
		`INSERT INTO bookings (id, user_id, offering_id, price, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		booking.ID, booking.UserID, booking.OfferingID, booking.Price, booking.Status,
		booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.get(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = $1", id)
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return r.get(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = $1 FOR UPDATE", id)
}

func (r *BookingRepository) get(ctx context.Context, query, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.OfferingID, &b.Price, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	var b domain.Booking
	err := r.q.QueryRow(ctx,
		`UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1
		 RETURNING `+bookingColumns,
		id, status,
	).Scan(&b.ID, &b.UserID, &b.OfferingID, &b.Price, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Booking, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.q.Query(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.OfferingID, &b.Price, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}
