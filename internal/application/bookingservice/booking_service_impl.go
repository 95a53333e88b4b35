package bookingservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/domain/interfaces"
	"github.com/starbookhq/starbook/internal/metrics"
	"github.com/starbookhq/starbook/pkg/config"
	"github.com/starbookhq/starbook/pkg/currency"
)

type bookingService struct {
	txm        interfaces.TxManager
	notifier   interfaces.EventNotifier
	maxRetries int
	logger     zerolog.Logger
}

func NewBookingService(
	txm interfaces.TxManager,
	notifier interfaces.EventNotifier,
	cfg config.CoordinatorConfig,
	logger zerolog.Logger,
) IBookingService {
	return &bookingService{
		txm:        txm,
		notifier:   notifier,
		maxRetries: cfg.MaxTxRetries,
		logger:     logger.With().Str("component", "booking_service").Logger(),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID, offeringID string) (*domain.Booking, error) {
	var booking *domain.Booking

	err := s.withRetry(ctx, func(ctx context.Context, store interfaces.Store) error {
		offering, err := store.Offerings().GetByID(ctx, offeringID)
		if err != nil {
			return err
		}
		if !offering.Active {
			return domain.ErrNotFound
		}

		balance, err := store.Ledger().GetBalanceForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if balance.LessThan(offering.Price) {
			return domain.ErrInsufficientBalance
		}

		newBalance, err := store.Ledger().AdjustBalance(ctx, userID, offering.Price.Neg())
		if err != nil {
			return err
		}

		booking = &domain.Booking{
			UserID:     userID,
			OfferingID: offeringID,
			Price:      offering.Price,
			Status:     domain.BookingStatusPending,
		}
		if err := store.Bookings().Create(ctx, booking); err != nil {
			return err
		}

		if err := store.Ledger().LogChange(ctx, &domain.LedgerEntry{
			UserID:       userID,
			Delta:        offering.Price.Neg(),
			BalanceAfter: newBalance,
			Reason:       domain.LedgerReasonBookingDebit,
			ReferenceID:  booking.ID,
		}); err != nil {
			return err
		}

		return store.Notifications().Create(ctx, &domain.Notification{
			UserID: userID,
			Kind:   string(domain.EventBookingUpdate),
			Body:   fmt.Sprintf("Booking %s created for %s", booking.ID, currency.FormatUSD(booking.Price)),
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			metrics.BookingsRejected.WithLabelValues("insufficient_balance").Inc()
		} else if errors.Is(err, domain.ErrNotFound) {
			metrics.BookingsRejected.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("user_id", userID).
		Str("price", booking.Price.String()).
		Msg("Booking created")

	s.notifier.Push(userID, domain.Event{Type: domain.EventBookingUpdate, Booking: booking})
	return booking, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	var booking *domain.Booking
	var refunded, changed bool

	err := s.withRetry(ctx, func(ctx context.Context, store interfaces.Store) error {
		refunded, changed = false, false
		current, err := store.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		// Duplicate or out-of-order requests are tolerated as no-ops so
		// a retried admin action never double-applies.
		if current.Status == status || !current.Status.CanTransition(status) {
			booking = current
			return nil
		}
		changed = true

		// Refund fires only on the pending->cancelled edge.
		if current.Status == domain.BookingStatusPending && status == domain.BookingStatusCancelled {
			if _, err := store.Ledger().GetBalanceForUpdate(ctx, current.UserID); err != nil {
				return err
			}
			newBalance, err := store.Ledger().AdjustBalance(ctx, current.UserID, current.Price)
			if err != nil {
				return err
			}
			if err := store.Ledger().LogChange(ctx, &domain.LedgerEntry{
				UserID:       current.UserID,
				Delta:        current.Price,
				BalanceAfter: newBalance,
				Reason:       domain.LedgerReasonBookingRefund,
				ReferenceID:  current.ID,
			}); err != nil {
				return err
			}
			refunded = true
		}

		booking, err = store.Bookings().UpdateStatus(ctx, bookingID, status)
		if err != nil {
			return err
		}

		return store.Notifications().Create(ctx, &domain.Notification{
			UserID: booking.UserID,
			Kind:   string(domain.EventBookingUpdate),
			Body:   fmt.Sprintf("Booking %s is now %s", booking.ID, booking.Status),
		})
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info().
			Str("booking_id", booking.ID).
			Str("status", string(booking.Status)).
			Bool("refunded", refunded).
			Msg("Booking status updated")
		s.notifier.Push(booking.UserID, domain.Event{Type: domain.EventBookingUpdate, Booking: booking})
	}
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.txm.Store().Bookings().GetByID(ctx, bookingID)
}

func (s *bookingService) ListBookings(ctx context.Context, userID string, limit int) ([]*domain.Booking, error) {
	return s.txm.Store().Bookings().ListByUser(ctx, userID, limit)
}

// withRetry reruns the transaction a bounded number of times when it loses a
// lock race, then surfaces domain.ErrTxConflict.
func (s *bookingService) withRetry(ctx context.Context, fn func(ctx context.Context, store interfaces.Store) error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err = s.txm.WithTx(ctx, fn)
		if !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
		metrics.TxRetries.Inc()
		s.logger.Warn().Int("attempt", attempt+1).Msg("Transaction conflict, retrying")
	}
	return err
}
