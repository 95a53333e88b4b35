package ledgerservice

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/domain/interfaces"
	"github.com/starbookhq/starbook/internal/metrics"
	"github.com/starbookhq/starbook/pkg/config"
	"github.com/starbookhq/starbook/pkg/currency"
)

type ledgerService struct {
	txm        interfaces.TxManager
	notifier   interfaces.EventNotifier
	maxRetries int
	logger     zerolog.Logger
}

func NewLedgerService(
	txm interfaces.TxManager,
	notifier interfaces.EventNotifier,
	cfg config.CoordinatorConfig,
	logger zerolog.Logger,
) ILedgerService {
	return &ledgerService{
		txm:        txm,
		notifier:   notifier,
		maxRetries: cfg.MaxTxRetries,
		logger:     logger.With().Str("component", "ledger_service").Logger(),
	}
}

func (s *ledgerService) GetBalance(ctx context.Context, userID string) (*domain.Balance, error) {
	amount, err := s.txm.Store().Ledger().GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Balance{UserID: userID, Amount: amount, UpdatedAt: time.Now().UTC()}, nil
}

func (s *ledgerService) AdminAdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (*domain.Balance, error) {
	delta = currency.RoundUSD(delta)

	var balance *domain.Balance
	err := s.withRetry(ctx, func(ctx context.Context, store interfaces.Store) error {
		if _, err := store.Ledger().GetBalanceForUpdate(ctx, userID); err != nil {
			return err
		}

		newBalance, err := store.Ledger().AdjustBalance(ctx, userID, delta)
		if err != nil {
			return err
		}

		if err := store.Ledger().LogChange(ctx, &domain.LedgerEntry{
			UserID:       userID,
			Delta:        delta,
			BalanceAfter: newBalance,
			Reason:       domain.LedgerReasonAdminAdjust,
		}); err != nil {
			return err
		}

		balance = &domain.Balance{UserID: userID, Amount: newBalance, UpdatedAt: time.Now().UTC()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("delta", delta.String()).
		Str("balance", balance.Amount.String()).
		Msg("Admin balance adjustment applied")

	s.notifier.Push(userID, domain.Event{Type: domain.EventBalanceUpdate, Balance: balance})
	return balance, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error) {
	return s.txm.Store().Ledger().ListEntries(ctx, userID, limit)
}

func (s *ledgerService) withRetry(ctx context.Context, fn func(ctx context.Context, store interfaces.Store) error) error {
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
