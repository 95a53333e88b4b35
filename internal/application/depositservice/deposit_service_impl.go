package depositservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/domain/interfaces"
	"github.com/starbookhq/starbook/internal/metrics"
	"github.com/starbookhq/starbook/pkg/config"
	"github.com/starbookhq/starbook/pkg/currency"
)

type depositService struct {
	txm           interfaces.TxManager
	priceClient   interfaces.PriceClient
	notifier      interfaces.EventNotifier
	fallbackRates map[string]decimal.Decimal
	maxRetries    int
	logger        zerolog.Logger
}

func NewDepositService(
	txm interfaces.TxManager,
	priceClient interfaces.PriceClient,
	notifier interfaces.EventNotifier,
	cfg *config.Config,
	logger zerolog.Logger,
) (IDepositService, error) {
	fallbacks := make(map[string]decimal.Decimal, len(cfg.FallbackRate))
	for asset, rate := range cfg.FallbackRate {
		d, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("invalid fallback rate for %s: %w", asset, err)
		}
		fallbacks[asset] = d
	}

	return &depositService{
		txm:           txm,
		priceClient:   priceClient,
		notifier:      notifier,
		fallbackRates: fallbacks,
		maxRetries:    cfg.Coordinator.MaxTxRetries,
		logger:        logger.With().Str("component", "deposit_service").Logger(),
	}, nil
}

func (s *depositService) CreateDeposit(ctx context.Context, userID string, amountUSD decimal.Decimal, asset string) (*domain.Deposit, error) {
	if amountUSD.IsZero() || amountUSD.IsNegative() {
		return nil, fmt.Errorf("deposit amount must be positive")
	}
	amountUSD = currency.RoundUSD(amountUSD)

	if _, err := s.txm.Store().Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}

	rate, err := s.resolveRate(ctx, asset)
	if err != nil {
		return nil, err
	}

	expected, err := currency.ExpectedAssetAmount(amountUSD, rate)
	if err != nil {
		return nil, err
	}

	deposit := &domain.Deposit{
		UserID:         userID,
		AmountUSD:      amountUSD,
		Asset:          asset,
		RateUSD:        rate,
		ExpectedAmount: expected,
		Status:         domain.DepositStatusPending,
	}
	if err := s.txm.Store().Deposits().Create(ctx, deposit); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("deposit_id", deposit.ID).
		Str("user_id", userID).
		Str("asset", asset).
		Str("rate", rate.String()).
		Str("expected_amount", expected.String()).
		Msg("Deposit created")

	s.notifier.Push(userID, domain.Event{Type: domain.EventDepositUpdate, Deposit: deposit})
	return deposit, nil
}

// resolveRate asks the live price source once and falls back to the static
// per-asset rate when it is down. The degraded path keeps deposit creation
// available through exchange-API outages.
func (s *depositService) resolveRate(ctx context.Context, asset string) (decimal.Decimal, error) {
	rate, err := s.priceClient.GetAssetPriceUsd(ctx, asset)
	if err == nil {
		return rate, nil
	}

	fallback, ok := s.fallbackRates[asset]
	if !ok {
		return decimal.Zero, fmt.Errorf("unsupported asset %q", asset)
	}

	s.logger.Warn().
		Err(err).
		Str("asset", asset).
		Str("fallback_rate", fallback.String()).
		Msg("Live price unavailable, using fallback rate")
	return fallback, nil
}

func (s *depositService) SetDepositStatus(ctx context.Context, depositID string, status domain.DepositStatus, proofRef string) (*domain.Deposit, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("deposit status must be approved or rejected")
	}

	var deposit *domain.Deposit
	var credited bool

	err := s.withRetry(ctx, func(ctx context.Context, store interfaces.Store) error {
		credited = false
		current, err := store.Deposits().GetForUpdate(ctx, depositID)
		if err != nil {
			return err
		}

		// A deposit leaves pending at most once. Re-approving (or any
		// second terminal request) never touches the ledger again.
		if current.Status != domain.DepositStatusPending {
			deposit = current
			return nil
		}

		if status == domain.DepositStatusApproved {
			if _, err := store.Ledger().GetBalanceForUpdate(ctx, current.UserID); err != nil {
				return err
			}
			newBalance, err := store.Ledger().AdjustBalance(ctx, current.UserID, current.AmountUSD)
			if err != nil {
				return err
			}
			if err := store.Ledger().LogChange(ctx, &domain.LedgerEntry{
				UserID:       current.UserID,
				Delta:        current.AmountUSD,
				BalanceAfter: newBalance,
				Reason:       domain.LedgerReasonDepositCredit,
				ReferenceID:  current.ID,
			}); err != nil {
				return err
			}
			credited = true
		} else {
			// Proof metadata is recorded only on the approval edge.
			proofRef = ""
		}

		deposit, err = store.Deposits().UpdateStatus(ctx, depositID, status, proofRef)
		if err != nil {
			return err
		}

		return store.Notifications().Create(ctx, &domain.Notification{
			UserID: deposit.UserID,
			Kind:   string(domain.EventDepositUpdate),
			Body:   fmt.Sprintf("Deposit %s is now %s", deposit.ID, deposit.Status),
		})
	})
	if err != nil {
		return nil, err
	}

	if credited {
		metrics.DepositsApproved.Inc()
		s.logger.Info().
			Str("deposit_id", deposit.ID).
			Str("user_id", deposit.UserID).
			Str("amount_usd", deposit.AmountUSD.String()).
			Msg("Deposit approved, ledger credited")
	}

	s.notifier.Push(deposit.UserID, domain.Event{Type: domain.EventDepositUpdate, Deposit: deposit})
	return deposit, nil
}

func (s *depositService) ListDeposits(ctx context.Context, userID string, limit int) ([]*domain.Deposit, error) {
	return s.txm.Store().Deposits().ListByUser(ctx, userID, limit)
}

func (s *depositService) withRetry(ctx context.Context, fn func(ctx context.Context, store interfaces.Store) error) error {
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
