package depositservice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
)

type IDepositService interface {
	// CreateDeposit freezes the asset rate at creation time and computes
	// the crypto amount the user must send. Falls back to a static
	// per-asset rate when the live price source is unreachable.
	CreateDeposit(ctx context.Context, userID string, amountUSD decimal.Decimal, asset string) (*domain.Deposit, error)
	// SetDepositStatus moves a pending deposit to approved or rejected.
	// Approval credits the recorded USD amount exactly once; a non-pending
	// deposit is a ledger no-op returning the current record.
	SetDepositStatus(ctx context.Context, depositID string, status domain.DepositStatus, proofRef string) (*domain.Deposit, error)
	ListDeposits(ctx context.Context, userID string, limit int) ([]*domain.Deposit, error)
}
