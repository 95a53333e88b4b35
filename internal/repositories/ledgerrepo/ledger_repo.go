package ledgerrepo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
)

type ILedgerRepository interface {
	// GetBalance reads a user's balance without locking.
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	// GetBalanceForUpdate reads a user's balance under a row-level
	// exclusive lock, serializing concurrent coordinators for that user.
	GetBalanceForUpdate(ctx context.Context, userID string) (decimal.Decimal, error)
	// AdjustBalance applies a signed delta atomically and returns the new
	// balance. Fails with domain.ErrNotFound if the user is absent.
	AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error)
	// LogChange appends an immutable ledger entry for the adjustment.
	LogChange(ctx context.Context, entry *domain.LedgerEntry) error
	// ListEntries returns a user's ledger entries, newest first.
	ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error)
}
