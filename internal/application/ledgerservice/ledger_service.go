package ledgerservice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
)

type ILedgerService interface {
	GetBalance(ctx context.Context, userID string) (*domain.Balance, error)
	// AdminAdjustBalance applies a signed delta with no lower bound, an
	// admin may drive a balance negative. User-driven debits go through
	// the booking coordinator and stay bounds-checked.
	AdminAdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (*domain.Balance, error)
	ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error)
}
