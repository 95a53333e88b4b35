package depositrepo

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type IDepositRepository interface {
	Create(ctx context.Context, deposit *domain.Deposit) error
	GetByID(ctx context.Context, id string) (*domain.Deposit, error)
	// GetForUpdate locks the deposit row so concurrent approvals of the
	// same deposit serialize.
	GetForUpdate(ctx context.Context, id string) (*domain.Deposit, error)
	UpdateStatus(ctx context.Context, id string, status domain.DepositStatus, proofRef string) (*domain.Deposit, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Deposit, error)
}
