package offeringrepo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
)

type IOfferingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
	Create(ctx context.Context, offering *domain.Offering) error
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Offering, error)
}
