package offeringservice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
)

type IOfferingService interface {
	CreateOffering(ctx context.Context, celebrityID, title string, price decimal.Decimal) (*domain.Offering, error)
	// SetOfferingPrice changes the listed price for future bookings.
	// Existing bookings keep the price snapshotted at their creation.
	SetOfferingPrice(ctx context.Context, offeringID string, price decimal.Decimal) (*domain.Offering, error)
	GetOffering(ctx context.Context, offeringID string) (*domain.Offering, error)
}
