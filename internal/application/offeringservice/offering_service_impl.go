package offeringservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/domain/interfaces"
	"github.com/starbookhq/starbook/pkg/currency"
)

type offeringService struct {
	txm    interfaces.TxManager
	logger zerolog.Logger
}

func NewOfferingService(txm interfaces.TxManager, logger zerolog.Logger) IOfferingService {
	return &offeringService{
		txm:    txm,
		logger: logger.With().Str("component", "offering_service").Logger(),
	}
}

func (s *offeringService) CreateOffering(ctx context.Context, celebrityID, title string, price decimal.Decimal) (*domain.Offering, error) {
	if title == "" {
		return nil, fmt.Errorf("offering title is required")
	}
	if price.IsZero() || price.IsNegative() {
		return nil, fmt.Errorf("offering price must be positive")
	}

	offering := &domain.Offering{
		CelebrityID: celebrityID,
		Title:       title,
		Price:       currency.RoundUSD(price),
		Active:      true,
	}
	if err := s.txm.Store().Offerings().Create(ctx, offering); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("offering_id", offering.ID).
		Str("price", offering.Price.String()).
		Msg("Offering created")
	return offering, nil
}

func (s *offeringService) SetOfferingPrice(ctx context.Context, offeringID string, price decimal.Decimal) (*domain.Offering, error) {
	if price.IsZero() || price.IsNegative() {
		return nil, fmt.Errorf("offering price must be positive")
	}

	offering, err := s.txm.Store().Offerings().UpdatePrice(ctx, offeringID, currency.RoundUSD(price))
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("offering_id", offering.ID).
		Str("price", offering.Price.String()).
		Msg("Offering repriced")
	return offering, nil
}

func (s *offeringService) GetOffering(ctx context.Context, offeringID string) (*domain.Offering, error) {
	return s.txm.Store().Offerings().GetByID(ctx, offeringID)
}
