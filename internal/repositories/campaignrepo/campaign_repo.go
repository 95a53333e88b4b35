package campaignrepo

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type ICampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Campaign, error)
	UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) (*domain.Campaign, error)
}
