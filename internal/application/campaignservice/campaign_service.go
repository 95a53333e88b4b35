package campaignservice

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type ICampaignService interface {
	CreateCampaign(ctx context.Context, userID, title, description string) (*domain.Campaign, error)
	// SetCampaignStatus applies an allowed transition; disallowed ones are
	// idempotent no-ops returning the current record.
	SetCampaignStatus(ctx context.Context, campaignID string, status domain.CampaignStatus) (*domain.Campaign, error)
	GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error)
}
