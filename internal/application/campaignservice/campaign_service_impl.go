package campaignservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/domain/interfaces"
)

type campaignService struct {
	txm      interfaces.TxManager
	notifier interfaces.EventNotifier
	logger   zerolog.Logger
}

func NewCampaignService(txm interfaces.TxManager, notifier interfaces.EventNotifier, logger zerolog.Logger) ICampaignService {
	return &campaignService{
		txm:      txm,
		notifier: notifier,
		logger:   logger.With().Str("component", "campaign_service").Logger(),
	}
}

func (s *campaignService) CreateCampaign(ctx context.Context, userID, title, description string) (*domain.Campaign, error) {
	if title == "" {
		return nil, fmt.Errorf("campaign title is required")
	}

	campaign := &domain.Campaign{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      domain.CampaignStatusDraft,
	}
	if err := s.txm.Store().Campaigns().Create(ctx, campaign); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("campaign_id", campaign.ID).
		Str("user_id", userID).
		Msg("Campaign created")

	s.notifier.Push(userID, domain.Event{Type: domain.EventCampaignUpdate, Campaign: campaign})
	return campaign, nil
}

func (s *campaignService) SetCampaignStatus(ctx context.Context, campaignID string, status domain.CampaignStatus) (*domain.Campaign, error) {
	var campaign *domain.Campaign
	var changed bool

	err := s.txm.WithTx(ctx, func(ctx context.Context, store interfaces.Store) error {
		changed = false
		current, err := store.Campaigns().GetForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}

		if current.Status == status || !current.Status.CanTransition(status) {
			campaign = current
			return nil
		}
		changed = true

		campaign, err = store.Campaigns().UpdateStatus(ctx, campaignID, status)
		if err != nil {
			return err
		}

		return store.Notifications().Create(ctx, &domain.Notification{
			UserID: campaign.UserID,
			Kind:   string(domain.EventCampaignUpdate),
			Body:   fmt.Sprintf("Campaign %q is now %s", campaign.Title, campaign.Status),
		})
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info().
			Str("campaign_id", campaign.ID).
			Str("status", string(campaign.Status)).
			Msg("Campaign status updated")
		s.notifier.Push(campaign.UserID, domain.Event{Type: domain.EventCampaignUpdate, Campaign: campaign})
	}
	return campaign, nil
}

func (s *campaignService) GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	return s.txm.Store().Campaigns().GetByID(ctx, campaignID)
}
