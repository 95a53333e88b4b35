package campaignrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/pkg/db"
)

type CampaignRepository struct {
	q db.DBTX
}

func New(q db.DBTX) ICampaignRepository {
	return &CampaignRepository{q: q}
}

const campaignColumns = "id, user_id, title, COALESCE(description, ''), status, created_at, updated_at"

func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	_, err := r.q.Exec(ctx,
		`INSERT INTO campaigns (id, user_id, title, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`,
		campaign.ID, campaign.UserID, campaign.Title, campaign.Description, campaign.Status,
		campaign.CreatedAt, campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return r.get(ctx, "SELECT "+campaignColumns+" FROM campaigns WHERE id = $1", id)
}

func (r *CampaignRepository) GetForUpdate(ctx context.Context, id string) (*domain.Campaign, error) {
	return r.get(ctx, "SELECT "+campaignColumns+" FROM campaigns WHERE id = $1 FOR UPDATE", id)
}

func (r *CampaignRepository) get(ctx context.Context, query, id string) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Title, &c.Description, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.q.QueryRow(ctx,
		"UPDATE campaigns SET status = $2, updated_at = now() WHERE id = $1 RETURNING "+campaignColumns,
		id, status,
	).Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update campaign status: %w", err)
	}
	return &c, nil
}
