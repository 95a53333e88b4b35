package offeringrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/pkg/db"
)

type OfferingRepository struct {
	q db.DBTX
}

func New(q db.DBTX) IOfferingRepository {
	return &OfferingRepository{q: q}
}

const offeringColumns = "id, celebrity_id, title, price, active, created_at, updated_at"

func (r *OfferingRepository) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	var o domain.Offering
	err := r.q.QueryRow(ctx,
		"SELECT "+offeringColumns+" FROM offerings WHERE id = $1", id,
	).Scan(&o.ID, &o.CelebrityID, &o.Title, &o.Price, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	return &o, nil
}

func (r *OfferingRepository) Create(ctx context.Context, offering *domain.Offering) error {
	if offering.ID == "" {
		offering.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	offering.CreatedAt = now
	offering.UpdatedAt = now

	_, err := r.q.Exec(ctx,
		`INSERT INTO offerings (id, celebrity_id, title, price, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		offering.ID, offering.CelebrityID, offering.Title, offering.Price, offering.Active,
		offering.CreatedAt, offering.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert offering: %w", err)
	}
	return nil
}

func (r *OfferingRepository) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Offering, error) {
	var o domain.Offering
	err := r.q.QueryRow(ctx,
		"UPDATE offerings SET price = $2, updated_at = now() WHERE id = $1 RETURNING "+offeringColumns,
		id, price,
	).Scan(&o.ID, &o.CelebrityID, &o.Title, &o.Price, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update offering price: %w", err)
	}
	return &o, nil
}
