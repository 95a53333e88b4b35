package depositrepo

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

type DepositRepository struct {
	q db.DBTX
}

func New(q db.DBTX) IDepositRepository {
	return &DepositRepository{q: q}
}

const depositColumns = "id, user_id, amount_usd, asset, rate_usd, expected_amount, status, COALESCE(proof_ref, ''), created_at, updated_at"

func (r *DepositRepository) Create(ctx context.Context, deposit *domain.Deposit) error {
	if deposit.ID == "" {
		deposit.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	deposit.CreatedAt = now
	deposit.UpdatedAt = now

	_, err := r.q.Exec(ctx,
		`INSERT INTO deposits (id, user_id, amount_usd, asset, rate_usd, expected_amount, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		deposit.ID, deposit.UserID, deposit.AmountUSD, deposit.Asset, deposit.RateUSD,
		deposit.ExpectedAmount, deposit.Status, deposit.CreatedAt, deposit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deposit: %w", err)
	}
	return nil
}

func (r *DepositRepository) GetByID(ctx context.Context, id string) (*domain.Deposit, error) {
	return r.get(ctx, "SELECT "+depositColumns+" FROM deposits WHERE id = $1", id)
}

func (r *DepositRepository) GetForUpdate(ctx context.Context, id string) (*domain.Deposit, error) {
	return r.get(ctx, "SELECT "+depositColumns+" FROM deposits WHERE id = $1 FOR UPDATE", id)
}

func (r *DepositRepository) get(ctx context.Context, query, id string) (*domain.Deposit, error) {
	var d domain.Deposit
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.UserID, &d.AmountUSD, &d.Asset, &d.RateUSD, &d.ExpectedAmount,
		&d.Status, &d.ProofRef, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return &d, nil
}

func (r *DepositRepository) UpdateStatus(ctx context.Context, id string, status domain.DepositStatus, proofRef string) (*domain.Deposit, error) {
	var d domain.Deposit
	err := r.q.QueryRow(ctx,
		`UPDATE deposits SET status = $2, proof_ref = NULLIF($3, ''), updated_at = now() WHERE id = $1
		 RETURNING `+depositColumns,
		id, status, proofRef,
	).Scan(
		&d.ID, &d.UserID, &d.AmountUSD, &d.Asset, &d.RateUSD, &d.ExpectedAmount,
		&d.Status, &d.ProofRef, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update deposit status: %w", err)
	}
	return &d, nil
}

func (r *DepositRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Deposit, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.q.Query(ctx,
		"SELECT "+depositColumns+" FROM deposits WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits: %w", err)
	}
	defer rows.Close()

	var deposits []*domain.Deposit
	for rows.Next() {
		var d domain.Deposit
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.AmountUSD, &d.Asset, &d.RateUSD, &d.ExpectedAmount,
			&d.Status, &d.ProofRef, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, &d)
	}
	return deposits, rows.Err()
}
