package ledgerrepo

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

type LedgerRepository struct {
	q db.DBTX
}

func New(q db.DBTX) ILedgerRepository {
	return &LedgerRepository{q: q}
}

func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid user_id format: %v", err)
	}

	var balance decimal.Decimal
	err = r.q.QueryRow(ctx, "SELECT balance FROM users WHERE id = $1", userUUID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (r *LedgerRepository) GetBalanceForUpdate(ctx context.Context, userID string) (decimal.Decimal, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid user_id format: %v", err)
	}

	var balance decimal.Decimal
	err = r.q.QueryRow(ctx, "SELECT balance FROM users WHERE id = $1 FOR UPDATE", userUUID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to lock balance row: %w", err)
	}
	return balance, nil
}

func (r *LedgerRepository) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid user_id format: %v", err)
	}

	var balance decimal.Decimal
	err = r.q.QueryRow(ctx,
		"UPDATE users SET balance = balance + $2, updated_at = now() WHERE id = $1 RETURNING balance",
		userUUID, delta,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return balance, nil
}

func (r *LedgerRepository) LogChange(ctx context.Context, entry *domain.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.q.Exec(ctx,
		`INSERT INTO ledger_entries (id, user_id, delta, balance_after, reason, reference_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		entry.ID, entry.UserID, entry.Delta, entry.BalanceAfter, entry.Reason, entry.ReferenceID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log ledger change: %w", err)
	}
	return nil
}

func (r *LedgerRepository) ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, delta, balance_after, reason, COALESCE(reference_id, ''), created_at
		 FROM ledger_entries WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Delta, &e.BalanceAfter, &e.Reason, &e.ReferenceID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
