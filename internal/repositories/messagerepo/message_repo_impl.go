package messagerepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/pkg/db"
)

type MessageRepository struct {
	q db.DBTX
}

func New(q db.DBTX) IMessageRepository {
	return &MessageRepository{q: q}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	_, err := r.q.Exec(ctx,
		`INSERT INTO messages (id, sender_id, recipient_id, body, created_at)
		 VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5)`,
		message.ID, message.SenderID, message.RecipientID, message.Body, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListBetween(ctx context.Context, userA, userB string, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.q.Query(ctx,
		`SELECT id, sender_id, COALESCE(recipient_id::text, ''), body, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		 ORDER BY created_at DESC LIMIT $3`,
		userA, userB, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
