package messagerepo

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type IMessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListBetween(ctx context.Context, userA, userB string, limit int) ([]*domain.Message, error)
}
