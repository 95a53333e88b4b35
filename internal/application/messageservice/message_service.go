package messageservice

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type IMessageService interface {
	// SendMessage persists the message, then pushes it: an admin sender
	// targets the recipient's channel, any other sender falls back to the
	// broadcast-to-all primitive.
	SendMessage(ctx context.Context, senderID string, senderRole domain.UserRole, recipientID, body string) (*domain.Message, error)
	ListConversation(ctx context.Context, userA, userB string, limit int) ([]*domain.Message, error)
}
