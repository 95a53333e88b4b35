package notificationrepo

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type INotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
	// MarkRead flips unread to read. The flag never moves backwards.
	MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error)
}
