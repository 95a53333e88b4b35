package notificationservice

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type INotificationService interface {
	ListNotifications(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
}
