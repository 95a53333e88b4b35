package notificationservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/domain/interfaces"
)

type notificationService struct {
	txm    interfaces.TxManager
	logger zerolog.Logger
}

func NewNotificationService(txm interfaces.TxManager, logger zerolog.Logger) INotificationService {
	return &notificationService{
		txm:    txm,
		logger: logger.With().Str("component", "notification_service").Logger(),
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	return s.txm.Store().Notifications().ListByUser(ctx, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	return s.txm.Store().Notifications().MarkRead(ctx, notificationID, userID)
}
