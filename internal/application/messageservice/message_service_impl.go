package messageservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/domain/interfaces"
)

type messageService struct {
	txm      interfaces.TxManager
	notifier interfaces.EventNotifier
	logger   zerolog.Logger
}

func NewMessageService(txm interfaces.TxManager, notifier interfaces.EventNotifier, logger zerolog.Logger) IMessageService {
	return &messageService{
		txm:      txm,
		notifier: notifier,
		logger:   logger.With().Str("component", "message_service").Logger(),
	}
}

func (s *messageService) SendMessage(ctx context.Context, senderID string, senderRole domain.UserRole, recipientID, body string) (*domain.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("message body is required")
	}
	if senderRole == domain.RoleAdmin && recipientID == "" {
		return nil, fmt.Errorf("admin messages require a recipient")
	}

	message := &domain.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if err := s.txm.Store().Messages().Create(ctx, message); err != nil {
		return nil, err
	}

	event := domain.Event{Type: domain.EventNewMessage, Message: message}
	if senderRole == domain.RoleAdmin {
		s.notifier.Push(recipientID, event)
	} else {
		s.notifier.BroadcastAll(event)
	}

	s.logger.Info().
		Str("message_id", message.ID).
		Str("sender_id", senderID).
		Bool("broadcast", senderRole != domain.RoleAdmin).
		Msg("Message sent")

	return message, nil
}

func (s *messageService) ListConversation(ctx context.Context, userA, userB string, limit int) ([]*domain.Message, error) {
	return s.txm.Store().Messages().ListBetween(ctx, userA, userB, limit)
}
