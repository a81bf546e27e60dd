//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_service.go -package=mocks
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat_service/internal/domain"
	"chat_service/internal/repository"
	apperrors "chat_service/pkg/errors"
	"chat_service/pkg/logger"
)

type SendMessageInput struct {
	ChatID      uuid.UUID
	SenderID    uuid.UUID
	Content     *string
	MessageType string
	MediaURL    *string
	MediaType   *string
	ReplyToID   *int64
	Metadata    map[string]interface{}
}

type MessageService interface {
	SendMessage(ctx context.Context, input SendMessageInput) (*domain.Message, error)
	SendSystem(ctx context.Context, chatID, senderID uuid.UUID, content string) (*domain.Message, error)
	MarkMessagesAsDelivered(ctx context.Context, messageIDs []int64, recipientID uuid.UUID) error
	MarkMessagesAsRead(ctx context.Context, messageIDs []int64, userID uuid.UUID) error
}

type messageService struct {
	messageRepo     repository.MessageRepository
	participantRepo repository.ParticipantRepository
	log             logger.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, participantRepo repository.ParticipantRepository, log logger.Logger) MessageService {
	return &messageService{
		messageRepo:     messageRepo,
		participantRepo: participantRepo,
		log:             log,
	}
}

func (s *messageService) SendMessage(ctx context.Context, input SendMessageInput) (*domain.Message, error) {
	participant, err := s.participantRepo.Get(ctx, input.ChatID, input.SenderID)
	if err != nil {
		return nil, err
	}
	if !participant.IsActive() {
		return nil, apperrors.ErrLeftChat
	}

	hasContent := input.Content != nil && *input.Content != ""
	if !hasContent && input.MediaURL == nil {
		return nil, apperrors.ErrEmptyMessage
	}

	messageType := input.MessageType
	if messageType == "" {
		messageType = domain.MessageTypeText
		if input.MediaURL != nil {
			messageType = domain.MessageTypeMedia
		}
	}

	message := &domain.Message{
		ChatID:      input.ChatID,
		SenderID:    input.SenderID,
		Content:     input.Content,
		MessageType: messageType,
		Status:      domain.MessageStatusSent,
		MediaURL:    input.MediaURL,
		MediaType:   input.MediaType,
		ReplyToID:   input.ReplyToID,
		Metadata:    input.Metadata,
		SentAt:      time.Now().UTC(),
	}

	return s.send(ctx, message)
}

// SendSystem emits a system event into the chat. It deliberately skips the
// active-sender gate: membership changes report on behalf of a user who may
// have just left.
func (s *messageService) SendSystem(ctx context.Context, chatID, senderID uuid.UUID, content string) (*domain.Message, error) {
	message := &domain.Message{
		ChatID:      chatID,
		SenderID:    senderID,
		Content:     &content,
		MessageType: domain.MessageTypeSystem,
		Status:      domain.MessageStatusSent,
		SentAt:      time.Now().UTC(),
	}

	return s.send(ctx, message)
}

// send snapshots the active participants, fans the message out to everyone
// but the sender and writes everything (message, deliveries, outbox intent)
// in one store transaction. An empty recipient set is fine: the message is
// still created, with zero deliveries and no notification.
func (s *messageService) send(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	active, err := s.participantRepo.ListActive(ctx, message.ChatID)
	if err != nil {
		return nil, err
	}

	recipientIDs := lo.FilterMap(active, func(p *domain.ChatParticipant, _ int) (uuid.UUID, bool) {
		return p.UserID, p.UserID != message.SenderID
	})

	var outbox *domain.OutboxEntry
	if len(recipientIDs) > 0 {
		payload, err := json.Marshal(NotificationPayload{
			ChatID:      message.ChatID,
			SenderID:    message.SenderID,
			MessageType: message.MessageType,
			Preview:     messagePreview(message),
			SentAt:      message.SentAt,
		})
		if err != nil {
			return nil, err
		}
		outbox = &domain.OutboxEntry{
			ChatID:       message.ChatID,
			RecipientIDs: recipientIDs,
			Payload:      payload,
		}
	}

	if err := s.messageRepo.CreateWithDeliveries(ctx, message, recipientIDs, outbox); err != nil {
		return nil, err
	}

	s.log.Debug("Message sent", "chat_id", message.ChatID, "message_id", message.ID, "recipients", len(recipientIDs))
	return message, nil
}

func (s *messageService) MarkMessagesAsDelivered(ctx context.Context, messageIDs []int64, recipientID uuid.UUID) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := s.messageRepo.MarkDelivered(ctx, messageIDs, recipientID, time.Now().UTC())
	return err
}

func (s *messageService) MarkMessagesAsRead(ctx context.Context, messageIDs []int64, userID uuid.UUID) error {
	if len(messageIDs) == 0 {
		return nil
	}
	chatIDs, err := s.messageRepo.MarkRead(ctx, messageIDs, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	s.log.Debug("Messages marked as read", "user_id", userID, "chats", len(chatIDs))
	return nil
}

func messagePreview(message *domain.Message) string {
	if message.Content != nil {
		content := *message.Content
		if len(content) > 120 {
			content = content[:120]
		}
		return content
	}
	return "[media]"
}
