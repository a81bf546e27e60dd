//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_service.go -package=mocks
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat_service/internal/domain"
	"chat_service/internal/repository"
	apperrors "chat_service/pkg/errors"
	"chat_service/pkg/logger"
)

type CreateChatInput struct {
	Type           string
	Title          *string
	Description    *string
	ParticipantIDs []uuid.UUID
	CreatorID      uuid.UUID
}

type ChatService interface {
	CreateChat(ctx context.Context, input CreateChatInput) (*domain.Chat, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	messages MessageService
	log      logger.Logger
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, messages MessageService, log logger.Logger) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		messages: messages,
		log:      log,
	}
}

// CreateChat creates a chat with its initial membership. Direct chats are
// idempotent per unordered user pair: repeated calls return the existing
// chat, and a lost creation race resolves to the winner's row.
func (s *chatService) CreateChat(ctx context.Context, input CreateChatInput) (*domain.Chat, error) {
	if !domain.ValidChatType(input.Type) {
		return nil, fmt.Errorf("unknown chat type %q: %w", input.Type, apperrors.ErrValidation)
	}

	participantIDs := lo.Uniq(input.ParticipantIDs)
	if len(participantIDs) == 0 {
		return nil, apperrors.ErrEmptyParticipants
	}

	var directKey *string
	if input.Type == domain.ChatTypeDirect {
		if len(participantIDs) != 2 || !lo.Contains(participantIDs, input.CreatorID) {
			return nil, apperrors.ErrDirectChatParticipants
		}
		key := domain.DirectChatKey(participantIDs[0], participantIDs[1])
		directKey = &key
	} else if !lo.Contains(participantIDs, input.CreatorID) {
		participantIDs = append(participantIDs, input.CreatorID)
	}

	existing, err := s.userRepo.ExistingIDs(ctx, participantIDs)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(participantIDs) {
		return nil, fmt.Errorf("unknown participant id: %w", apperrors.ErrUserNotFound)
	}

	if directKey != nil {
		chat, err := s.chatRepo.GetByDirectKey(ctx, *directKey)
		if err == nil {
			return chat, nil
		}
		if !errors.Is(err, apperrors.ErrChatNotFound) {
			return nil, err
		}
	}

	now := time.Now().UTC()
	chat := &domain.Chat{
		ID:               uuid.New(),
		Type:             input.Type,
		Title:            input.Title,
		Description:      input.Description,
		DirectKey:        directKey,
		ParticipantCount: len(participantIDs),
		IsActive:         true,
		CreatedAt:        now,
	}

	participants := lo.Map(participantIDs, func(userID uuid.UUID, _ int) *domain.ChatParticipant {
		role := domain.ParticipantRoleMember
		if userID == input.CreatorID {
			role = domain.ParticipantRoleAdmin
		}
		return &domain.ChatParticipant{
			ChatID:   chat.ID,
			UserID:   userID,
			Role:     role,
			JoinedAt: now,
		}
	})

	if err := s.chatRepo.CreateWithParticipants(ctx, chat, participants); err != nil {
		if directKey != nil && errors.Is(err, apperrors.ErrDirectChatExists) {
			// Lost the creation race; the winner's chat is the answer.
			return s.chatRepo.GetByDirectKey(ctx, *directKey)
		}
		return nil, err
	}

	s.log.Info("Chat created", "chat_id", chat.ID, "type", chat.Type, "participants", len(participants))

	if input.Type != domain.ChatTypeDirect {
		text := "Chat created"
		if input.Title != nil && *input.Title != "" {
			text = "Chat created: " + *input.Title
		}
		if _, err := s.messages.SendSystem(ctx, chat.ID, input.CreatorID, text); err != nil {
			s.log.Error("Failed to emit chat creation message", "error", err, "chat_id", chat.ID)
		}
	}

	return chat, nil
}
