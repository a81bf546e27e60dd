//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_participant_service.go -package=mocks
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat_service/internal/domain"
	"chat_service/internal/repository"
	apperrors "chat_service/pkg/errors"
	"chat_service/pkg/logger"
)

type ParticipantService interface {
	AddParticipants(ctx context.Context, chatID uuid.UUID, userIDs []uuid.UUID, addedBy uuid.UUID) error
	LeaveChat(ctx context.Context, chatID, userID uuid.UUID) error
}

type participantService struct {
	chatRepo        repository.ChatRepository
	participantRepo repository.ParticipantRepository
	userRepo        repository.UserRepository
	messages        MessageService
	log             logger.Logger
}

func NewParticipantService(chatRepo repository.ChatRepository, participantRepo repository.ParticipantRepository, userRepo repository.UserRepository, messages MessageService, log logger.Logger) ParticipantService {
	return &participantService{
		chatRepo:        chatRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		messages:        messages,
		log:             log,
	}
}

// AddParticipants adds (or re-adds) users to a group or venue chat. Direct
// chat membership is frozen at creation.
func (s *participantService) AddParticipants(ctx context.Context, chatID uuid.UUID, userIDs []uuid.UUID, addedBy uuid.UUID) error {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.Type == domain.ChatTypeDirect {
		return apperrors.ErrDirectChatImmutable
	}

	actor, err := s.participantRepo.Get(ctx, chatID, addedBy)
	if err != nil {
		return err
	}
	if !actor.IsActive() {
		return apperrors.ErrLeftChat
	}
	if !actor.CanManageParticipants() {
		return apperrors.ErrRoleRequired
	}

	ids := lo.Uniq(userIDs)
	if len(ids) == 0 {
		return apperrors.ErrEmptyParticipants
	}

	existing, err := s.userRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(existing) != len(ids) {
		return fmt.Errorf("unknown participant id: %w", apperrors.ErrUserNotFound)
	}

	count, err := s.participantRepo.AddMembers(ctx, chatID, ids, time.Now().UTC())
	if err != nil {
		return err
	}

	s.log.Info("Participants added", "chat_id", chatID, "added", len(ids), "participant_count", count)

	text := fmt.Sprintf("%d participant(s) joined the chat", len(ids))
	if _, err := s.messages.SendSystem(ctx, chatID, addedBy, text); err != nil {
		s.log.Error("Failed to emit participant join message", "error", err, "chat_id", chatID)
	}

	return nil
}

// LeaveChat tombstones the membership row. The chat and the user's past
// messages remain; only future sends and reads are blocked.
func (s *participantService) LeaveChat(ctx context.Context, chatID, userID uuid.UUID) error {
	count, err := s.participantRepo.Leave(ctx, chatID, userID, time.Now().UTC())
	if err != nil {
		return err
	}

	s.log.Info("Participant left", "chat_id", chatID, "user_id", userID, "participant_count", count)

	if _, err := s.messages.SendSystem(ctx, chatID, userID, "A participant left the chat"); err != nil {
		s.log.Error("Failed to emit participant leave message", "error", err, "chat_id", chatID)
	}

	return nil
}
