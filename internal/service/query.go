//go:generate go run go.uber.org/mock/mockgen -source=query.go -destination=../mocks/mock_query_service.go -package=mocks
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat_service/internal/domain"
	"chat_service/internal/repository"
	apperrors "chat_service/pkg/errors"
	"chat_service/pkg/logger"
)

type QueryService interface {
	GetChatMessages(ctx context.Context, chatID, userID uuid.UUID, page, limit int) (*domain.MessagePage, error)
	GetUserChats(ctx context.Context, userID uuid.UUID) ([]*domain.ChatSummary, error)
}

type queryService struct {
	chatRepo        repository.ChatRepository
	messageRepo     repository.MessageRepository
	participantRepo repository.ParticipantRepository
	messages        MessageService
	log             logger.Logger
}

func NewQueryService(chatRepo repository.ChatRepository, messageRepo repository.MessageRepository, participantRepo repository.ParticipantRepository, messages MessageService, log logger.Logger) QueryService {
	return &queryService{
		chatRepo:        chatRepo,
		messageRepo:     messageRepo,
		participantRepo: participantRepo,
		messages:        messages,
		log:             log,
	}
}

// GetChatMessages returns one page of chat history in chronological order.
// Reading marks the returned messages as delivered for the reader (read
// access implies delivery, not a read receipt).
func (s *queryService) GetChatMessages(ctx context.Context, chatID, userID uuid.UUID, page, limit int) (*domain.MessagePage, error) {
	participant, err := s.participantRepo.Get(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if !participant.IsActive() {
		return nil, apperrors.ErrLeftChat
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	views, total, err := s.messageRepo.ListPage(ctx, chatID, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	messageIDs := lo.Map(views, func(v *domain.MessageView, _ int) int64 { return v.ID })
	if err := s.messages.MarkMessagesAsDelivered(ctx, messageIDs, userID); err != nil {
		// The page itself is still good; delivery marking will catch up on
		// the next read.
		s.log.Error("Failed to mark messages as delivered", "error", err, "chat_id", chatID, "user_id", userID)
	}

	lo.Reverse(views)

	return &domain.MessagePage{
		Items:   views,
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: offset+limit < total,
	}, nil
}

func (s *queryService) GetUserChats(ctx context.Context, userID uuid.UUID) ([]*domain.ChatSummary, error) {
	return s.chatRepo.ListSummaries(ctx, userID)
}
