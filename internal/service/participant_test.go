package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat_service/internal/domain"
	"chat_service/internal/mocks"
	"chat_service/internal/service"
	apperrors "chat_service/pkg/errors"
	"chat_service/pkg/logger"
)

func TestParticipantService_AddParticipants(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chatRepo := mocks.NewMockChatRepository(ctrl)
	participantRepo := mocks.NewMockParticipantRepository(ctrl)
	userRepo := mocks.NewMockUserRepository(ctrl)
	messages := mocks.NewMockMessageService(ctrl)
	svc := service.NewParticipantService(chatRepo, participantRepo, userRepo, messages, logger.New("error"))

	chatID := uuid.New()
	admin := uuid.New()
	newcomerA := uuid.New()
	newcomerB := uuid.New()

	groupChat := &domain.Chat{ID: chatID, Type: domain.ChatTypeGroup}
	adminRow := &domain.ChatParticipant{ChatID: chatID, UserID: admin, Role: domain.ParticipantRoleAdmin}

	t.Run("should add members and announce them", func(t *testing.T) {
		req := require.New(t)

		chatRepo.EXPECT().GetByID(gomock.Any(), chatID).Return(groupChat, nil)
		participantRepo.EXPECT().Get(gomock.Any(), chatID, admin).Return(adminRow, nil)
		userRepo.EXPECT().
			ExistingIDs(gomock.Any(), []uuid.UUID{newcomerA, newcomerB}).
			Return([]uuid.UUID{newcomerA, newcomerB}, nil)
		participantRepo.EXPECT().
			AddMembers(gomock.Any(), chatID, []uuid.UUID{newcomerA, newcomerB}, gomock.Any()).
			Return(5, nil)
		messages.EXPECT().
			SendSystem(gomock.Any(), chatID, admin, "2 participant(s) joined the chat").
			Return(&domain.Message{}, nil)

		err := svc.AddParticipants(context.Background(), chatID, []uuid.UUID{newcomerA, newcomerB, newcomerA}, admin)

		req.NoError(err)
	})

	t.Run("should refuse to grow a direct chat", func(t *testing.T) {
		req := require.New(t)

		chatRepo.EXPECT().
			GetByID(gomock.Any(), chatID).
			Return(&domain.Chat{ID: chatID, Type: domain.ChatTypeDirect}, nil)

		err := svc.AddParticipants(context.Background(), chatID, []uuid.UUID{newcomerA}, admin)

		req.ErrorIs(err, apperrors.ErrDirectChatImmutable)
	})

	t.Run("should refuse an actor who left the chat", func(t *testing.T) {
		req := require.New(t)
		left := time.Now().UTC()

		chatRepo.EXPECT().GetByID(gomock.Any(), chatID).Return(groupChat, nil)
		participantRepo.EXPECT().
			Get(gomock.Any(), chatID, admin).
			Return(&domain.ChatParticipant{ChatID: chatID, UserID: admin, Role: domain.ParticipantRoleAdmin, LeftAt: &left}, nil)

		err := svc.AddParticipants(context.Background(), chatID, []uuid.UUID{newcomerA}, admin)

		req.ErrorIs(err, apperrors.ErrLeftChat)
	})

	t.Run("should refuse a plain member", func(t *testing.T) {
		req := require.New(t)

		chatRepo.EXPECT().GetByID(gomock.Any(), chatID).Return(groupChat, nil)
		participantRepo.EXPECT().
			Get(gomock.Any(), chatID, admin).
			Return(&domain.ChatParticipant{ChatID: chatID, UserID: admin, Role: domain.ParticipantRoleMember}, nil)

		err := svc.AddParticipants(context.Background(), chatID, []uuid.UUID{newcomerA}, admin)

		req.ErrorIs(err, apperrors.ErrRoleRequired)
	})

	t.Run("should allow a moderator", func(t *testing.T) {
		req := require.New(t)

		chatRepo.EXPECT().GetByID(gomock.Any(), chatID).Return(groupChat, nil)
		participantRepo.EXPECT().
			Get(gomock.Any(), chatID, admin).
			Return(&domain.ChatParticipant{ChatID: chatID, UserID: admin, Role: domain.ParticipantRoleModerator}, nil)
		userRepo.EXPECT().
			ExistingIDs(gomock.Any(), []uuid.UUID{newcomerA}).
			Return([]uuid.UUID{newcomerA}, nil)
		participantRepo.EXPECT().
			AddMembers(gomock.Any(), chatID, []uuid.UUID{newcomerA}, gomock.Any()).
			Return(4, nil)
		messages.EXPECT().
			SendSystem(gomock.Any(), chatID, admin, gomock.Any()).
			Return(&domain.Message{}, nil)

		err := svc.AddParticipants(context.Background(), chatID, []uuid.UUID{newcomerA}, admin)

		req.NoError(err)
	})

	t.Run("should reject an empty user list", func(t *testing.T) {
		req := require.New(t)

		chatRepo.EXPECT().GetByID(gomock.Any(), chatID).Return(groupChat, nil)
		participantRepo.EXPECT().Get(gomock.Any(), chatID, admin).Return(adminRow, nil)

		err := svc.AddParticipants(context.Background(), chatID, nil, admin)

		req.ErrorIs(err, apperrors.ErrEmptyParticipants)
	})

	t.Run("should reject unknown users", func(t *testing.T) {
		req := require.New(t)

		chatRepo.EXPECT().GetByID(gomock.Any(), chatID).Return(groupChat, nil)
		participantRepo.EXPECT().Get(gomock.Any(), chatID, admin).Return(adminRow, nil)
		userRepo.EXPECT().
			ExistingIDs(gomock.Any(), []uuid.UUID{newcomerA, newcomerB}).
			Return([]uuid.UUID{newcomerA}, nil)

		err := svc.AddParticipants(context.Background(), chatID, []uuid.UUID{newcomerA, newcomerB}, admin)

		req.ErrorIs(err, apperrors.ErrUserNotFound)
	})
}

func TestParticipantService_LeaveChat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chatRepo := mocks.NewMockChatRepository(ctrl)
	participantRepo := mocks.NewMockParticipantRepository(ctrl)
	userRepo := mocks.NewMockUserRepository(ctrl)
	messages := mocks.NewMockMessageService(ctrl)
	svc := service.NewParticipantService(chatRepo, participantRepo, userRepo, messages, logger.New("error"))

	chatID := uuid.New()
	userID := uuid.New()

	t.Run("should tombstone the membership and announce the exit", func(t *testing.T) {
		req := require.New(t)

		participantRepo.EXPECT().
			Leave(gomock.Any(), chatID, userID, gomock.Any()).
			Return(3, nil)
		messages.EXPECT().
			SendSystem(gomock.Any(), chatID, userID, "A participant left the chat").
			Return(&domain.Message{}, nil)

		req.NoError(svc.LeaveChat(context.Background(), chatID, userID))
	})

	t.Run("should fail when no active membership exists", func(t *testing.T) {
		req := require.New(t)

		participantRepo.EXPECT().
			Leave(gomock.Any(), chatID, userID, gomock.Any()).
			Return(0, apperrors.ErrMembershipNotFound)

		err := svc.LeaveChat(context.Background(), chatID, userID)

		req.ErrorIs(err, apperrors.ErrMembershipNotFound)
	})

	t.Run("should succeed even when the announcement fails", func(t *testing.T) {
		req := require.New(t)

		participantRepo.EXPECT().
			Leave(gomock.Any(), chatID, userID, gomock.Any()).
			Return(2, nil)
		messages.EXPECT().
			SendSystem(gomock.Any(), chatID, userID, gomock.Any()).
			Return(nil, apperrors.ErrChatNotFound)

		req.NoError(svc.LeaveChat(context.Background(), chatID, userID))
	})
}
