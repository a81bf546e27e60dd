package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat_service/internal/domain"
	"chat_service/internal/middleware"
	"chat_service/internal/mocks"
	"chat_service/internal/service"
	apperrors "chat_service/pkg/errors"
	"chat_service/pkg/logger"
)

type chatHandlerFixture struct {
	chatService        *mocks.MockChatService
	participantService *mocks.MockParticipantService
	queryService       *mocks.MockQueryService
	router             *gin.Engine
	userID             uuid.UUID
}

func newChatHandlerFixture(t *testing.T) *chatHandlerFixture {
	ctrl := gomock.NewController(t)
	f := &chatHandlerFixture{
		chatService:        mocks.NewMockChatService(ctrl),
		participantService: mocks.NewMockParticipantService(ctrl),
		queryService:       mocks.NewMockQueryService(ctrl),
		userID:             uuid.New(),
	}

	gin.SetMode(gin.TestMode)
	h := NewChatHandler(f.chatService, f.participantService, f.queryService, logger.New("error"))

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, f.userID)
	})
	router.POST("/chats", h.CreateChat)
	router.GET("/chats", h.ListChats)
	router.POST("/chats/:id/participants", h.AddParticipants)
	router.POST("/chats/:id/leave", h.Leave)

	f.router = router
	return f
}

func TestChatHandler_CreateChat(t *testing.T) {
	t.Run("should create a chat and return 201", func(t *testing.T) {
		req := require.New(t)
		f := newChatHandlerFixture(t)
		other := uuid.New()

		f.chatService.EXPECT().
			CreateChat(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, input service.CreateChatInput) (*domain.Chat, error) {
				req.Equal(domain.ChatTypeDirect, input.Type)
				req.Equal(f.userID, input.CreatorID)
				req.ElementsMatch([]uuid.UUID{f.userID, other}, input.ParticipantIDs)
				return &domain.Chat{ID: uuid.New(), Type: input.Type}, nil
			})

		body, _ := json.Marshal(map[string]interface{}{
			"type":            "direct",
			"participant_ids": []string{f.userID.String(), other.String()},
		})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats", bytes.NewReader(body))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusCreated, w.Code)
		req.Contains(w.Body.String(), "chat")
	})

	t.Run("should return 400 for a body without required fields", func(t *testing.T) {
		req := require.New(t)
		f := newChatHandlerFixture(t)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats", bytes.NewReader([]byte(`{"title":"x"}`)))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("should map service validation errors to 400", func(t *testing.T) {
		req := require.New(t)
		f := newChatHandlerFixture(t)

		f.chatService.EXPECT().
			CreateChat(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.ErrDirectChatParticipants)

		body, _ := json.Marshal(map[string]interface{}{
			"type":            "direct",
			"participant_ids": []string{f.userID.String()},
		})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats", bytes.NewReader(body))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusBadRequest, w.Code)
	})
}

func TestChatHandler_ListChats(t *testing.T) {
	t.Run("should list the caller's chats", func(t *testing.T) {
		req := require.New(t)
		f := newChatHandlerFixture(t)

		f.queryService.EXPECT().
			GetUserChats(gomock.Any(), f.userID).
			Return([]*domain.ChatSummary{{ChatID: uuid.New(), Title: "Team"}}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/chats", nil)
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
		req.Contains(w.Body.String(), "Team")
	})
}

func TestChatHandler_AddParticipants(t *testing.T) {
	t.Run("should add participants", func(t *testing.T) {
		req := require.New(t)
		f := newChatHandlerFixture(t)
		chatID := uuid.New()
		newcomer := uuid.New()

		f.participantService.EXPECT().
			AddParticipants(gomock.Any(), chatID, []uuid.UUID{newcomer}, f.userID).
			Return(nil)

		body, _ := json.Marshal(map[string]interface{}{"user_ids": []string{newcomer.String()}})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/participants", bytes.NewReader(body))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
	})

	t.Run("should return 400 for an invalid chat id", func(t *testing.T) {
		req := require.New(t)
		f := newChatHandlerFixture(t)

		body, _ := json.Marshal(map[string]interface{}{"user_ids": []string{uuid.New().String()}})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats/not-a-uuid/participants", bytes.NewReader(body))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("should map role errors to 403", func(t *testing.T) {
		req := require.New(t)
		f := newChatHandlerFixture(t)
		chatID := uuid.New()

		f.participantService.EXPECT().
			AddParticipants(gomock.Any(), chatID, gomock.Any(), f.userID).
			Return(apperrors.ErrRoleRequired)

		body, _ := json.Marshal(map[string]interface{}{"user_ids": []string{uuid.New().String()}})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/participants", bytes.NewReader(body))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusForbidden, w.Code)
	})
}

func TestChatHandler_Leave(t *testing.T) {
	t.Run("should leave the chat", func(t *testing.T) {
		req := require.New(t)
		f := newChatHandlerFixture(t)
		chatID := uuid.New()

		f.participantService.EXPECT().
			LeaveChat(gomock.Any(), chatID, f.userID).
			Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/leave", nil)
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
	})

	t.Run("should map a missing membership to 404", func(t *testing.T) {
		req := require.New(t)
		f := newChatHandlerFixture(t)
		chatID := uuid.New()

		f.participantService.EXPECT().
			LeaveChat(gomock.Any(), chatID, f.userID).
			Return(apperrors.ErrMembershipNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/leave", nil)
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusNotFound, w.Code)
	})
}
