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

type messageHandlerFixture struct {
	messageService *mocks.MockMessageService
	queryService   *mocks.MockQueryService
	router         *gin.Engine
	userID         uuid.UUID
}

func newMessageHandlerFixture(t *testing.T) *messageHandlerFixture {
	ctrl := gomock.NewController(t)
	f := &messageHandlerFixture{
		messageService: mocks.NewMockMessageService(ctrl),
		queryService:   mocks.NewMockQueryService(ctrl),
		userID:         uuid.New(),
	}

	gin.SetMode(gin.TestMode)
	h := NewMessageHandler(f.messageService, f.queryService, logger.New("error"))

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, f.userID)
	})
	router.POST("/chats/:id/messages", h.SendMessage)
	router.GET("/chats/:id/messages", h.GetMessages)
	router.POST("/messages/read", h.MarkRead)

	f.router = router
	return f
}

func TestMessageHandler_SendMessage(t *testing.T) {
	t.Run("should send a message and return 201", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)
		chatID := uuid.New()

		f.messageService.EXPECT().
			SendMessage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, input service.SendMessageInput) (*domain.Message, error) {
				req.Equal(chatID, input.ChatID)
				req.Equal(f.userID, input.SenderID)
				req.Equal("hello", *input.Content)
				return &domain.Message{ID: 1, ChatID: chatID, SenderID: f.userID}, nil
			})

		body, _ := json.Marshal(map[string]interface{}{"content": "hello"})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/messages", bytes.NewReader(body))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusCreated, w.Code)
	})

	t.Run("should map a left-chat sender to 403", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)
		chatID := uuid.New()

		f.messageService.EXPECT().
			SendMessage(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.ErrLeftChat)

		body, _ := json.Marshal(map[string]interface{}{"content": "hello"})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/messages", bytes.NewReader(body))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusForbidden, w.Code)
	})

	t.Run("should map an empty message to 400", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)
		chatID := uuid.New()

		f.messageService.EXPECT().
			SendMessage(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.ErrEmptyMessage)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/messages", bytes.NewReader([]byte(`{}`)))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("should return 400 for an invalid chat id", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chats/oops/messages", bytes.NewReader([]byte(`{"content":"x"}`)))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusBadRequest, w.Code)
	})
}

func TestMessageHandler_GetMessages(t *testing.T) {
	t.Run("should pass paging parameters through", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)
		chatID := uuid.New()

		f.queryService.EXPECT().
			GetChatMessages(gomock.Any(), chatID, f.userID, 3, 20).
			Return(&domain.MessagePage{Page: 3, Limit: 20}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/chats/"+chatID.String()+"/messages?page=3&limit=20", nil)
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
	})

	t.Run("should default paging parameters", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)
		chatID := uuid.New()

		f.queryService.EXPECT().
			GetChatMessages(gomock.Any(), chatID, f.userID, 1, 50).
			Return(&domain.MessagePage{Page: 1, Limit: 50}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/chats/"+chatID.String()+"/messages", nil)
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
	})

	t.Run("should map a non-member reader to 403", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)
		chatID := uuid.New()

		f.queryService.EXPECT().
			GetChatMessages(gomock.Any(), chatID, f.userID, gomock.Any(), gomock.Any()).
			Return(nil, apperrors.ErrNotParticipant)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/chats/"+chatID.String()+"/messages", nil)
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusForbidden, w.Code)
	})
}

func TestMessageHandler_MarkRead(t *testing.T) {
	t.Run("should mark messages read", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)

		f.messageService.EXPECT().
			MarkMessagesAsRead(gomock.Any(), []int64{1, 2}, f.userID).
			Return(nil)

		body, _ := json.Marshal(map[string]interface{}{"message_ids": []int64{1, 2}})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/messages/read", bytes.NewReader(body))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
	})

	t.Run("should return 400 for a body without message ids", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/messages/read", bytes.NewReader([]byte(`{}`)))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("should map a former participant to 403", func(t *testing.T) {
		req := require.New(t)
		f := newMessageHandlerFixture(t)

		f.messageService.EXPECT().
			MarkMessagesAsRead(gomock.Any(), []int64{9}, f.userID).
			Return(apperrors.ErrLeftChat)

		body, _ := json.Marshal(map[string]interface{}{"message_ids": []int64{9}})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/messages/read", bytes.NewReader(body))
		f.router.ServeHTTP(w, r)

		req.Equal(http.StatusForbidden, w.Code)
	})
}
