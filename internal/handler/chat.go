package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat_service/internal/middleware"
	"chat_service/internal/service"
	"chat_service/pkg/logger"
)

type ChatHandler struct {
	chatService        service.ChatService
	participantService service.ParticipantService
	queryService       service.QueryService
	log                logger.Logger
}

func NewChatHandler(
	chatService service.ChatService,
	participantService service.ParticipantService,
	queryService service.QueryService,
	log logger.Logger,
) *ChatHandler {
	return &ChatHandler{
		chatService:        chatService,
		participantService: participantService,
		queryService:       queryService,
		log:                log,
	}
}

type createChatRequest struct {
	Type           string      `json:"type" binding:"required"`
	Title          *string     `json:"title"`
	Description    *string     `json:"description"`
	ParticipantIDs []uuid.UUID `json:"participant_ids" binding:"required"`
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	chat, err := h.chatService.CreateChat(c.Request.Context(), service.CreateChatInput{
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
		ParticipantIDs: req.ParticipantIDs,
		CreatorID:      userID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"chat": chat})
}

func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	summaries, err := h.queryService.GetUserChats(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": summaries})
}

type addParticipantsRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" binding:"required"`
}

func (h *ChatHandler) AddParticipants(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat id"})
		return
	}

	var req addParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.participantService.AddParticipants(c.Request.Context(), chatID, req.UserIDs, userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ChatHandler) Leave(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat id"})
		return
	}

	if err := h.participantService.LeaveChat(c.Request.Context(), chatID, userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
