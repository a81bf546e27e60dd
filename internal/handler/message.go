package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat_service/internal/middleware"
	"chat_service/internal/service"
	"chat_service/pkg/logger"
)

type MessageHandler struct {
	messageService service.MessageService
	queryService   service.QueryService
	log            logger.Logger
}

func NewMessageHandler(
	messageService service.MessageService,
	queryService service.QueryService,
	log logger.Logger,
) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		queryService:   queryService,
		log:            log,
	}
}

type sendMessageRequest struct {
	Content     *string                `json:"content"`
	MessageType string                 `json:"message_type"`
	MediaURL    *string                `json:"media_url"`
	MediaType   *string                `json:"media_type"`
	ReplyToID   *int64                 `json:"reply_to_id"`
	Metadata    map[string]interface{} `json:"metadata"`
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
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

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	message, err := h.messageService.SendMessage(c.Request.Context(), service.SendMessageInput{
		ChatID:      chatID,
		SenderID:    userID,
		Content:     req.Content,
		MessageType: req.MessageType,
		MediaURL:    req.MediaURL,
		MediaType:   req.MediaType,
		ReplyToID:   req.ReplyToID,
		Metadata:    req.Metadata,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

func (h *MessageHandler) GetMessages(c *gin.Context) {
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

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.queryService.GetChatMessages(c.Request.Context(), chatID, userID, page, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type markReadRequest struct {
	MessageIDs []int64 `json:"message_ids" binding:"required"`
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.messageService.MarkMessagesAsRead(c.Request.Context(), req.MessageIDs, userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
