package handler

import (
	"chat_service/internal/service"
	"chat_service/pkg/logger"
)

type Handlers struct {
	Health  *HealthHandler
	Chat    *ChatHandler
	Message *MessageHandler
}

func NewHandlers(services *service.Services, log logger.Logger) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(),
		Chat:    NewChatHandler(services.Chat, services.Participant, services.Query, log),
		Message: NewMessageHandler(services.Message, services.Query, log),
	}
}
