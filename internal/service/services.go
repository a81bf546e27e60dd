package service

import (
	"chat_service/internal/config"
	"chat_service/internal/repository"
	"chat_service/pkg/logger"
)

type Services struct {
	Chat        ChatService
	Message     MessageService
	Participant ParticipantService
	Query       QueryService
	RateLimit   RateLimitService
	Dispatcher  *OutboxDispatcher
}

func NewServices(repos *repository.Repositories, dispatcher Dispatcher, cfg *config.Config, log logger.Logger) *Services {
	message := NewMessageService(repos.Message, repos.Participant, log)

	return &Services{
		Chat:        NewChatService(repos.Chat, repos.User, message, log),
		Message:     message,
		Participant: NewParticipantService(repos.Chat, repos.Participant, repos.User, message, log),
		Query:       NewQueryService(repos.Chat, repos.Message, repos.Participant, message, log),
		RateLimit:   NewRateLimitService(repos.RateLimit, cfg.RateLimit, log),
		Dispatcher:  NewOutboxDispatcher(repos.Outbox, dispatcher, cfg.Notify, log),
	}
}
