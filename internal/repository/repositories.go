package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"chat_service/pkg/logger"
)

type Repositories struct {
	Chat        ChatRepository
	Participant ParticipantRepository
	Message     MessageRepository
	Outbox      OutboxRepository
	User        UserRepository
	RateLimit   RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		Chat:        NewChatRepository(db, log),
		Participant: NewParticipantRepository(db, log),
		Message:     NewMessageRepository(db, log),
		Outbox:      NewOutboxRepository(db, log),
		User:        NewUserRepository(db, log),
		RateLimit:   NewRateLimitRepository(redis, log),
	}
}
