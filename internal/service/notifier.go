//go:generate go run go.uber.org/mock/mockgen -source=notifier.go -destination=../mocks/mock_dispatcher.go -package=mocks
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chat_service/internal/config"
	"chat_service/pkg/logger"
)

// NotificationPayload is the new-message event published to recipients. It
// is a wake-up signal; clients fetch the actual messages through the query
// API.
type NotificationPayload struct {
	ChatID      uuid.UUID `json:"chat_id"`
	SenderID    uuid.UUID `json:"sender_id"`
	MessageType string    `json:"message_type"`
	Preview     string    `json:"preview"`
	SentAt      time.Time `json:"sent_at"`
}

// Dispatcher is the one-way notification collaborator. Implementations are
// best effort: message state is durable before Notify is ever called.
type Dispatcher interface {
	Notify(ctx context.Context, recipientIDs []uuid.UUID, payload []byte) error
}

type redisDispatcher struct {
	redis         *redis.Client
	channelPrefix string
	log           logger.Logger
}

func NewRedisDispatcher(redis *redis.Client, cfg config.NotifyConfig, log logger.Logger) Dispatcher {
	return &redisDispatcher{
		redis:         redis,
		channelPrefix: cfg.ChannelPrefix,
		log:           log,
	}
}

func (d *redisDispatcher) Notify(ctx context.Context, recipientIDs []uuid.UUID, payload []byte) error {
	var errs []error
	for _, recipientID := range recipientIDs {
		channel := d.channelPrefix + recipientID.String()
		if err := d.redis.Publish(ctx, channel, payload).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
