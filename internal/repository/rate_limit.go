//go:generate go run go.uber.org/mock/mockgen -source=rate_limit.go -destination=../mocks/mock_rate_limit_repository.go -package=mocks
package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"chat_service/pkg/logger"
)

type RateLimitRepository interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error)
}

type rateLimitRepository struct {
	redis *redis.Client
	log   logger.Logger
}

func NewRateLimitRepository(redis *redis.Client, log logger.Logger) RateLimitRepository {
	return &rateLimitRepository{redis: redis, log: log}
}

// Allow counts the request against a fixed window and reports whether it
// fits the limit, plus the remaining budget.
func (r *rateLimitRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		r.log.Error("Failed to increment rate limit counter", "error", err)
		return false, 0, err
	}

	if count == 1 {
		r.redis.Expire(ctx, key, window)
	}

	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= int64(limit), remaining, nil
}
