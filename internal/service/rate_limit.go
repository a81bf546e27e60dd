package service

import (
	"context"

	"chat_service/internal/config"
	"chat_service/internal/repository"
	"chat_service/pkg/logger"
)

type RateLimitService interface {
	AllowSend(ctx context.Context, key string) (bool, int64, error)
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	cfg           config.RateLimitConfig
	log           logger.Logger
}

func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, cfg config.RateLimitConfig, log logger.Logger) RateLimitService {
	return &rateLimitService{
		rateLimitRepo: rateLimitRepo,
		cfg:           cfg,
		log:           log,
	}
}

func (s *rateLimitService) AllowSend(ctx context.Context, key string) (bool, int64, error) {
	return s.rateLimitRepo.Allow(ctx, "ratelimit:send:"+key, s.cfg.SendLimit, s.cfg.SendWindow)
}
