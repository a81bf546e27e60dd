package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"chat_service/internal/config"
	"chat_service/internal/domain"
	"chat_service/internal/mocks"
	"chat_service/internal/service"
	"chat_service/pkg/logger"
)

func notifyConfig() config.NotifyConfig {
	return config.NotifyConfig{
		ChannelPrefix:   "notify:user:",
		DispatchTimeout: time.Second,
		PollInterval:    5 * time.Millisecond,
		MaxAttempts:     3,
		BatchSize:       10,
	}
}

// runUntil starts the dispatcher and blocks until the signal fires, then
// shuts it down.
func runUntil(t *testing.T, d *service.OutboxDispatcher, signal <-chan struct{}) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		d.Run(ctx)
	}()

	select {
	case <-signal:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not process the entry in time")
	}

	cancel()
	<-stopped
}

func TestOutboxDispatcher_DispatchSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	cfg := notifyConfig()
	d := service.NewOutboxDispatcher(outboxRepo, dispatcher, cfg, logger.New("error"))

	entry := &domain.OutboxEntry{
		ID:           7,
		ChatID:       uuid.New(),
		MessageID:    42,
		RecipientIDs: []uuid.UUID{uuid.New(), uuid.New()},
		Payload:      []byte(`{"preview":"hi"}`),
	}

	done := make(chan struct{})

	first := outboxRepo.EXPECT().
		ClaimPending(gomock.Any(), cfg.BatchSize).
		Return([]*domain.OutboxEntry{entry}, nil)
	outboxRepo.EXPECT().
		ClaimPending(gomock.Any(), cfg.BatchSize).
		Return(nil, nil).
		AnyTimes().
		After(first)

	dispatcher.EXPECT().
		Notify(gomock.Any(), entry.RecipientIDs, entry.Payload).
		Return(nil)
	outboxRepo.EXPECT().
		MarkDispatched(gomock.Any(), int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ time.Time) error {
			close(done)
			return nil
		})

	runUntil(t, d, done)
}

func TestOutboxDispatcher_DispatchFailureReleases(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	cfg := notifyConfig()
	d := service.NewOutboxDispatcher(outboxRepo, dispatcher, cfg, logger.New("error"))

	entry := &domain.OutboxEntry{
		ID:           9,
		ChatID:       uuid.New(),
		MessageID:    43,
		RecipientIDs: []uuid.UUID{uuid.New()},
		Payload:      []byte(`{}`),
	}

	done := make(chan struct{})

	first := outboxRepo.EXPECT().
		ClaimPending(gomock.Any(), cfg.BatchSize).
		Return([]*domain.OutboxEntry{entry}, nil)
	outboxRepo.EXPECT().
		ClaimPending(gomock.Any(), cfg.BatchSize).
		Return(nil, nil).
		AnyTimes().
		After(first)

	dispatcher.EXPECT().
		Notify(gomock.Any(), entry.RecipientIDs, entry.Payload).
		Return(errors.New("redis unavailable"))
	outboxRepo.EXPECT().
		MarkDispatched(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(0)
	outboxRepo.EXPECT().
		Release(gomock.Any(), int64(9), cfg.MaxAttempts).
		DoAndReturn(func(_ context.Context, _ int64, _ int) error {
			close(done)
			return nil
		})

	runUntil(t, d, done)
}

func TestOutboxDispatcher_ClaimFailureBacksOff(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	cfg := notifyConfig()
	d := service.NewOutboxDispatcher(outboxRepo, dispatcher, cfg, logger.New("error"))

	done := make(chan struct{})
	var once bool

	outboxRepo.EXPECT().
		ClaimPending(gomock.Any(), cfg.BatchSize).
		DoAndReturn(func(_ context.Context, _ int) ([]*domain.OutboxEntry, error) {
			if !once {
				once = true
				close(done)
			}
			return nil, errors.New("database unavailable")
		}).
		AnyTimes()
	dispatcher.EXPECT().
		Notify(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(0)

	runUntil(t, d, done)
}
