package service

import (
	"context"
	"time"

	"chat_service/internal/config"
	"chat_service/internal/repository"
	"chat_service/pkg/logger"
)

// OutboxDispatcher drains the notification outbox in the background. Each
// entry gets a bounded attempt; failures are retried up to the configured
// maximum and then dropped with a log line.
type OutboxDispatcher struct {
	outboxRepo repository.OutboxRepository
	dispatcher Dispatcher
	cfg        config.NotifyConfig
	log        logger.Logger
}

func NewOutboxDispatcher(outboxRepo repository.OutboxRepository, dispatcher Dispatcher, cfg config.NotifyConfig, log logger.Logger) *OutboxDispatcher {
	return &OutboxDispatcher{
		outboxRepo: outboxRepo,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log,
	}
}

// Run polls until the context is cancelled.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	d.log.Info("Outbox dispatcher started", "poll_interval", d.cfg.PollInterval)

	for {
		select {
		case <-ctx.Done():
			d.log.Info("Outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.dispatchBatch(ctx)
		}
	}
}

func (d *OutboxDispatcher) dispatchBatch(ctx context.Context) {
	entries, err := d.outboxRepo.ClaimPending(ctx, d.cfg.BatchSize)
	if err != nil {
		d.log.Error("Failed to claim outbox entries", "error", err)
		return
	}

	for _, entry := range entries {
		notifyCtx, cancel := context.WithTimeout(ctx, d.cfg.DispatchTimeout)
		err := d.dispatcher.Notify(notifyCtx, entry.RecipientIDs, entry.Payload)
		cancel()

		if err != nil {
			d.log.Warn("Notification dispatch failed",
				"outbox_id", entry.ID, "message_id", entry.MessageID, "attempt", entry.Attempts+1, "error", err)
			if err := d.outboxRepo.Release(ctx, entry.ID, d.cfg.MaxAttempts); err != nil {
				d.log.Error("Failed to release outbox entry", "error", err, "outbox_id", entry.ID)
			}
			continue
		}

		if err := d.outboxRepo.MarkDispatched(ctx, entry.ID, time.Now().UTC()); err != nil {
			d.log.Error("Failed to mark outbox entry as dispatched", "error", err, "outbox_id", entry.ID)
		}
	}
}
