package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is a notification intent written in the same transaction as
// its message, dispatched later by a background worker.
type OutboxEntry struct {
	ID           int64       `json:"id"`
	ChatID       uuid.UUID   `json:"chat_id"`
	MessageID    int64       `json:"message_id"`
	RecipientIDs []uuid.UUID `json:"recipient_ids"`
	Payload      []byte      `json:"payload"`
	Status       string      `json:"status"`
	Attempts     int         `json:"attempts"`
	CreatedAt    time.Time   `json:"created_at"`
	DispatchedAt *time.Time  `json:"dispatched_at,omitempty"`
}

const (
	OutboxStatusPending    = "pending"
	OutboxStatusProcessing = "processing"
	OutboxStatusDispatched = "dispatched"
	OutboxStatusFailed     = "failed"
)
