package domain

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID          int64                  `json:"id"`
	ChatID      uuid.UUID              `json:"chat_id"`
	SenderID    uuid.UUID              `json:"sender_id"`
	Content     *string                `json:"content,omitempty"`
	MessageType string                 `json:"message_type"`
	Status      string                 `json:"status"`
	MediaURL    *string                `json:"media_url,omitempty"`
	MediaType   *string                `json:"media_type,omitempty"`
	ReplyToID   *int64                 `json:"reply_to_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	SentAt      time.Time              `json:"sent_at"`
	IsEdited    bool                   `json:"is_edited"`
	IsDeleted   bool                   `json:"is_deleted"`
}

// MessageDelivery tracks one recipient's progress through the
// SENT -> DELIVERED -> READ state machine. Timestamps are set once and
// never cleared.
type MessageDelivery struct {
	MessageID   int64      `json:"message_id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	Status      string     `json:"status"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

const (
	MessageTypeText   = "text"
	MessageTypeMedia  = "media"
	MessageTypeSystem = "system"
)

const MessageStatusSent = "sent"

const (
	DeliveryStatusSent      = "sent"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusRead      = "read"
)

// ReplySummary is the shortened projection of a replied-to message.
type ReplySummary struct {
	ID       int64     `json:"id"`
	SenderID uuid.UUID `json:"sender_id"`
	Preview  string    `json:"preview"`
}

// MessageView is the per-reader projection returned by history queries.
type MessageView struct {
	ID          int64         `json:"id"`
	ChatID      uuid.UUID     `json:"chat_id"`
	SenderID    uuid.UUID     `json:"sender_id"`
	SenderName  string        `json:"sender_name"`
	Content     *string       `json:"content,omitempty"`
	MediaURL    *string       `json:"media_url,omitempty"`
	MediaType   *string       `json:"media_type,omitempty"`
	MessageType string        `json:"message_type"`
	SentAt      time.Time     `json:"sent_at"`
	IsEdited    bool          `json:"is_edited"`
	ReplyTo     *ReplySummary `json:"reply_to,omitempty"`
	ReadByUser  bool          `json:"read_by_user"`
}

type MessagePage struct {
	Items   []*MessageView `json:"items"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
}
