package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	ID               uuid.UUID  `json:"id"`
	Type             string     `json:"type"`
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	DirectKey        *string    `json:"-"`
	ParticipantCount int        `json:"participant_count"`
	LastMessageAt    *time.Time `json:"last_message_at,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ChatParticipant struct {
	ChatID     uuid.UUID  `json:"chat_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Role       string     `json:"role"`
	JoinedAt   time.Time  `json:"joined_at"`
	LeftAt     *time.Time `json:"left_at,omitempty"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
}

const (
	ChatTypeDirect = "direct"
	ChatTypeGroup  = "group"
	ChatTypeVenue  = "venue"
)

const (
	ParticipantRoleAdmin     = "admin"
	ParticipantRoleModerator = "moderator"
	ParticipantRoleMember    = "member"
)

func ValidChatType(t string) bool {
	switch t {
	case ChatTypeDirect, ChatTypeGroup, ChatTypeVenue:
		return true
	}
	return false
}

// DirectChatKey derives the dedup key for a two-party chat from the sorted
// participant pair, so both orderings of the same pair map to one key.
func DirectChatKey(a, b uuid.UUID) string {
	first, second := a.String(), b.String()
	if strings.Compare(first, second) > 0 {
		first, second = second, first
	}
	return first + ":" + second
}

func (p *ChatParticipant) IsActive() bool {
	return p.LeftAt == nil
}

func (p *ChatParticipant) CanManageParticipants() bool {
	return p.Role == ParticipantRoleAdmin || p.Role == ParticipantRoleModerator
}

// ChatSummary is the per-user chat listing projection.
type ChatSummary struct {
	ChatID             uuid.UUID  `json:"chat_id"`
	Type               string     `json:"type"`
	Title              string     `json:"title"`
	ParticipantCount   int        `json:"participant_count"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty"`
	LastMessagePreview *string    `json:"last_message_preview,omitempty"`
	UnreadCount        int        `json:"unread_count"`
}
