//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"chat_service/internal/domain"
	apperrors "chat_service/pkg/errors"
	"chat_service/pkg/logger"
)

type ChatRepository interface {
	CreateWithParticipants(ctx context.Context, chat *domain.Chat, participants []*domain.ChatParticipant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
	GetByDirectKey(ctx context.Context, key string) (*domain.Chat, error)
	ListSummaries(ctx context.Context, userID uuid.UUID) ([]*domain.ChatSummary, error)
}

type chatRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewChatRepository(db *pgxpool.Pool, log logger.Logger) ChatRepository {
	return &chatRepository{db: db, log: log}
}

// CreateWithParticipants inserts the chat and its initial membership in one
// transaction. The unique index on direct_key resolves concurrent direct-chat
// creation: the losing transaction surfaces ErrDirectChatExists and the
// caller re-fetches the winning row.
func (r *chatRepository) CreateWithParticipants(ctx context.Context, chat *domain.Chat, participants []*domain.ChatParticipant) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin chat transaction", "error", err)
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO chats (id, type, title, description, direct_key, participant_count, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		chat.ID, chat.Type, chat.Title, chat.Description, chat.DirectKey,
		chat.ParticipantCount, chat.IsActive, chat.CreatedAt,
	).Scan(&chat.CreatedAt, &chat.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDirectChatExists
		}
		r.log.Error("Failed to create chat", "error", err)
		return err
	}

	participantQuery := `
		INSERT INTO chat_participants (chat_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	for _, p := range participants {
		if _, err := tx.Exec(ctx, participantQuery, p.ChatID, p.UserID, p.Role, p.JoinedAt); err != nil {
			r.log.Error("Failed to create chat participant", "error", err, "chat_id", p.ChatID, "user_id", p.UserID)
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *chatRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	query := `
		SELECT id, type, title, description, direct_key, participant_count, last_message_at, is_active, created_at, updated_at
		FROM chats
		WHERE id = $1
	`

	chat := &domain.Chat{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID, &chat.Type, &chat.Title, &chat.Description, &chat.DirectKey,
		&chat.ParticipantCount, &chat.LastMessageAt, &chat.IsActive, &chat.CreatedAt, &chat.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatNotFound
		}
		r.log.Error("Failed to get chat by ID", "error", err)
		return nil, err
	}

	return chat, nil
}

func (r *chatRepository) GetByDirectKey(ctx context.Context, key string) (*domain.Chat, error) {
	query := `
		SELECT id, type, title, description, direct_key, participant_count, last_message_at, is_active, created_at, updated_at
		FROM chats
		WHERE direct_key = $1 AND is_active = TRUE
	`

	chat := &domain.Chat{}
	err := r.db.QueryRow(ctx, query, key).Scan(
		&chat.ID, &chat.Type, &chat.Title, &chat.Description, &chat.DirectKey,
		&chat.ParticipantCount, &chat.LastMessageAt, &chat.IsActive, &chat.CreatedAt, &chat.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatNotFound
		}
		r.log.Error("Failed to get chat by direct key", "error", err)
		return nil, err
	}

	return chat, nil
}

func (r *chatRepository) ListSummaries(ctx context.Context, userID uuid.UUID) ([]*domain.ChatSummary, error) {
	query := `
		SELECT c.id, c.type,
		       COALESCE(c.title, u.display_name, '') AS title,
		       c.participant_count, c.last_message_at,
		       CASE
		           WHEN lm.content IS NOT NULL THEN LEFT(lm.content, 120)
		           WHEN lm.media_url IS NOT NULL THEN '[media]'
		       END AS preview,
		       un.unread_count
		FROM chats c
		JOIN chat_participants cp ON cp.chat_id = c.id AND cp.user_id = $1 AND cp.left_at IS NULL
		LEFT JOIN LATERAL (
		    SELECT m.content, m.media_url
		    FROM messages m
		    WHERE m.chat_id = c.id AND m.is_deleted = FALSE
		    ORDER BY m.sent_at DESC, m.id DESC
		    LIMIT 1
		) lm ON TRUE
		LEFT JOIN LATERAL (
		    SELECT cp2.user_id
		    FROM chat_participants cp2
		    WHERE cp2.chat_id = c.id AND cp2.user_id <> $1 AND cp2.left_at IS NULL
		    LIMIT 1
		) other ON c.type = 'direct' AND c.title IS NULL
		LEFT JOIN users u ON u.id = other.user_id
		LEFT JOIN LATERAL (
		    SELECT COUNT(*) AS unread_count
		    FROM message_deliveries d
		    JOIN messages m2 ON m2.id = d.message_id
		    WHERE d.recipient_id = $1 AND d.read_at IS NULL
		      AND m2.chat_id = c.id AND m2.sender_id <> $1
		) un ON TRUE
		WHERE c.is_active = TRUE
		ORDER BY c.last_message_at DESC NULLS LAST, c.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list chat summaries", "error", err)
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.ChatSummary
	for rows.Next() {
		summary := &domain.ChatSummary{}
		err := rows.Scan(
			&summary.ChatID, &summary.Type, &summary.Title, &summary.ParticipantCount,
			&summary.LastMessageAt, &summary.LastMessagePreview, &summary.UnreadCount,
		)
		if err != nil {
			r.log.Error("Failed to scan chat summary", "error", err)
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}
