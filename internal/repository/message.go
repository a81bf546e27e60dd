//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"chat_service/internal/domain"
	apperrors "chat_service/pkg/errors"
	"chat_service/pkg/logger"
)

type MessageRepository interface {
	CreateWithDeliveries(ctx context.Context, message *domain.Message, recipientIDs []uuid.UUID, outbox *domain.OutboxEntry) error
	ListPage(ctx context.Context, chatID, userID uuid.UUID, limit, offset int) ([]*domain.MessageView, int, error)
	MarkDelivered(ctx context.Context, messageIDs []int64, recipientID uuid.UUID, at time.Time) (int64, error)
	MarkRead(ctx context.Context, messageIDs []int64, userID uuid.UUID, at time.Time) ([]uuid.UUID, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

// CreateWithDeliveries persists the message, one delivery row per recipient,
// the chat's last_message_at bump and the notification outbox entry in a
// single transaction. If anything fails, nothing is persisted.
func (r *messageRepository) CreateWithDeliveries(ctx context.Context, message *domain.Message, recipientIDs []uuid.UUID, outbox *domain.OutboxEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin message transaction", "error", err)
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO messages (chat_id, sender_id, content, message_type, status, media_url, media_type, reply_to_id, metadata, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, sent_at
	`

	err = tx.QueryRow(ctx, query,
		message.ChatID, message.SenderID, message.Content, message.MessageType, message.Status,
		message.MediaURL, message.MediaType, message.ReplyToID, message.Metadata, message.SentAt,
	).Scan(&message.ID, &message.SentAt)

	if err != nil {
		r.log.Error("Failed to create message", "error", err)
		return err
	}

	deliveryQuery := `
		INSERT INTO message_deliveries (message_id, recipient_id, status)
		VALUES ($1, $2, $3)
	`
	for _, recipientID := range recipientIDs {
		if _, err := tx.Exec(ctx, deliveryQuery, message.ID, recipientID, domain.DeliveryStatusSent); err != nil {
			r.log.Error("Failed to create message delivery", "error", err, "message_id", message.ID, "recipient_id", recipientID)
			return err
		}
	}

	// GREATEST keeps last_message_at monotonic under concurrent sends.
	_, err = tx.Exec(ctx, `
		UPDATE chats
		SET last_message_at = GREATEST(COALESCE(last_message_at, $2), $2), updated_at = $2
		WHERE id = $1
	`, message.ChatID, message.SentAt)
	if err != nil {
		r.log.Error("Failed to update chat last message time", "error", err)
		return err
	}

	if outbox != nil {
		outbox.MessageID = message.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO notification_outbox (chat_id, message_id, recipient_ids, payload, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, outbox.ChatID, outbox.MessageID, outbox.RecipientIDs, outbox.Payload, domain.OutboxStatusPending,
		).Scan(&outbox.ID, &outbox.CreatedAt)
		if err != nil {
			r.log.Error("Failed to create outbox entry", "error", err)
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *messageRepository) ListPage(ctx context.Context, chatID, userID uuid.UUID, limit, offset int) ([]*domain.MessageView, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages WHERE chat_id = $1 AND is_deleted = FALSE
	`, chatID).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count messages", "error", err)
		return nil, 0, err
	}

	query := `
		SELECT m.id, m.chat_id, m.sender_id, COALESCE(u.display_name, ''), m.content,
		       m.media_url, m.media_type, m.message_type, m.sent_at, m.is_edited,
		       r.id, r.sender_id, LEFT(r.content, 80),
		       (d.read_at IS NOT NULL)
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		LEFT JOIN messages r ON r.id = m.reply_to_id AND r.is_deleted = FALSE
		LEFT JOIN message_deliveries d ON d.message_id = m.id AND d.recipient_id = $2
		WHERE m.chat_id = $1 AND m.is_deleted = FALSE
		ORDER BY m.sent_at DESC, m.id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, chatID, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list messages", "error", err)
		return nil, 0, err
	}
	defer rows.Close()

	var views []*domain.MessageView
	for rows.Next() {
		view := &domain.MessageView{}
		var replyID *int64
		var replySenderID *uuid.UUID
		var replyPreview *string
		err := rows.Scan(
			&view.ID, &view.ChatID, &view.SenderID, &view.SenderName, &view.Content,
			&view.MediaURL, &view.MediaType, &view.MessageType, &view.SentAt, &view.IsEdited,
			&replyID, &replySenderID, &replyPreview,
			&view.ReadByUser,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, 0, err
		}
		if replyID != nil && replySenderID != nil {
			summary := &domain.ReplySummary{ID: *replyID, SenderID: *replySenderID}
			if replyPreview != nil {
				summary.Preview = *replyPreview
			}
			view.ReplyTo = summary
		}
		views = append(views, view)
	}

	return views, total, rows.Err()
}

// MarkDelivered is a conditional set-based update: only rows still in SENT
// move forward, so retries and concurrent calls are harmless.
func (r *messageRepository) MarkDelivered(ctx context.Context, messageIDs []int64, recipientID uuid.UUID, at time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE message_deliveries
		SET status = $4, delivered_at = COALESCE(delivered_at, $3)
		WHERE message_id = ANY($1) AND recipient_id = $2 AND status = $5
	`, messageIDs, recipientID, at, domain.DeliveryStatusDelivered, domain.DeliveryStatusSent)
	if err != nil {
		r.log.Error("Failed to mark messages as delivered", "error", err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// MarkRead advances unread delivery rows to READ (backfilling delivered_at,
// since read implies delivered) and stamps the reader's last_read_at for
// every chat touched, all in one transaction. Rows already read keep their
// original timestamps. Fails with ErrLeftChat when any of the messages
// belong to a chat the user has left.
func (r *messageRepository) MarkRead(ctx context.Context, messageIDs []int64, userID uuid.UUID, at time.Time) ([]uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin read transaction", "error", err)
		return nil, err
	}
	defer tx.Rollback(ctx)

	var leftChats int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(DISTINCT m.chat_id)
		FROM message_deliveries d
		JOIN messages m ON m.id = d.message_id
		WHERE d.message_id = ANY($1) AND d.recipient_id = $2
		  AND NOT EXISTS (
		      SELECT 1 FROM chat_participants cp
		      WHERE cp.chat_id = m.chat_id AND cp.user_id = $2 AND cp.left_at IS NULL
		  )
	`, messageIDs, userID).Scan(&leftChats)
	if err != nil {
		r.log.Error("Failed to check read permissions", "error", err)
		return nil, err
	}
	if leftChats > 0 {
		return nil, apperrors.ErrLeftChat
	}

	rows, err := tx.Query(ctx, `
		UPDATE message_deliveries d
		SET status = $4, read_at = $3, delivered_at = COALESCE(d.delivered_at, $3)
		FROM messages m
		WHERE m.id = d.message_id AND d.message_id = ANY($1) AND d.recipient_id = $2 AND d.read_at IS NULL
		RETURNING m.chat_id
	`, messageIDs, userID, at, domain.DeliveryStatusRead)
	if err != nil {
		r.log.Error("Failed to mark messages as read", "error", err)
		return nil, err
	}

	var chatIDs []uuid.UUID
	for rows.Next() {
		var chatID uuid.UUID
		if err := rows.Scan(&chatID); err != nil {
			rows.Close()
			r.log.Error("Failed to scan chat ID", "error", err)
			return nil, err
		}
		chatIDs = append(chatIDs, chatID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	chatIDs = lo.Uniq(chatIDs)

	if len(chatIDs) > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE chat_participants
			SET last_read_at = $3
			WHERE chat_id = ANY($1) AND user_id = $2 AND left_at IS NULL
		`, chatIDs, userID, at)
		if err != nil {
			r.log.Error("Failed to update last read time", "error", err)
			return nil, err
		}
	}

	return chatIDs, tx.Commit(ctx)
}
