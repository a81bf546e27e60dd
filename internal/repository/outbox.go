//go:generate go run go.uber.org/mock/mockgen -source=outbox.go -destination=../mocks/mock_outbox_repository.go -package=mocks
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"chat_service/internal/domain"
	"chat_service/pkg/logger"
)

type OutboxRepository interface {
	ClaimPending(ctx context.Context, limit int) ([]*domain.OutboxEntry, error)
	MarkDispatched(ctx context.Context, id int64, at time.Time) error
	Release(ctx context.Context, id int64, maxAttempts int) error
}

type outboxRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewOutboxRepository(db *pgxpool.Pool, log logger.Logger) OutboxRepository {
	return &outboxRepository{db: db, log: log}
}

// ClaimPending moves up to limit pending entries to processing and returns
// them. SKIP LOCKED keeps concurrent dispatchers from claiming the same rows.
func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]*domain.OutboxEntry, error) {
	query := `
		UPDATE notification_outbox
		SET status = $2
		WHERE id IN (
		    SELECT id FROM notification_outbox
		    WHERE status = $3
		    ORDER BY id
		    LIMIT $1
		    FOR UPDATE SKIP LOCKED
		)
		RETURNING id, chat_id, message_id, recipient_ids, payload, status, attempts, created_at
	`

	rows, err := r.db.Query(ctx, query, limit, domain.OutboxStatusProcessing, domain.OutboxStatusPending)
	if err != nil {
		r.log.Error("Failed to claim outbox entries", "error", err)
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.OutboxEntry
	for rows.Next() {
		entry := &domain.OutboxEntry{}
		err := rows.Scan(
			&entry.ID, &entry.ChatID, &entry.MessageID, &entry.RecipientIDs,
			&entry.Payload, &entry.Status, &entry.Attempts, &entry.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan outbox entry", "error", err)
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *outboxRepository) MarkDispatched(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_outbox
		SET status = $2, dispatched_at = $3
		WHERE id = $1
	`, id, domain.OutboxStatusDispatched, at)
	if err != nil {
		r.log.Error("Failed to mark outbox entry as dispatched", "error", err)
	}
	return err
}

// Release returns a failed attempt to the pending pool, or parks it as
// failed once maxAttempts is exhausted. Delivery is best effort; the
// message itself is already durable.
func (r *outboxRepository) Release(ctx context.Context, id int64, maxAttempts int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_outbox
		SET attempts = attempts + 1,
		    status = CASE WHEN attempts + 1 >= $2 THEN $3 ELSE $4 END
		WHERE id = $1
	`, id, maxAttempts, domain.OutboxStatusFailed, domain.OutboxStatusPending)
	if err != nil {
		r.log.Error("Failed to release outbox entry", "error", err)
	}
	return err
}
