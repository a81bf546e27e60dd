//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_participant_repository.go -package=mocks
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chat_service/internal/domain"
	apperrors "chat_service/pkg/errors"
	"chat_service/pkg/logger"
)

type ParticipantRepository interface {
	Get(ctx context.Context, chatID, userID uuid.UUID) (*domain.ChatParticipant, error)
	ListActive(ctx context.Context, chatID uuid.UUID) ([]*domain.ChatParticipant, error)
	AddMembers(ctx context.Context, chatID uuid.UUID, userIDs []uuid.UUID, at time.Time) (int, error)
	Leave(ctx context.Context, chatID, userID uuid.UUID, at time.Time) (int, error)
}

type participantRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewParticipantRepository(db *pgxpool.Pool, log logger.Logger) ParticipantRepository {
	return &participantRepository{db: db, log: log}
}

// Get returns the membership row regardless of departure state so callers
// can distinguish a user who left from one who never joined.
func (r *participantRepository) Get(ctx context.Context, chatID, userID uuid.UUID) (*domain.ChatParticipant, error) {
	query := `
		SELECT chat_id, user_id, role, joined_at, left_at, last_read_at
		FROM chat_participants
		WHERE chat_id = $1 AND user_id = $2
	`

	participant := &domain.ChatParticipant{}
	err := r.db.QueryRow(ctx, query, chatID, userID).Scan(
		&participant.ChatID, &participant.UserID, &participant.Role,
		&participant.JoinedAt, &participant.LeftAt, &participant.LastReadAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotParticipant
		}
		r.log.Error("Failed to get participant", "error", err)
		return nil, err
	}

	return participant, nil
}

func (r *participantRepository) ListActive(ctx context.Context, chatID uuid.UUID) ([]*domain.ChatParticipant, error) {
	query := `
		SELECT chat_id, user_id, role, joined_at, left_at, last_read_at
		FROM chat_participants
		WHERE chat_id = $1 AND left_at IS NULL
		ORDER BY joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, chatID)
	if err != nil {
		r.log.Error("Failed to list active participants", "error", err)
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.ChatParticipant
	for rows.Next() {
		participant := &domain.ChatParticipant{}
		err := rows.Scan(
			&participant.ChatID, &participant.UserID, &participant.Role,
			&participant.JoinedAt, &participant.LeftAt, &participant.LastReadAt,
		)
		if err != nil {
			r.log.Error("Failed to scan participant", "error", err)
			return nil, err
		}
		participants = append(participants, participant)
	}

	return participants, rows.Err()
}

// AddMembers upserts the given users as members (a previously departed user
// rejoins by clearing left_at) and refreshes the chat's participant count
// from the active rows, all in one transaction. Returns the new count.
func (r *participantRepository) AddMembers(ctx context.Context, chatID uuid.UUID, userIDs []uuid.UUID, at time.Time) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin membership transaction", "error", err)
		return 0, err
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO chat_participants (chat_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id, user_id) DO UPDATE SET left_at = NULL
	`
	for _, userID := range userIDs {
		if _, err := tx.Exec(ctx, upsert, chatID, userID, domain.ParticipantRoleMember, at); err != nil {
			r.log.Error("Failed to upsert participant", "error", err, "chat_id", chatID, "user_id", userID)
			return 0, err
		}
	}

	count, err := refreshParticipantCount(ctx, tx, chatID, at)
	if err != nil {
		r.log.Error("Failed to refresh participant count", "error", err)
		return 0, err
	}

	return count, tx.Commit(ctx)
}

// Leave tombstones the active membership row and refreshes the count in one
// transaction. Returns ErrMembershipNotFound when there is no active row.
func (r *participantRepository) Leave(ctx context.Context, chatID, userID uuid.UUID, at time.Time) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin leave transaction", "error", err)
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE chat_participants
		SET left_at = $3
		WHERE chat_id = $1 AND user_id = $2 AND left_at IS NULL
	`, chatID, userID, at)
	if err != nil {
		r.log.Error("Failed to mark participant as left", "error", err)
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, apperrors.ErrMembershipNotFound
	}

	count, err := refreshParticipantCount(ctx, tx, chatID, at)
	if err != nil {
		r.log.Error("Failed to refresh participant count", "error", err)
		return 0, err
	}

	return count, tx.Commit(ctx)
}

func refreshParticipantCount(ctx context.Context, tx pgx.Tx, chatID uuid.UUID, at time.Time) (int, error) {
	var count int
	err := tx.QueryRow(ctx, `
		UPDATE chats
		SET participant_count = (
		    SELECT COUNT(*) FROM chat_participants
		    WHERE chat_id = $1 AND left_at IS NULL
		), updated_at = $2
		WHERE id = $1
		RETURNING participant_count
	`, chatID, at).Scan(&count)
	return count, err
}
