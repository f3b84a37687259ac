package postgres

import (
	"context"
	"database/sql"
	"time"

	"promptbot/internal/domain"
)

// PromptLogRepo implements repository.PromptLogRepository
type PromptLogRepo struct {
	db *sql.DB
}

// NewPromptLogRepo creates a new prompt history repository
func NewPromptLogRepo(db *sql.DB) *PromptLogRepo {
	return &PromptLogRepo{db: db}
}

// SaveEvent stores a finished prompt
func (r *PromptLogRepo) SaveEvent(ctx context.Context, event domain.PromptEvent) error {
	query := `
		INSERT INTO prompt_events (channel_id, message_id, user_id, kind, outcome, timeout_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ChannelID,
		event.MessageID,
		event.UserID,
		event.Kind,
		string(event.Outcome),
		event.Timeout.Milliseconds(),
	)
	return err
}

// ListEvents returns the newest events of a channel
func (r *PromptLogRepo) ListEvents(ctx context.Context, channelID string, limit, offset int) ([]domain.PromptEvent, error) {
	query := `
		SELECT id, channel_id, message_id, user_id, kind, outcome, timeout_ms, created_at
		FROM prompt_events
		WHERE channel_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, channelID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.PromptEvent
	for rows.Next() {
		var e domain.PromptEvent
		var outcome string
		var timeoutMs int64
		if err := rows.Scan(&e.ID, &e.ChannelID, &e.MessageID, &e.UserID, &e.Kind, &outcome, &timeoutMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Outcome = domain.Outcome(outcome)
		e.Timeout = time.Duration(timeoutMs) * time.Millisecond
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountEvents returns the number of events stored for a channel
func (r *PromptLogRepo) CountEvents(ctx context.Context, channelID string) (int, error) {
	query := `SELECT COUNT(*) FROM prompt_events WHERE channel_id = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, channelID).Scan(&count)
	return count, err
}

// CleanOldEvents deletes events older than specified days
func (r *PromptLogRepo) CleanOldEvents(ctx context.Context, days int) error {
	query := `
		DELETE FROM prompt_events
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`
	_, err := r.db.ExecContext(ctx, query, days)
	return err
}
