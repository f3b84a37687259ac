package repository

import (
	"context"

	"promptbot/internal/domain"
)

// PromptLogRepository defines prompt history operations
type PromptLogRepository interface {
	SaveEvent(ctx context.Context, event domain.PromptEvent) error
	ListEvents(ctx context.Context, channelID string, limit, offset int) ([]domain.PromptEvent, error)
	CountEvents(ctx context.Context, channelID string) (int, error)
	CleanOldEvents(ctx context.Context, days int) error
}
