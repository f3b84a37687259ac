package service

import (
	"context"
	"fmt"

	"promptbot/internal/domain"
	"promptbot/internal/repository"

	"go.uber.org/zap"
)

// HistoryPageSize is the number of events shown per history page
const HistoryPageSize = 5

// HistoryService records finished prompts and serves them back
type HistoryService struct {
	repo          repository.PromptLogRepository
	retentionDays int
	logger        *zap.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(repo repository.PromptLogRepository, retentionDays int, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		repo:          repo,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Record stores one finished prompt
func (s *HistoryService) Record(ctx context.Context, event domain.PromptEvent) error {
	if event.ChannelID == "" || event.MessageID == "" {
		return fmt.Errorf("event must reference a channel and a message")
	}
	return s.repo.SaveEvent(ctx, event)
}

// TotalPages returns how many history pages a channel has
func (s *HistoryService) TotalPages(ctx context.Context, channelID string) (int, error) {
	total, err := s.repo.CountEvents(ctx, channelID)
	if err != nil {
		return 0, err
	}

	totalPages := (total + HistoryPageSize - 1) / HistoryPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	return totalPages, nil
}

// GetPage returns the events on a zero-based page
func (s *HistoryService) GetPage(ctx context.Context, channelID string, page int) ([]domain.PromptEvent, error) {
	if page < 0 {
		page = 0
	}
	return s.repo.ListEvents(ctx, channelID, HistoryPageSize, page*HistoryPageSize)
}

// CleanupOldData removes events past the retention window
func (s *HistoryService) CleanupOldData(ctx context.Context) error {
	s.logger.Info("Starting cleanup of old prompt events", zap.Int("retention_days", s.retentionDays))

	err := s.repo.CleanOldEvents(ctx, s.retentionDays)
	if err != nil {
		s.logger.Error("Failed to cleanup old prompt events", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully")
	return nil
}
