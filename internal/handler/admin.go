package handler

import (
	"context"
	"fmt"

	"promptbot/internal/platform"
	"promptbot/internal/service"

	"go.uber.org/zap"
)

// handleStop stops every live prompt in the command's channel
func (h *Handler) handleStop(ctx context.Context, cmd platform.Command) error {
	var count int
	err := h.prompts.UnregisterAllFunc(ctx, func(key service.PromptKey) bool {
		if key.ChannelID != cmd.ChannelID {
			return false
		}
		count++
		return true
	}, true)
	if err != nil {
		return fmt.Errorf("failed to stop prompts: %w", err)
	}

	h.logger.Info("Stopped prompts",
		zap.String("channel_id", cmd.ChannelID),
		zap.Int("count", count),
	)

	return h.reply(ctx, cmd.ChannelID, fmt.Sprintf("Stopped %d prompt(s).", count))
}
