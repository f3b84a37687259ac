package handler

import (
	"context"

	"promptbot/internal/platform"

	"go.uber.org/zap"
)

const helpText = `Available commands:

confirm [question] - ask yourself a yes/no question
pages - flip through the help pages
history - browse prompts that finished in this channel
stop - stop every live prompt in this channel (admins only)
help - show this message`

// handleStart handles the start and help commands
func (h *Handler) handleStart(ctx context.Context, cmd platform.Command) error {
	h.logger.Info("User requested help",
		zap.String("user_id", cmd.User.ID),
		zap.String("username", cmd.User.Name),
	)

	return h.reply(ctx, cmd.ChannelID, helpText)
}
