package handler

import (
	"context"
	"fmt"
	"strings"

	"promptbot/internal/config"
	"promptbot/internal/domain"
	"promptbot/internal/middleware"
	"promptbot/internal/platform"
	"promptbot/internal/prompt"
	"promptbot/internal/service"

	"go.uber.org/zap"
)

// Handler manages all bot commands
type Handler struct {
	client  platform.Client
	prompts *service.PromptService
	// history is nil when no database is configured
	history *service.HistoryService
	cfg     config.PromptsConfig
	admins  []string
	logger  *zap.Logger

	routes map[string]platform.CommandFunc
}

// NewHandler creates a new handler instance
func NewHandler(
	client platform.Client,
	prompts *service.PromptService,
	history *service.HistoryService,
	cfg config.PromptsConfig,
	admins []string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		client:  client,
		prompts: prompts,
		history: history,
		cfg:     cfg,
		admins:  admins,
		logger:  logger,
		routes:  make(map[string]platform.CommandFunc),
	}
}

// RegisterHandlers registers all bot commands
func (h *Handler) RegisterHandlers() {
	adminOnly := middleware.AdminOnly(h.admins, h.handleDenied, h.logger)

	h.routes["start"] = h.handleStart
	h.routes["help"] = h.handleStart
	h.routes["confirm"] = h.handleConfirm
	h.routes["pages"] = h.handlePages
	h.routes["history"] = h.handleHistory
	h.routes["stop"] = adminOnly(h.handleStop)
}

// HandleCommand dispatches a parsed command. Unknown commands are ignored.
func (h *Handler) HandleCommand(ctx context.Context, cmd platform.Command) error {
	if cmd.User.IsBot || cmd.User.IsWebhook {
		return nil
	}

	route, ok := h.routes[strings.ToLower(cmd.Name)]
	if !ok {
		h.logger.Debug("Ignoring unknown command",
			zap.String("command", cmd.Name),
			zap.String("channel_id", cmd.ChannelID),
		)
		return nil
	}

	h.logger.Info("Handling command",
		zap.String("command", cmd.Name),
		zap.String("channel_id", cmd.ChannelID),
		zap.String("user_id", cmd.User.ID),
	)
	return route(ctx, cmd)
}

func (h *Handler) handleDenied(ctx context.Context, cmd platform.Command) error {
	return h.reply(ctx, cmd.ChannelID, "Only bot admins can use this command.")
}

// reply posts a plain text message
func (h *Handler) reply(ctx context.Context, channelID, text string) error {
	ch, err := h.client.Channel(ctx, channelID)
	if err != nil {
		return fmt.Errorf("failed to resolve channel %s: %w", channelID, err)
	}

	if _, err := ch.SendMessage(ctx, domain.NewMessage().WithContent(text).Build()); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// promptOptions applies the configured terminal texts and restricts the
// prompt to the caller
func (h *Handler) promptOptions(cmd platform.Command) []prompt.Option {
	opts := []prompt.Option{prompt.WithUsers(cmd.User.ID)}

	if h.cfg.CancelFooter != "" {
		opts = append(opts, prompt.WithCancelMessage(prompt.FooterMessage(h.cfg.CancelFooter, domain.ColorRed)))
	}
	if h.cfg.ExpireFooter != "" {
		opts = append(opts, prompt.WithExpireMessage(prompt.FooterMessage(h.cfg.ExpireFooter, domain.ColorOrange)))
	}
	if h.cfg.InvalidUserText != "" {
		opts = append(opts, prompt.WithInvalidUserMessage(prompt.TextMessage(h.cfg.InvalidUserText)))
	}

	return opts
}
