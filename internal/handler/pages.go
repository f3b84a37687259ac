package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptbot/internal/domain"
	"promptbot/internal/platform"
	"promptbot/internal/prompt"
)

var defaultHelpPages = []string{
	"Prompts are messages with buttons. Only the user a prompt was sent for may press them.",
	"Every prompt expires after a while. Expired prompts lose their buttons.",
	"Admins can stop all live prompts in a channel with the stop command.",
}

// handlePages sends an eager pagination over the help pages
func (h *Handler) handlePages(ctx context.Context, cmd platform.Command) error {
	texts := h.cfg.HelpPages
	if len(texts) == 0 {
		texts = defaultHelpPages
	}

	pages := make([]domain.PromptMessage, 0, len(texts))
	for i, text := range texts {
		pages = append(pages, domain.NewMessage().
			WithEmbeds(domain.Embed{
				Title:       fmt.Sprintf("Help (%d/%d)", i+1, len(texts)),
				Description: text,
			}).
			Build())
	}

	p, err := prompt.NewEagerPagination(pages, h.promptOptions(cmd)...)
	if err != nil {
		return err
	}

	return h.sendPagination(ctx, cmd, p)
}

// handleHistory sends a lazy pagination over the channel's finished prompts
func (h *Handler) handleHistory(ctx context.Context, cmd platform.Command) error {
	if h.history == nil {
		return h.reply(ctx, cmd.ChannelID, "History is disabled.")
	}

	total, err := h.history.TotalPages(ctx, cmd.ChannelID)
	if err != nil {
		return err
	}

	channelID := cmd.ChannelID
	p, err := prompt.NewLazyPagination(total, func(ctx context.Context, index int) (domain.PromptMessage, error) {
		events, err := h.history.GetPage(ctx, channelID, index)
		if err != nil {
			return domain.PromptMessage{}, err
		}
		return historyPage(events, time.Now()), nil
	}, h.promptOptions(cmd)...)
	if err != nil {
		return err
	}

	return h.sendPagination(ctx, cmd, p)
}

func (h *Handler) sendPagination(ctx context.Context, cmd platform.Command, p *prompt.Pagination) error {
	msg, err := p.Render(ctx)
	if err != nil {
		return err
	}

	if _, err := h.prompts.Send(ctx, cmd.ChannelID, cmd.User.ID, p, msg, h.cfg.PagesTimeout); err != nil {
		return fmt.Errorf("failed to send pages: %w", err)
	}
	return nil
}

func historyPage(events []domain.PromptEvent, now time.Time) domain.PromptMessage {
	description := "No prompts have finished in this channel yet."
	if len(events) > 0 {
		lines := make([]string, 0, len(events))
		for _, event := range events {
			lines = append(lines, event.DisplayString(now))
		}
		description = strings.Join(lines, "\n")
	}

	return domain.NewMessage().
		WithEmbeds(domain.Embed{Title: "Prompt history", Description: description}).
		Build()
}
