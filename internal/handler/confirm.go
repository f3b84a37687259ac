package handler

import (
	"context"
	"fmt"
	"strings"

	"promptbot/internal/domain"
	"promptbot/internal/platform"
	"promptbot/internal/prompt"

	"go.uber.org/zap"
)

const defaultQuestion = "Are you sure?"

// handleConfirm sends a yes/no prompt only the caller can answer
func (h *Handler) handleConfirm(ctx context.Context, cmd platform.Command) error {
	question := strings.TrimSpace(strings.Join(cmd.Args, " "))
	if question == "" {
		question = defaultQuestion
	}

	p, err := prompt.NewConfirmation(func(ctx context.Context, in platform.Interaction, confirmed bool) (bool, error) {
		answer, color := "Declined", domain.ColorRed
		if confirmed {
			answer, color = "Confirmed", domain.ColorGreen
		}

		h.logger.Info("Confirmation answered",
			zap.String("message_id", in.MessageID()),
			zap.String("user_id", in.User().ID),
			zap.Bool("confirmed", confirmed),
		)

		msg := domain.NewMessage().
			WithEmbeds(domain.Embed{Title: question, Color: color, Footer: answer}).
			WithComponents(domain.Components{}).
			Build()
		if err := in.EditOriginal(ctx, msg); err != nil {
			return false, fmt.Errorf("failed to show answer: %w", err)
		}
		return true, nil
	}, h.promptOptions(cmd)...)
	if err != nil {
		return err
	}

	msg := domain.NewMessage().
		WithEmbeds(domain.Embed{Title: question, Color: domain.ColorOrange}).
		Build()
	if _, err := h.prompts.Send(ctx, cmd.ChannelID, cmd.User.ID, p, msg, h.cfg.ConfirmTimeout); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	return nil
}
