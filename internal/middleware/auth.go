package middleware

import (
	"context"
	"errors"

	"promptbot/internal/platform"

	"go.uber.org/zap"
)

// ErrNotAdmin is returned when a non-admin calls an admin command
var ErrNotAdmin = errors.New("command is restricted to bot admins")

// AdminOnly creates middleware that lets only the listed users through.
// denied is called instead of next for everyone else.
func AdminOnly(admins []string, denied platform.CommandFunc, logger *zap.Logger) func(platform.CommandFunc) platform.CommandFunc {
	allowed := make(map[string]struct{}, len(admins))
	for _, id := range admins {
		allowed[id] = struct{}{}
	}

	return func(next platform.CommandFunc) platform.CommandFunc {
		return func(ctx context.Context, cmd platform.Command) error {
			if _, ok := allowed[cmd.User.ID]; ok && !cmd.User.IsBot {
				return next(ctx, cmd)
			}

			logger.Warn("Rejected admin command",
				zap.String("command", cmd.Name),
				zap.String("user_id", cmd.User.ID),
			)
			if denied == nil {
				return ErrNotAdmin
			}
			return denied(ctx, cmd)
		}
	}
}
