// Package prompt contains the interactive prompt variants and the state
// transition each one runs when a user clicks one of its components.
package prompt

import (
	"context"
	"errors"

	"promptbot/internal/domain"
	"promptbot/internal/platform"
)

var (
	ErrMissingAction     = errors.New("prompt action is required")
	ErrMissingComponents = errors.New("prompt components are required")
	ErrNoPages           = errors.New("pagination requires at least one page")
)

// MessageFunc produces a message at the moment it is needed
type MessageFunc func() domain.PromptMessage

// Prompt is something a user can respond to
type Prompt interface {
	// Execute runs one state transition. A returned error is reported as an
	// exception by the dispatcher.
	Execute(ctx context.Context, in platform.Interaction) (domain.PromptResult, error)
	Components() domain.Components
	IsValidUser(user domain.User) bool
	CancelMessage() MessageFunc
	ExpireMessage() MessageFunc
	InvalidUserMessage() MessageFunc
}

// Base carries what every prompt shares: who may respond and the
// terminal messages
type Base struct {
	roleIDs            map[string]struct{}
	userIDs            map[string]struct{}
	cancelMessage      MessageFunc
	expireMessage      MessageFunc
	invalidUserMessage MessageFunc
}

func newBase(o *options) Base {
	return Base{
		roleIDs:            o.roleIDs,
		userIDs:            o.userIDs,
		cancelMessage:      o.cancelMessage,
		expireMessage:      o.expireMessage,
		invalidUserMessage: o.invalidUserMessage,
	}
}

// IsValidUser reports whether user may interact with the prompt
func (b *Base) IsValidUser(user domain.User) bool {
	if user.IsBot || user.IsWebhook {
		return false
	}

	if len(b.roleIDs) == 0 && len(b.userIDs) == 0 {
		return true
	}

	if _, ok := b.userIDs[user.ID]; ok {
		return true
	}

	return user.HasRole(b.roleIDs)
}

func (b *Base) CancelMessage() MessageFunc {
	return b.cancelMessage
}

func (b *Base) ExpireMessage() MessageFunc {
	return b.expireMessage
}

func (b *Base) InvalidUserMessage() MessageFunc {
	return b.invalidUserMessage
}

// Kind names the prompt variant for logs and history
func Kind(p Prompt) string {
	switch p.(type) {
	case *Confirmation:
		return "confirmation"
	case *Custom:
		return "custom"
	case *Pagination:
		return "pagination"
	default:
		return "prompt"
	}
}

func unsupported(customID string) domain.PromptResult {
	return domain.PromptResult{
		Status:  domain.StatusUnsupportedComponent,
		Message: customID + " is not supported",
	}
}
