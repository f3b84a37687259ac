// Package platform describes the chat-platform collaborator the prompt
// registry talks to. Adapters live in the subpackages.
package platform

import (
	"context"
	"errors"

	"promptbot/internal/domain"
)

var (
	ErrChannelNotFound   = errors.New("channel not found")
	ErrNotMessageChannel = errors.New("channel cannot hold messages")
)

// Client resolves channels on the platform
type Client interface {
	Channel(ctx context.Context, channelID string) (Channel, error)
}

// Channel is a place messages can be posted, edited and deleted
type Channel interface {
	ID() string
	SendMessage(ctx context.Context, msg domain.PromptMessage) (Message, error)
	EditMessage(ctx context.Context, messageID string, msg domain.PromptMessage) error
	DeleteMessage(ctx context.Context, messageID string) error
}

// Message identifies a sent message and the user it was sent for
type Message struct {
	ChannelID string
	ID        string
	UserID    string
}

// Interaction is one component click
type Interaction interface {
	MessageID() string
	ChannelID() string
	CustomID() string
	User() domain.User

	// Defer acknowledges the interaction without a visible reply
	Defer(ctx context.Context) error
	Respond(ctx context.Context, msg domain.PromptMessage, ephemeral bool) error
	// EditOriginal edits the message the component belongs to
	EditOriginal(ctx context.Context, msg domain.PromptMessage) error
}

// Dispatcher routes interactions to registered prompts
type Dispatcher interface {
	Execute(ctx context.Context, in Interaction) domain.PromptResult
}

// Command is a text command typed by a user
type Command struct {
	Name      string
	Args      []string
	ChannelID string
	MessageID string
	User      domain.User
}

// CommandFunc handles one command
type CommandFunc func(ctx context.Context, cmd Command) error

// CommandHandler receives every command an adapter parses
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd Command) error
}
