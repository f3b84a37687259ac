package telegram

import (
	"context"
	"strconv"
	"sync"

	"promptbot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// CallbackContext is the part of tele.Context a callback needs
type CallbackContext interface {
	Callback() *tele.Callback
	Chat() *tele.Chat
	Sender() *tele.User
	Respond(resp ...*tele.CallbackResponse) error
	Send(what interface{}, opts ...interface{}) error
	Edit(what interface{}, opts ...interface{}) error
}

// Interaction implements platform.Interaction for a callback query
type Interaction struct {
	c      CallbackContext
	logger *zap.Logger

	mu       sync.Mutex
	answered bool
}

// NewInteraction wraps a callback query
func NewInteraction(c CallbackContext, logger *zap.Logger) *Interaction {
	return &Interaction{c: c, logger: logger}
}

func (i *Interaction) MessageID() string {
	callback := i.c.Callback()
	if callback.Message != nil {
		chat := callback.Message.Chat
		if chat == nil {
			chat = i.c.Chat()
		}
		if chat != nil {
			return messageKey(chat.ID, callback.Message.ID)
		}
		return strconv.Itoa(callback.Message.ID)
	}
	// Inline message ids are already global
	return callback.MessageID
}

func (i *Interaction) ChannelID() string {
	if chat := i.c.Chat(); chat != nil {
		return strconv.FormatInt(chat.ID, 10)
	}
	return ""
}

func (i *Interaction) CustomID() string {
	return cleanCallbackData(i.c.Callback().Data)
}

func (i *Interaction) User() domain.User {
	return userFromSender(i.c.Sender())
}

// Defer answers the callback query without a notification
func (i *Interaction) Defer(ctx context.Context) error {
	return i.answer()
}

// Respond replies to the user. Ephemeral replies become an alert only the
// clicking user sees; others are posted to the chat.
func (i *Interaction) Respond(ctx context.Context, msg domain.PromptMessage, ephemeral bool) error {
	text := renderText(msg)
	if ephemeral {
		return i.answer(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}

	if err := i.c.Send(text, renderMarkup(msg.Components)); err != nil {
		return err
	}
	return i.answer()
}

// EditOriginal edits the message the button belongs to
func (i *Interaction) EditOriginal(ctx context.Context, msg domain.PromptMessage) error {
	err := i.c.Edit(renderText(msg), renderMarkup(msg.Components))
	if isNotModified(err) {
		// Already edited by another callback
		i.logger.Debug("Message already modified by another callback",
			zap.String("message_id", i.MessageID()),
		)
		return nil
	}
	return err
}

// Answered reports whether the callback query has been answered
func (i *Interaction) Answered() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.answered
}

// answer answers the callback query at most once
func (i *Interaction) answer(resp ...*tele.CallbackResponse) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.answered {
		return nil
	}
	if err := i.c.Respond(resp...); err != nil {
		return err
	}
	i.answered = true
	return nil
}

func userFromSender(sender *tele.User) domain.User {
	if sender == nil {
		return domain.User{}
	}

	name := sender.Username
	if name == "" {
		name = sender.FirstName
	}
	return domain.User{
		ID:    strconv.FormatInt(sender.ID, 10),
		Name:  name,
		IsBot: sender.IsBot,
	}
}
