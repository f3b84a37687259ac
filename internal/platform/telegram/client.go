// Package telegram adapts telebot to the prompt registry
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"promptbot/internal/domain"
	"promptbot/internal/platform"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// API is the part of *tele.Bot the adapter calls
type API interface {
	ChatByID(id int64) (*tele.Chat, error)
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	EditReplyMarkup(msg tele.Editable, markup *tele.ReplyMarkup) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Client implements platform.Client
type Client struct {
	api    API
	logger *zap.Logger
}

// NewClient creates a new Telegram client
func NewClient(api API, logger *zap.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// Channel resolves a chat by its numeric id
func (c *Client) Channel(ctx context.Context, channelID string) (platform.Channel, error) {
	id, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", platform.ErrChannelNotFound, channelID)
	}

	chat, err := c.api.ChatByID(id)
	switch {
	case errors.Is(err, tele.ErrChatNotFound):
		return nil, fmt.Errorf("%w: %s", platform.ErrChannelNotFound, channelID)
	case errors.Is(err, tele.ErrKickedFromGroup),
		errors.Is(err, tele.ErrKickedFromSuperGroup),
		errors.Is(err, tele.ErrKickedFromChannel):
		return nil, fmt.Errorf("%w: %s", platform.ErrNotMessageChannel, channelID)
	case err != nil:
		return nil, err
	}

	return &Channel{api: c.api, chat: chat, logger: c.logger}, nil
}

// Channel implements platform.Channel for a chat. Telebot calls are not
// context aware, so ctx is ignored.
type Channel struct {
	api    API
	chat   *tele.Chat
	logger *zap.Logger
}

func (ch *Channel) ID() string {
	return strconv.FormatInt(ch.chat.ID, 10)
}

// SendMessage posts msg. The first attachment is sent as a document carrying
// the text and keyboard; the rest follow as plain documents.
func (ch *Channel) SendMessage(ctx context.Context, msg domain.PromptMessage) (platform.Message, error) {
	text := renderText(msg)
	markup := renderMarkup(msg.Components)

	var what interface{} = text
	if len(msg.Attachments) > 0 {
		what = renderDocument(msg.Attachments[0], text)
	}

	sent, err := ch.api.Send(ch.chat, what, markup)
	if err != nil {
		return platform.Message{}, err
	}

	for _, attachment := range msg.Attachments[min(1, len(msg.Attachments)):] {
		if _, err := ch.api.Send(ch.chat, renderDocument(attachment, "")); err != nil {
			ch.logger.Warn("Failed to send attachment",
				zap.String("name", attachment.Name),
				zap.Error(err),
			)
		}
	}

	return platform.Message{
		ChannelID: ch.ID(),
		ID:        messageKey(ch.chat.ID, sent.ID),
	}, nil
}

// EditMessage replaces the text and keyboard of a message. A message without
// text only swaps the keyboard. Attachments cannot be edited.
func (ch *Channel) EditMessage(ctx context.Context, messageID string, msg domain.PromptMessage) error {
	stored, err := storedMessage(ch.chat.ID, messageID)
	if err != nil {
		return err
	}
	markup := renderMarkup(msg.Components)

	if text := renderText(msg); text != "" {
		_, err = ch.api.Edit(stored, text, markup)
	} else {
		_, err = ch.api.EditReplyMarkup(stored, markup)
	}

	if isNotModified(err) {
		return nil
	}
	return err
}

func (ch *Channel) DeleteMessage(ctx context.Context, messageID string) error {
	stored, err := storedMessage(ch.chat.ID, messageID)
	if err != nil {
		return err
	}
	return ch.api.Delete(stored)
}
