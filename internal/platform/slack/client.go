// Package slack adapts slack-go socket mode to the prompt registry
package slack

import (
	"bytes"
	"context"
	"fmt"

	"promptbot/internal/domain"
	"promptbot/internal/platform"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
)

// API is the part of *slack.Client the adapter calls
type API interface {
	GetConversationInfoContext(ctx context.Context, input *slackapi.GetConversationInfoInput) (*slackapi.Channel, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slackapi.MsgOption) (string, string, string, error)
	DeleteMessageContext(ctx context.Context, channel, messageTimestamp string) (string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slackapi.MsgOption) (string, error)
	UploadFileV2Context(ctx context.Context, params slackapi.UploadFileV2Parameters) (*slackapi.FileSummary, error)
}

// Client implements platform.Client
type Client struct {
	api    API
	logger *zap.Logger
}

// NewClient creates a new Slack client
func NewClient(api API, logger *zap.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// Channel looks a conversation up. Archived conversations cannot be posted to.
func (c *Client) Channel(ctx context.Context, channelID string) (platform.Channel, error) {
	info, err := c.api.GetConversationInfoContext(ctx, &slackapi.GetConversationInfoInput{ChannelID: channelID})
	if err != nil {
		if err.Error() == "channel_not_found" {
			return nil, fmt.Errorf("%w: %s", platform.ErrChannelNotFound, channelID)
		}
		return nil, err
	}

	if info.IsArchived {
		return nil, fmt.Errorf("%w: %s", platform.ErrNotMessageChannel, channelID)
	}

	return &Channel{api: c.api, id: info.ID, logger: c.logger}, nil
}

// Channel implements platform.Channel. Message ids are Slack timestamps.
type Channel struct {
	api    API
	id     string
	logger *zap.Logger
}

func (ch *Channel) ID() string {
	return ch.id
}

// SendMessage posts msg and uploads its attachments into the message thread
func (ch *Channel) SendMessage(ctx context.Context, msg domain.PromptMessage) (platform.Message, error) {
	_, ts, err := ch.api.PostMessageContext(ctx, ch.id, messageOptions(msg)...)
	if err != nil {
		return platform.Message{}, err
	}

	for _, attachment := range msg.Attachments {
		_, err := ch.api.UploadFileV2Context(ctx, slackapi.UploadFileV2Parameters{
			Reader:          bytes.NewReader(attachment.Data),
			FileSize:        len(attachment.Data),
			Filename:        attachment.Name,
			Channel:         ch.id,
			ThreadTimestamp: ts,
		})
		if err != nil {
			ch.logger.Warn("Failed to upload attachment",
				zap.String("name", attachment.Name),
				zap.Error(err),
			)
		}
	}

	return platform.Message{ChannelID: ch.id, ID: messageKey(ch.id, ts)}, nil
}

func (ch *Channel) EditMessage(ctx context.Context, messageID string, msg domain.PromptMessage) error {
	ts, err := timestamp(ch.id, messageID)
	if err != nil {
		return err
	}

	_, _, _, err = ch.api.UpdateMessageContext(ctx, ch.id, ts, messageOptions(msg)...)
	return err
}

func (ch *Channel) DeleteMessage(ctx context.Context, messageID string) error {
	ts, err := timestamp(ch.id, messageID)
	if err != nil {
		return err
	}

	_, _, err = ch.api.DeleteMessageContext(ctx, ch.id, ts)
	return err
}
