// Package discord adapts discordgo to the prompt registry
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"promptbot/internal/domain"
	"promptbot/internal/platform"

	"github.com/bwmarrin/discordgo"
)

// API is the part of *discordgo.Session the adapter calls
type API interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Client implements platform.Client
type Client struct {
	api API
}

// NewClient creates a new Discord client
func NewClient(api API) *Client {
	return &Client{api: api}
}

// Channel fetches a channel and checks that it can hold messages
func (c *Client) Channel(ctx context.Context, channelID string) (platform.Channel, error) {
	ch, err := c.api.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownChannel(err) {
			return nil, fmt.Errorf("%w: %s", platform.ErrChannelNotFound, channelID)
		}
		return nil, err
	}

	if !isMessageChannel(ch.Type) {
		return nil, fmt.Errorf("%w: %s", platform.ErrNotMessageChannel, channelID)
	}

	return &Channel{api: c.api, id: ch.ID}, nil
}

func isUnknownChannel(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownChannel {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func isMessageChannel(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeDM,
		discordgo.ChannelTypeGroupDM,
		discordgo.ChannelTypeGuildVoice,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return true
	default:
		return false
	}
}

// Channel implements platform.Channel
type Channel struct {
	api API
	id  string
}

func (ch *Channel) ID() string {
	return ch.id
}

func (ch *Channel) SendMessage(ctx context.Context, msg domain.PromptMessage) (platform.Message, error) {
	sent, err := ch.api.ChannelMessageSendComplex(ch.id, renderSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return platform.Message{}, err
	}
	return platform.Message{ChannelID: ch.id, ID: sent.ID}, nil
}

func (ch *Channel) EditMessage(ctx context.Context, messageID string, msg domain.PromptMessage) error {
	_, err := ch.api.ChannelMessageEditComplex(renderEdit(ch.id, messageID, msg), discordgo.WithContext(ctx))
	return err
}

func (ch *Channel) DeleteMessage(ctx context.Context, messageID string) error {
	return ch.api.ChannelMessageDelete(ch.id, messageID, discordgo.WithContext(ctx))
}
