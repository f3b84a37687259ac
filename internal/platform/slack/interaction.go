package slack

import (
	"context"

	"promptbot/internal/domain"

	slackapi "github.com/slack-go/slack"
)

// Interaction implements platform.Interaction for a block action. Socket
// mode requests are acknowledged on receipt, so Defer has nothing to do.
type Interaction struct {
	api      API
	callback slackapi.InteractionCallback
	action   *slackapi.BlockAction
}

// NewInteraction wraps one action of a block actions payload
func NewInteraction(api API, callback slackapi.InteractionCallback, action *slackapi.BlockAction) *Interaction {
	return &Interaction{api: api, callback: callback, action: action}
}

func (in *Interaction) MessageID() string {
	return messageKey(in.ChannelID(), in.timestamp())
}

func (in *Interaction) timestamp() string {
	if in.callback.Container.MessageTs != "" {
		return in.callback.Container.MessageTs
	}
	return in.callback.Message.Timestamp
}

func (in *Interaction) ChannelID() string {
	if in.callback.Container.ChannelID != "" {
		return in.callback.Container.ChannelID
	}
	return in.callback.Channel.ID
}

func (in *Interaction) CustomID() string {
	return in.action.ActionID
}

func (in *Interaction) User() domain.User {
	return domain.User{
		ID:   in.callback.User.ID,
		Name: in.callback.User.Name,
	}
}

func (in *Interaction) Defer(ctx context.Context) error {
	return nil
}

// Respond posts msg to the channel, or only to the clicking user when
// ephemeral
func (in *Interaction) Respond(ctx context.Context, msg domain.PromptMessage, ephemeral bool) error {
	if ephemeral {
		_, err := in.api.PostEphemeralContext(ctx, in.ChannelID(), in.callback.User.ID, messageOptions(msg)...)
		return err
	}
	_, _, err := in.api.PostMessageContext(ctx, in.ChannelID(), messageOptions(msg)...)
	return err
}

func (in *Interaction) EditOriginal(ctx context.Context, msg domain.PromptMessage) error {
	_, _, _, err := in.api.UpdateMessageContext(ctx, in.ChannelID(), in.timestamp(), messageOptions(msg)...)
	return err
}
