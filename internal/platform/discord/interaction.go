package discord

import (
	"context"
	"sync"

	"promptbot/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// Interaction implements platform.Interaction for a message component click
type Interaction struct {
	api API
	i   *discordgo.Interaction

	mu           sync.Mutex
	acknowledged bool
}

// NewInteraction wraps a component interaction
func NewInteraction(api API, i *discordgo.Interaction) *Interaction {
	return &Interaction{api: api, i: i}
}

func (in *Interaction) MessageID() string {
	if in.i.Message == nil {
		return ""
	}
	return in.i.Message.ID
}

func (in *Interaction) ChannelID() string {
	return in.i.ChannelID
}

func (in *Interaction) CustomID() string {
	if in.i.Type != discordgo.InteractionMessageComponent {
		return ""
	}
	return in.i.MessageComponentData().CustomID
}

func (in *Interaction) User() domain.User {
	if in.i.Member != nil && in.i.Member.User != nil {
		return userFrom(in.i.Member.User, in.i.Member.Roles, false)
	}
	if in.i.User != nil {
		return userFrom(in.i.User, nil, false)
	}
	return domain.User{}
}

// Defer acknowledges the click; the message is edited later
func (in *Interaction) Defer(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.acknowledged {
		return nil
	}
	err := in.api.InteractionRespond(in.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	in.acknowledged = true
	return nil
}

// Respond sends a new message in reply to the click
func (in *Interaction) Respond(ctx context.Context, msg domain.PromptMessage, ephemeral bool) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.acknowledged {
		_, err := in.api.FollowupMessageCreate(in.i, true, renderFollowup(msg, ephemeral), discordgo.WithContext(ctx))
		return err
	}

	err := in.api.InteractionRespond(in.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: renderResponseData(msg, ephemeral),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	in.acknowledged = true
	return nil
}

// EditOriginal updates the message the component belongs to
func (in *Interaction) EditOriginal(ctx context.Context, msg domain.PromptMessage) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.acknowledged {
		_, err := in.api.InteractionResponseEdit(in.i, renderWebhookEdit(msg), discordgo.WithContext(ctx))
		return err
	}

	err := in.api.InteractionRespond(in.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: renderResponseData(msg, false),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	in.acknowledged = true
	return nil
}

// Acknowledged reports whether Discord has received a response
func (in *Interaction) Acknowledged() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.acknowledged
}

func userFrom(u *discordgo.User, roleIDs []string, webhook bool) domain.User {
	return domain.User{
		ID:        u.ID,
		Name:      u.Username,
		IsBot:     u.Bot,
		IsWebhook: webhook,
		RoleIDs:   roleIDs,
	}
}
