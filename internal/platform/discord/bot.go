package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptbot/internal/platform"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// CommandPrefix starts every text command
const CommandPrefix = "!"

// Bot receives gateway events and hands them to the prompt registry and
// the command handler
type Bot struct {
	session *discordgo.Session
	client  *Client
	logger  *zap.Logger
	timeout time.Duration
}

// NewBot creates a gateway session for a bot token
func NewBot(token string, logger *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &Bot{
		session: session,
		client:  NewClient(session),
		logger:  logger,
		timeout: 30 * time.Second,
	}, nil
}

// Client returns the platform client backed by this session
func (b *Bot) Client() platform.Client {
	return b.client
}

// Run handles events until ctx is done
func (b *Bot) Run(ctx context.Context, prompts platform.Dispatcher, commands platform.CommandHandler) error {
	removeInteraction := b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionMessageComponent {
			return
		}
		b.handleInteraction(ctx, prompts, i.Interaction)
	})
	defer removeInteraction()

	removeMessage := b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.ID == s.State.User.ID {
			return
		}
		b.handleMessage(ctx, commands, m.Message)
	})
	defer removeMessage()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	b.logger.Info("Discord bot started", zap.String("username", b.session.State.User.Username))

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		b.logger.Warn("Failed to close discord session", zap.Error(err))
	}
	b.logger.Info("Discord bot stopped")
	return nil
}

func (b *Bot) handleInteraction(ctx context.Context, prompts platform.Dispatcher, i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	in := NewInteraction(b.session, i)
	result := prompts.Execute(ctx, in)

	b.logger.Debug("Handled prompt interaction",
		zap.String("message_id", in.MessageID()),
		zap.String("custom_id", in.CustomID()),
		zap.Stringer("status", result.Status),
		zap.String("detail", result.Message),
	)

	// Discord shows "interaction failed" unless every click gets a response
	if !in.Acknowledged() {
		if err := in.Defer(ctx); err != nil {
			b.logger.Warn("Failed to acknowledge interaction", zap.Error(err))
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, commands platform.CommandHandler, m *discordgo.Message) {
	cmd, ok := parseCommand(m.Content)
	if !ok {
		return
	}

	var roleIDs []string
	if m.Member != nil {
		roleIDs = m.Member.Roles
	}
	cmd.ChannelID = m.ChannelID
	cmd.MessageID = m.ID
	cmd.User = userFrom(m.Author, roleIDs, m.WebhookID != "")

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := commands.HandleCommand(ctx, cmd); err != nil {
		b.logger.Error("Failed to handle command",
			zap.String("command", cmd.Name),
			zap.String("user_id", cmd.User.ID),
			zap.Error(err),
		)
		if _, sendErr := b.session.ChannelMessageSend(m.ChannelID, "Something went wrong. Please try again later.", discordgo.WithContext(ctx)); sendErr != nil {
			b.logger.Warn("Failed to report command error", zap.Error(sendErr))
		}
	}
}

// parseCommand splits "!name arg1 arg2"
func parseCommand(content string) (platform.Command, bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], CommandPrefix) {
		return platform.Command{}, false
	}

	name := strings.TrimPrefix(fields[0], CommandPrefix)
	if name == "" {
		return platform.Command{}, false
	}

	return platform.Command{
		Name: strings.ToLower(name),
		Args: fields[1:],
	}, true
}
