package slack

import (
	"context"
	"strings"
	"time"

	"promptbot/internal/platform"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"
)

// SlashCommand is the single slash command the app registers.
// Its first word selects the bot command.
const SlashCommand = "/prompt"

// Config holds Slack bot configuration
type Config struct {
	BotToken string
	AppToken string
}

// Bot handles incoming Slack events via Socket Mode
type Bot struct {
	api        *slackapi.Client
	socketMode *socketmode.Client
	client     *Client
	logger     *zap.Logger
	timeout    time.Duration
}

// NewBot creates a new Bot with Socket Mode enabled
func NewBot(cfg Config, logger *zap.Logger) *Bot {
	api := slackapi.New(cfg.BotToken, slackapi.OptionAppLevelToken(cfg.AppToken))
	return &Bot{
		api:        api,
		socketMode: socketmode.New(api),
		client:     NewClient(api, logger),
		logger:     logger,
		timeout:    30 * time.Second,
	}
}

// Client returns the platform client backed by this app
func (b *Bot) Client() platform.Client {
	return b.client
}

// Run processes Slack events. It blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, prompts platform.Dispatcher, commands platform.CommandHandler) error {
	go b.handleEvents(ctx, prompts, commands)
	b.logger.Info("Slack bot started")
	err := b.socketMode.RunContext(ctx)
	if ctx.Err() != nil {
		b.logger.Info("Slack bot stopped")
		return nil
	}
	return err
}

// handleEvents dispatches incoming Socket Mode events to the appropriate handler
func (b *Bot) handleEvents(ctx context.Context, prompts platform.Dispatcher, commands platform.CommandHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.socketMode.Events:
			if !ok {
				return
			}
			switch evt.Type {
			case socketmode.EventTypeInteractive:
				b.socketMode.Ack(*evt.Request)
				if callback, ok := evt.Data.(slackapi.InteractionCallback); ok {
					go b.handleInteraction(ctx, prompts, callback)
				}
			case socketmode.EventTypeSlashCommand:
				b.socketMode.Ack(*evt.Request)
				if cmd, ok := evt.Data.(slackapi.SlashCommand); ok {
					go b.handleSlashCommand(ctx, commands, cmd)
				}
			case socketmode.EventTypeConnectionError:
				b.logger.Warn("Slack connection error")
			default:
				if evt.Request != nil {
					b.socketMode.Ack(*evt.Request)
				}
			}
		}
	}
}

// handleInteraction dispatches every action of a block actions payload
func (b *Bot) handleInteraction(ctx context.Context, prompts platform.Dispatcher, callback slackapi.InteractionCallback) {
	if callback.Type != slackapi.InteractionTypeBlockActions {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	for _, action := range callback.ActionCallback.BlockActions {
		in := NewInteraction(b.api, callback, action)
		result := prompts.Execute(ctx, in)
		b.logger.Debug("Handled prompt interaction",
			zap.String("message_id", in.MessageID()),
			zap.String("custom_id", in.CustomID()),
			zap.Stringer("status", result.Status),
			zap.String("detail", result.Message),
		)
	}
}

// handleSlashCommand turns "/prompt name args" into a command
func (b *Bot) handleSlashCommand(ctx context.Context, commands platform.CommandHandler, slash slackapi.SlashCommand) {
	cmd, ok := parseSlashCommand(slash)
	if !ok {
		cmd = platform.Command{Name: "help"}
	}
	cmd.ChannelID = slash.ChannelID
	cmd.User.ID = slash.UserID
	cmd.User.Name = slash.UserName

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := commands.HandleCommand(ctx, cmd); err != nil {
		b.logger.Error("Failed to handle command",
			zap.String("command", cmd.Name),
			zap.String("user_id", cmd.User.ID),
			zap.Error(err),
		)
		_, postErr := b.api.PostEphemeralContext(ctx, slash.ChannelID, slash.UserID,
			slackapi.MsgOptionText("Something went wrong. Please try again later.", false),
		)
		if postErr != nil {
			b.logger.Warn("Failed to report command error", zap.Error(postErr))
		}
	}
}

func parseSlashCommand(slash slackapi.SlashCommand) (platform.Command, bool) {
	fields := strings.Fields(slash.Text)
	if len(fields) == 0 {
		return platform.Command{}, false
	}
	return platform.Command{
		Name: strings.ToLower(fields[0]),
		Args: fields[1:],
	}, true
}
