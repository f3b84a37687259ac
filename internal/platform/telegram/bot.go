package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	"promptbot/internal/domain"
	"promptbot/internal/platform"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Bot receives Telegram updates and hands them to the prompt registry and
// the command handler
type Bot struct {
	bot      *tele.Bot
	client   *Client
	logger   *zap.Logger
	timeout  time.Duration
	baseCtx  context.Context
	commands platform.CommandHandler
	prompts  platform.Dispatcher
}

// NewBot creates a long polling Telegram bot
func NewBot(token string, logger *zap.Logger) (*Bot, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}

	return &Bot{
		bot:     bot,
		client:  NewClient(bot, logger),
		logger:  logger,
		timeout: 30 * time.Second,
	}, nil
}

// Client returns the platform client backed by this bot
func (b *Bot) Client() platform.Client {
	return b.client
}

// Run handles updates until ctx is done
func (b *Bot) Run(ctx context.Context, prompts platform.Dispatcher, commands platform.CommandHandler) error {
	b.baseCtx = ctx
	b.prompts = prompts
	b.commands = commands

	b.bot.Handle(tele.OnText, b.handleText)
	b.bot.Handle(tele.OnCallback, b.handleCallback)

	go func() {
		b.logger.Info("Telegram bot started", zap.String("username", b.bot.Me.Username))
		b.bot.Start()
	}()

	<-ctx.Done()
	b.bot.Stop()
	b.logger.Info("Telegram bot stopped")
	return nil
}

// handleText turns "/name args" messages into commands
func (b *Bot) handleText(c tele.Context) error {
	cmd, ok := parseCommand(c.Text())
	if !ok {
		return nil
	}

	cmd.ChannelID = strconv.FormatInt(c.Chat().ID, 10)
	if msg := c.Message(); msg != nil {
		cmd.MessageID = messageKey(c.Chat().ID, msg.ID)
	}
	cmd.User = userFromSender(c.Sender())

	ctx, cancel := context.WithTimeout(b.baseCtx, b.timeout)
	defer cancel()

	if err := b.commands.HandleCommand(ctx, cmd); err != nil {
		b.logger.Error("Failed to handle command",
			zap.String("command", cmd.Name),
			zap.String("user_id", cmd.User.ID),
			zap.Error(err),
		)
		return c.Send("Something went wrong. Please try again later.")
	}
	return nil
}

// handleCallback dispatches a button click
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		b.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	ctx, cancel := context.WithTimeout(b.baseCtx, b.timeout)
	defer cancel()

	in := NewInteraction(c, b.logger)
	result := b.prompts.Execute(ctx, in)
	logResult(b.logger, in, result)

	// Telegram keeps a spinner on the button until the query is answered
	if !in.Answered() {
		return c.Respond()
	}
	return nil
}

// parseCommand splits "/name@bot arg1 arg2"
func parseCommand(text string) (platform.Command, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return platform.Command{}, false
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return platform.Command{}, false
	}

	return platform.Command{
		Name: strings.ToLower(name),
		Args: fields[1:],
	}, true
}

func logResult(logger *zap.Logger, in *Interaction, result domain.PromptResult) {
	fields := []zap.Field{
		zap.String("message_id", in.MessageID()),
		zap.String("custom_id", in.CustomID()),
		zap.Stringer("status", result.Status),
	}
	if result.Message != "" {
		fields = append(fields, zap.String("detail", result.Message))
	}
	logger.Debug("Handled prompt interaction", fields...)
}
