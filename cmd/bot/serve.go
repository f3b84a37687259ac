package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptbot/internal/config"
	"promptbot/internal/handler"
	"promptbot/internal/platform"
	"promptbot/internal/platform/discord"
	"promptbot/internal/platform/slack"
	"promptbot/internal/platform/telegram"
	"promptbot/internal/repository/postgres"
	"promptbot/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// bot is implemented by every platform adapter
type bot interface {
	Client() platform.Client
	Run(ctx context.Context, prompts platform.Dispatcher, commands platform.CommandHandler) error
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting prompt bot", zap.String("platform", cfg.Platform))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// History is optional and needs a database
	var history *service.HistoryService
	if cfg.HistoryEnabled() {
		db, err := connectDatabase(ctx, cfg.DSN(), logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		logger.Info("Database connection established")

		if err := postgres.Migrate(db, logger); err != nil {
			return err
		}

		history = service.NewHistoryService(postgres.NewPromptLogRepo(db), cfg.History.RetentionDays, logger)
	} else {
		logger.Info("DB_PASSWORD not set, prompt history disabled")
	}

	b, err := newBot(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Platform client initialized")

	opts := service.Options{
		DefaultTimeout:  cfg.Prompts.Timeout,
		FinalizeTimeout: cfg.Prompts.FinalizeTimeout,
	}
	if history != nil {
		opts.History = history
	}
	prompts := service.NewPromptService(b.Client(), opts, logger)

	h := handler.NewHandler(b.Client(), prompts, history, cfg.Prompts, cfg.Admins, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	g, gCtx := errgroup.WithContext(ctx)
	if history != nil {
		g.Go(func() error {
			runCleanupJob(gCtx, history, logger)
			return nil
		})
	}
	g.Go(func() error {
		logger.Info("Bot started successfully")
		err := b.Run(gCtx, prompts, h)
		// Take the cleanup job down with the bot
		stop()
		return err
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Shutdown signal received, stopping prompts...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := prompts.UnregisterAll(shutdownCtx, true); err != nil {
		logger.Warn("Failed to stop prompts", zap.Error(err))
	}
	if err := prompts.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to close prompt service", zap.Error(err))
	}

	logger.Info("Bot stopped gracefully")
	return nil
}

// newBot creates the adapter for the configured platform
func newBot(cfg *config.Config, logger *zap.Logger) (bot, error) {
	switch cfg.Platform {
	case config.PlatformTelegram:
		b, err := telegram.NewBot(cfg.Telegram.Token, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create telegram bot: %w", err)
		}
		return b, nil
	case config.PlatformDiscord:
		b, err := discord.NewBot(cfg.Discord.Token, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create discord bot: %w", err)
		}
		return b, nil
	case config.PlatformSlack:
		return slack.NewBot(slack.Config{
			BotToken: cfg.Slack.BotToken,
			AppToken: cfg.Slack.AppToken,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported platform %q", cfg.Platform)
	}
}

// newLogger builds a production logger at the given level
func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = atomicLevel
	return zapCfg.Build()
}

// runCleanupJob runs periodic cleanup of old history
func runCleanupJob(ctx context.Context, history *service.HistoryService, logger *zap.Logger) {
	// Run cleanup once at startup
	if err := history.CleanupOldData(ctx); err != nil {
		logger.Error("Failed to run initial cleanup", zap.Error(err))
	}

	// Then run every 24 hours
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			if err := history.CleanupOldData(ctx); err != nil {
				logger.Error("Failed to run cleanup", zap.Error(err))
			}
		}
	}
}
