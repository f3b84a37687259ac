package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"promptbot/internal/config"
	"promptbot/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply history database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbCfg, err := config.LoadDatabase()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := newLogger(os.Getenv("LOG_LEVEL"))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := connectDatabase(ctx, dbCfg.DSN(), logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		return postgres.Migrate(db, logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
