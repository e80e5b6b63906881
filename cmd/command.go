package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/psds-microservice/classroom-service/internal/application"
	"github.com/psds-microservice/classroom-service/internal/config"
	"github.com/psds-microservice/classroom-service/internal/database"
	"github.com/psds-microservice/classroom-service/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var commandCmd = &cobra.Command{
	Use:   "command <name> [args]",
	Short: "Run one-time command (migrate-create <name>, clear-room <uuid>)",
	RunE:  runCommand,
}

func init() {
	rootCmd.AddCommand(commandCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "available: migrate-create <name>, clear-room <uuid>")
		return nil
	}
	switch args[0] {
	case "migrate-create":
		if len(args) < 2 || args[1] == "" {
			return errors.New("migrate-create: migration name required")
		}
		return database.CreateMigration(args[1])
	case "clear-room":
		if len(args) < 2 || args[1] == "" {
			return errors.New("clear-room: uuid required")
		}
		return clearRoom(cmd.Context(), args[1])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// clearRoom resets a room after a class that was never closed from the UI:
// readiness emptied, session window cleared.
func clearRoom(ctx context.Context, room string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := application.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	st, err := application.OpenStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer st.Close()

	// Live streams belong to the API process; this hub has no subscribers.
	hub := service.NewBroadcastHub(logger)
	retry := service.RetryPolicy{Attempts: cfg.ReadRetryAttempts, Delay: cfg.ReadRetryDelay}
	service.NewReadinessService(st, hub, retry, logger).ClearAll(ctx, room)
	service.NewSessionWindowService(st, hub, retry, logger).Clear(ctx, room)
	logger.Info("room cleared", zap.String("uuid", room))
	return nil
}
