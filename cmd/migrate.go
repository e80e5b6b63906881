package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/psds-microservice/classroom-service/internal/config"
	"github.com/psds-microservice/classroom-service/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply embedded migrations to PostgreSQL (STORE_BACKEND=postgres)",
	RunE:  runMigrateUp,
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.StoreBackend != config.StorePostgres {
		return fmt.Errorf("migrate: STORE_BACKEND is %q, migrations only apply to %q", cfg.StoreBackend, config.StorePostgres)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return database.MigrateUp(cfg.DatabaseURL())
}
