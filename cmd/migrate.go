package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/dtroode/gophaccounts-server/database"
	"github.com/dtroode/gophaccounts-server/internal/config"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations to the PostgreSQL database named by DATABASE_DSN.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "parse config").Wrap(err)
	}
	if cfg.Database.DSN == memoryDSN {
		return oops.Code("CONFIG_INVALID").Errorf("in-memory store has no migrations")
	}

	cmd.Println("Running migrations...")
	if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
