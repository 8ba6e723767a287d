package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamly/accounts/internal/accounts/app"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the configured database.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cmd.Println("Connecting to database...")
	db, err := app.OpenDatabase(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	cmd.Println("Running migrations...")
	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
