package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamly/accounts/internal/accounts/app"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Apply pending migrations and serve the accounts HTTP API until
SIGINT or SIGTERM is received.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Run()
}
