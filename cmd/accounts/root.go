package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the accounts CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account registration and login service",
		Long: `accounts registers users, verifies their passwords and issues signed
bearer tokens. Configuration is read from the environment (and a .env file).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewGenSecretCmd())
	cmd.AddCommand(NewGenKeyCmd())

	return cmd
}
