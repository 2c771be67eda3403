// Package cli defines the rmsctl command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/rms/internal/app"
	"github.com/stwalsh4118/rms/internal/config"
	"github.com/stwalsh4118/rms/internal/logger"
)

var flagEnv string

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rmsctl",
		Short:         "Operate the rent management backend",
		Long:          "Administrative commands for the rent management API: apply the schema, send due-rent reminders and issue owner tokens.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagEnv, "log-env", "production", "logger environment (development prints human-readable logs)")

	root.AddCommand(
		newMigrateCmd(),
		newSendRemindersCmd(),
		newTokenCmd(),
	)

	return root
}

// openApp loads configuration and wires the application. Callers must Close it.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger.New(flagEnv))
}
