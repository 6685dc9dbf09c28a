// Package commands implements the backoffice server CLI using cobra.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "AI backoffice API with deferred background work",
	Long: `Serves the prompt and audit API. Audit records and change
notifications are queued in memory and executed by a single background
consumer after each request commits.

Configuration is read from the environment; DATABASE_URL is required.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
