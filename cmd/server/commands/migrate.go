package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/config"
	"github.com/umbraco/Umbraco.AI-sub015/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync() //nolint:errcheck

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			return err
		}
		logger.Info("database migrations applied", zap.String("dir", cfg.MigrationsDir))
		return nil
	},
}
