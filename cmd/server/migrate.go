package main

import (
	"github.com/mx-space/mailcast/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the subscribers schema and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := database.EnsureSchema(cfg); err != nil {
			logger.Error("migration failed", zap.Error(err))
			return err
		}
		logger.Info("schema up to date")
		return nil
	},
}
