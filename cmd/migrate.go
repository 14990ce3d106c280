package cmd

import (
	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := utils.NewLogger(cfg.IsProduction())

		db, err := openDatabase(cfg, logger)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		logger.Info("Migration complete")
		return nil
	},
}
