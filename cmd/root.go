package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/phonics-service/internal/config"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
	"github.com/SAP-F-2025/phonics-service/pkg"
)

var rootCmd = &cobra.Command{
	Use:   "phonics",
	Short: "Phonics practice service",
	Long:  "Backend for the phonics practice app: materials, assignments, play sessions and grading.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection string (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(profilesCmd)
}

// loadConfig reads the environment and applies persistent flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if f := cmd.Flag("database-url"); f != nil && f.Value.String() != "" {
		cfg.DatabaseURL = f.Value.String()
	}
	return cfg, nil
}

// openDatabase connects and migrates so every command sees current tables
func openDatabase(cfg *config.Config, logger utils.Logger) (*gorm.DB, error) {
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := pkg.AutoMigrate(db); err != nil {
		return nil, err
	}
	logger.Info("Database ready")
	return db, nil
}
