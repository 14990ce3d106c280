package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
	"github.com/SAP-F-2025/phonics-service/internal/validator"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage stored roles",
}

// setRoleCmd bootstraps the first admin, who can then use the HTTP API
var setRoleCmd = &cobra.Command{
	Use:   "set-role <subject> <role>",
	Short: "Assign learner or admin to an identity provider subject",
	Args:  cobra.ExactArgs(2),
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

		email, _ := cmd.Flags().GetString("email")
		svc := services.NewProfileService(postgres.NewRepository(db), logger.Slog(), validator.New())

		operator := models.Principal{Subject: "cli", Role: models.RoleAdmin}
		profile, err := svc.SetRole(cmd.Context(), args[0], &services.SetRoleRequest{
			Email: email,
			Role:  models.UserRole(args[1]),
		}, operator)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", profile.ID, profile.Role)
		return nil
	},
}

func init() {
	setRoleCmd.Flags().String("email", "", "Email to store with the profile")
	profilesCmd.AddCommand(setRoleCmd)
}
