package cmd

import (
	"fmt"
	"os"

	"HealthifyGo/config"
	"HealthifyGo/services"

	"github.com/spf13/cobra"
)

func init() {
	var username, password, email string
	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			defer config.Logger.Sync()

			if err := config.MigrateDB(config.DB); err != nil {
				return err
			}
			var emailPtr *string
			if email != "" {
				emailPtr = &email
			}
			users := services.NewUserService(config.DB, nil)
			admin, err := users.CreateAdmin(cmd.Context(), username, password, emailPtr)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "管理员已创建: id=%d username=%s\n", admin.ID, admin.Username)
			return nil
		},
	}
	createAdminCmd.Flags().StringVarP(&username, "username", "u", "", "Admin username (required)")
	createAdminCmd.Flags().StringVarP(&password, "password", "p", "", "Admin password (required)")
	createAdminCmd.Flags().StringVarP(&email, "email", "e", "", "Admin email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
