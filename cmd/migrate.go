package cmd

import (
	"HealthifyGo/config"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			defer config.Logger.Sync()

			if err := config.MigrateDB(config.DB); err != nil {
				return err
			}
			config.Logger.Infow("数据库迁移完成")
			return nil
		},
	})
}
