package cmd

import (
	"fmt"
	"os"

	"HealthifyGo/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "healthify",
		Short: "Healthify 健康记录与报告服务",
		// 不带子命令时直接启动服务
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing the .env file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap 加载配置、初始化日志和数据库，所有子命令共用
func bootstrap() (config.Config, error) {
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return conf, fmt.Errorf("无法加载配置: %w", err)
	}
	if err := config.InitLogger(conf.LogDir, conf.Environment != "production"); err != nil {
		return conf, fmt.Errorf("无法初始化日志: %w", err)
	}
	if err := config.InitDB(conf); err != nil {
		return conf, fmt.Errorf("无法初始化数据库: %w", err)
	}
	return conf, nil
}
