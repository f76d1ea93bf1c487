package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"HealthifyGo/config"
	"HealthifyGo/middleware"
	"HealthifyGo/routes"
	"HealthifyGo/services"
	"HealthifyGo/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	})
}

func runServe() error {
	conf, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.Logger.Sync()

	if err := config.MigrateDB(config.DB); err != nil {
		return err
	}

	// 初始化Redis，未配置时不使用缓存
	ctx := context.Background()
	if err := config.InitRedis(ctx, conf); err != nil {
		return fmt.Errorf("无法初始化Redis: %w", err)
	}

	scoring, err := config.LoadScoring(conf.ScoringFile)
	if err != nil {
		return fmt.Errorf("无法加载评分表: %w", err)
	}

	// 初始化Deepseek客户端
	model, err := services.NewDeepseekModel(conf.DeepseekAPIKey, conf.DeepseekAPIEndpoint, conf.DeepseekModel)
	if err != nil {
		return fmt.Errorf("无法初始化Deepseek客户端: %w", err)
	}
	if model == nil {
		config.Logger.Warnw("未配置 DEEPSEEK_API_KEY，AI 回复草稿不可用")
	}

	utils.InitJWT(conf.JWTSecret, conf.JWTTTL())
	cache := services.NewSummaryCache(config.RedisClient, conf.CacheTTL())
	svc := services.New(config.DB, cache, scoring, model)

	// 设置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	middleware.SetupMiddleware(r)
	routes.RegisterRoutes(r, svc, conf.InternalAuthToken)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Infow("启动服务器", "port", conf.ServerPort, "driver", conf.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("服务器启动失败: %w", err)
	case <-quit:
	}
	config.Logger.Infow("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务器关闭失败: %w", err)
	}

	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
	if sqlDB, err := config.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	config.Logger.Infow("服务器已关闭")
	return nil
}
