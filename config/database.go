package config

import (
	"fmt"
	"time"

	"HealthifyGo/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func dialector(config Config) gorm.Dialector {
	dsn := config.GetDBConnString()
	switch config.DBDriver {
	case "postgres":
		return postgres.Open(dsn)
	case "sqlite":
		return sqlite.Open(dsn)
	default:
		return mysql.Open(dsn)
	}
}

// InitDB 初始化数据库连接，启动阶段连接失败会按指数退避重试
func InitDB(config Config) error {
	logLevel := logger.Warn
	if config.Environment != "production" {
		logLevel = logger.Info
	}

	connect := func() error {
		db, err := gorm.Open(dialector(config), &gorm.Config{
			Logger:         logger.Default.LogMode(logLevel),
			TranslateError: true,
		})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}

		// 设置连接池参数
		if config.DBDriver == "sqlite" {
			sqlDB.SetMaxOpenConns(1)
		} else {
			sqlDB.SetMaxIdleConns(10)
			sqlDB.SetMaxOpenConns(100)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)

		DB = db
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 30 * time.Second
	err := backoff.RetryNotify(connect, policy, func(err error, wait time.Duration) {
		Logger.Warnw("数据库连接失败，稍后重试", "error", err, "wait", wait.String())
	})
	if err != nil {
		return fmt.Errorf("数据库连接失败: %w", err)
	}
	return nil
}

// MigrateDB 进行数据库表结构迁移
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}
