package config

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
)

var RedisClient *redis.Client

// InitRedis 初始化Redis客户端，REDIS_HOST 为空时跳过
func InitRedis(ctx context.Context, config Config) error {
	if config.RedisHost == "" {
		Logger.Infow("未配置Redis，摘要缓存已关闭")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.GetRedisConnString(),
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	err := backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}, policy)
	if err != nil {
		client.Close()
		return fmt.Errorf("Redis连接测试失败: %w", err)
	}

	RedisClient = client
	return nil
}
