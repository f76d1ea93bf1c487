package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"HealthifyGo/config"

	"github.com/go-redis/redis/v8"
)

// SummaryCache 缓存统计结果。每个用户有一个版本号，记录变化时递增，旧版本的缓存自然失效。
// 食物库另有一个全局版本号，变化时所有用户的缓存一起失效。
type SummaryCache interface {
	Get(ctx context.Context, userID uint, key string, dest interface{}) bool
	Set(ctx context.Context, userID uint, key string, value interface{})
	Invalidate(ctx context.Context, userID uint)
	InvalidateAll(ctx context.Context)
}

type noopCache struct{}

func (noopCache) Get(context.Context, uint, string, interface{}) bool { return false }
func (noopCache) Set(context.Context, uint, string, interface{})      {}
func (noopCache) Invalidate(context.Context, uint)                    {}
func (noopCache) InvalidateAll(context.Context)                       {}

// NewSummaryCache client 为空时返回不缓存的实现
func NewSummaryCache(client *redis.Client, ttl time.Duration) SummaryCache {
	if client == nil || ttl <= 0 {
		return noopCache{}
	}
	return &redisSummaryCache{client: client, ttl: ttl}
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

const catalogVersionKey = "healthify:foods:ver"

func versionKey(userID uint) string {
	return fmt.Sprintf("healthify:records:ver:%d", userID)
}

func (c *redisSummaryCache) dataKey(ctx context.Context, userID uint, key string) (string, error) {
	vals, err := c.client.MGet(ctx, versionKey(userID), catalogVersionKey).Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("healthify:summary:%d:%s:%s:%s", userID, versionOf(vals[0]), versionOf(vals[1]), key), nil
}

// versionOf 键不存在时 MGET 返回 nil，按版本 0 处理
func versionOf(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

func (c *redisSummaryCache) Get(ctx context.Context, userID uint, key string, dest interface{}) bool {
	k, err := c.dataKey(ctx, userID, key)
	if err != nil {
		config.Logger.Warnw("读取缓存版本失败", "error", err, "userID", userID)
		return false
	}
	raw, err := c.client.Get(ctx, k).Bytes()
	if err != nil {
		if err != redis.Nil {
			config.Logger.Warnw("读取缓存失败", "error", err, "key", k)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		config.Logger.Warnw("缓存内容无法解析", "error", err, "key", k)
		return false
	}
	return true
}

func (c *redisSummaryCache) Set(ctx context.Context, userID uint, key string, value interface{}) {
	k, err := c.dataKey(ctx, userID, key)
	if err != nil {
		config.Logger.Warnw("读取缓存版本失败", "error", err, "userID", userID)
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, k, raw, c.ttl).Err(); err != nil {
		config.Logger.Warnw("写入缓存失败", "error", err, "key", k)
	}
}

func (c *redisSummaryCache) Invalidate(ctx context.Context, userID uint) {
	if err := c.client.Incr(ctx, versionKey(userID)).Err(); err != nil {
		config.Logger.Warnw("更新缓存版本失败", "error", err, "userID", userID)
	}
}

func (c *redisSummaryCache) InvalidateAll(ctx context.Context) {
	if err := c.client.Incr(ctx, catalogVersionKey).Err(); err != nil {
		config.Logger.Warnw("更新食物库缓存版本失败", "error", err)
	}
}
