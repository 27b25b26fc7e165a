package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"recipe-assistant/internal/metrics"
	"recipe-assistant/internal/pkg/common"
)

// Redis 多個實例共用的回答快取；Redis 錯誤一律視為未命中
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis 使用既有連線建立快取
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: "recipe-assistant:"}
}

// Get 取得回答
func (s *Redis) Get(ctx context.Context, query, contextBlock string) (string, bool) {
	key := s.prefix + Key(query, contextBlock)

	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			common.LogWarn("讀取快取失敗", zap.Error(err))
		}
		metrics.RecordCacheLookup("redis", false)
		return "", false
	}

	metrics.RecordCacheLookup("redis", true)
	return value, true
}

// Set 以 ttl 儲存回答
func (s *Redis) Set(ctx context.Context, query, contextBlock, answer string) {
	key := s.prefix + Key(query, contextBlock)
	if err := s.client.Set(ctx, key, answer, s.ttl).Err(); err != nil {
		common.LogWarn("寫入快取失敗", zap.Error(err))
	}
}
