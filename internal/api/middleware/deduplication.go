package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"recipe-assistant/internal/metrics"
	"recipe-assistant/internal/pkg/common"
)

// DedupStore 記錄請求指紋；window 內第二次出現時 Seen 回傳 true
type DedupStore interface {
	Seen(ctx context.Context, fingerprint string, window time.Duration) (bool, error)
}

// MemoryDedupStore 行程內的指紋表
type MemoryDedupStore struct {
	mu        sync.Mutex
	requests  map[string]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryDedupStore 建立記憶體指紋表
func NewMemoryDedupStore() *MemoryDedupStore {
	return &MemoryDedupStore{
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Seen 實作 DedupStore
func (s *MemoryDedupStore) Seen(_ context.Context, fingerprint string, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now, window)

	if last, ok := s.requests[fingerprint]; ok && now.Sub(last) <= window {
		return true, nil
	}
	s.requests[fingerprint] = now
	return false, nil
}

// sweep 清掉超過 10 個 window 的指紋，最多每個 window 掃一次
func (s *MemoryDedupStore) sweep(now time.Time, window time.Duration) {
	if now.Sub(s.lastSweep) < window {
		return
	}
	s.lastSweep = now
	for k, t := range s.requests {
		if now.Sub(t) > 10*window {
			delete(s.requests, k)
		}
	}
}

// Len 目前保留的指紋數
func (s *MemoryDedupStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// RedisDedupStore 以 Redis SETNX 共享指紋，適合多個實例
type RedisDedupStore struct {
	client *redis.Client
	prefix string
}

// NewRedisDedupStore 建立 Redis 指紋表
func NewRedisDedupStore(client *redis.Client) *RedisDedupStore {
	return &RedisDedupStore{client: client, prefix: "recipe-assistant:dedup:"}
}

// Seen 實作 DedupStore
func (s *RedisDedupStore) Seen(ctx context.Context, fingerprint string, window time.Duration) (bool, error) {
	created, err := s.client.SetNX(ctx, s.prefix+fingerprint, 1, window).Result()
	if err != nil {
		return false, err
	}
	return !created, nil
}

// Deduplication 抑制 window 內相同路徑與內容的 POST 請求
//
// 指紋儲存失敗時放行請求。
func Deduplication(store DedupStore, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.AbortWithStatusJSON(ErrBodyTooLarge.Status, ErrBodyTooLarge.Response(false))
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		seen, err := store.Seen(c.Request.Context(), fingerprint, window)
		if err != nil {
			common.LogWarn("Dedup store unavailable, request allowed", zap.Error(err))
			c.Next()
			return
		}
		if seen {
			metrics.DuplicateRequestsTotal.Inc()
			c.AbortWithStatusJSON(common.ErrDuplicateSubmit.Status, common.ErrDuplicateSubmit.Response(false))
			return
		}

		c.Next()
	}
}
