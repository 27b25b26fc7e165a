// Package cache 生成回答快取：行程內 TTL + 最少使用淘汰，或共用的 Redis
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/metrics"
	"recipe-assistant/internal/pkg/common"
)

// Key 由問題與目錄摘要產生快取鍵；目錄變動後舊的回答自然失效
func Key(query, contextBlock string) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write([]byte(contextBlock))
	return "answer:" + hex.EncodeToString(h.Sum(nil))
}

// Manager 行程內快取
type Manager struct {
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	mu    sync.Mutex
	store map[string]cacheEntry
	stats Stats

	done      chan struct{}
	closeOnce sync.Once
}

// cacheEntry 快取條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// Stats 快取統計
type Stats struct {
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewManager 建立快取並啟動定期清理
func NewManager(cfg config.CacheConfig) *Manager {
	m := newManager(cfg.TTL, cfg.MaxSize)
	go m.startCleanup(cfg.CleanupInterval)

	common.LogInfo("快取管理員已初始化",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)
	return m
}

func newManager(ttl time.Duration, maxSize int) *Manager {
	return &Manager{
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		store:   make(map[string]cacheEntry),
		done:    make(chan struct{}),
	}
}

// Get 取得未過期的回答
func (m *Manager) Get(_ context.Context, query, contextBlock string) (string, bool) {
	key := Key(query, contextBlock)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.store[key]
	if ok && m.now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.Evictions++
		ok = false
	}
	if !ok {
		m.stats.Misses++
		metrics.RecordCacheLookup("memory", false)
		return "", false
	}

	entry.lastAccess = m.now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.Hits++
	metrics.RecordCacheLookup("memory", true)

	common.LogDebug("快取命中", zap.String("key", key))
	return entry.value, true
}

// Set 儲存回答；容量已滿時先清過期項目，再淘汰最少使用的一筆
func (m *Manager) Set(_ context.Context, query, contextBlock, answer string) {
	key := Key(query, contextBlock)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.store[key]; !exists && len(m.store) >= m.maxSize {
		if evicted := m.cleanup(); evicted > 0 {
			common.LogDebug("快取清理執行", zap.Int("evicted", evicted))
		}
		if len(m.store) >= m.maxSize {
			m.evictLRU()
		}
	}

	now := m.now()
	m.store[key] = cacheEntry{
		value:      answer,
		expiresAt:  now.Add(m.ttl),
		lastAccess: now,
	}
}

// Stats 目前的統計
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.stats
	st.Size = len(m.store)
	st.MaxSize = m.maxSize
	return st
}

// startCleanup 定期清理過期條目，直到 Close
func (m *Manager) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			count := m.cleanup()
			m.mu.Unlock()
			if count > 0 {
				common.LogDebug("Cleaned up expired cache entries", zap.Int("count", count))
			}
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期條目，呼叫端需持有鎖
func (m *Manager) cleanup() int {
	now := m.now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
		}
	}
	m.stats.Evictions += int64(count)
	return count
}

// evictLRU 淘汰存取次數最少、其次最久未存取的一筆，呼叫端需持有鎖
func (m *Manager) evictLRU() {
	var (
		oldestKey    string
		oldestAccess time.Time
		lowestCount  int
	)
	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestCount ||
			(entry.accessCount == lowestCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestCount = entry.accessCount
		}
	}
	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.Evictions++
	}
}

// Close 停止清理並清空快取
func (m *Manager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()

	common.LogInfo("快取管理員已關閉",
		zap.Int64("hits", m.stats.Hits),
		zap.Int64("misses", m.stats.Misses),
		zap.Int64("evictions", m.stats.Evictions),
	)
	m.store = make(map[string]cacheEntry)
	return nil
}
