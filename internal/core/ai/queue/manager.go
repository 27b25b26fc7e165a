// Package queue 限制同時進行的生成呼叫數，超出時排隊等待
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

var (
	// ErrQueueFull 等待中的呼叫已達上限
	ErrQueueFull = errors.New("generation queue is full")
	// ErrClosed 隊列已關閉
	ErrClosed = errors.New("generation queue is closed")
)

// Status 隊列狀態
type Status struct {
	Active         int   `json:"active"`
	Waiting        int   `json:"waiting"`
	ProcessedCount int64 `json:"processed_count"`
	Workers        int   `json:"workers"`
	MaxQueueSize   int   `json:"max_queue_size"`
}

// Manager 以 Workers 個名額限制並行數，最多 MaxSize 個呼叫排隊
type Manager struct {
	slots     chan struct{}
	maxSize   int
	waiting   atomic.Int64
	processed atomic.Int64
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager 建立隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Manager{
		slots:   make(chan struct{}, workers),
		maxSize: cfg.MaxSize,
		done:    make(chan struct{}),
	}
}

// Acquire 取得一個名額；回傳的 release 必須呼叫且只生效一次
func (m *Manager) Acquire(ctx context.Context) (release func(), err error) {
	select {
	case <-m.done:
		return nil, ErrClosed
	default:
	}

	select {
	case m.slots <- struct{}{}:
		return m.releaseFunc(), nil
	default:
	}

	if m.waiting.Add(1) > int64(m.maxSize) {
		m.waiting.Add(-1)
		common.LogWarn("Generation queue is full",
			zap.Int("workers", cap(m.slots)),
			zap.Int("max_queue_size", m.maxSize),
		)
		return nil, ErrQueueFull
	}
	defer m.waiting.Add(-1)

	select {
	case m.slots <- struct{}{}:
		return m.releaseFunc(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, ErrClosed
	}
}

func (m *Manager) releaseFunc() func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-m.slots
			m.processed.Add(1)
		})
	}
}

// Status 目前的隊列狀態
func (m *Manager) Status() Status {
	return Status{
		Active:         len(m.slots),
		Waiting:        int(m.waiting.Load()),
		ProcessedCount: m.processed.Load(),
		Workers:        cap(m.slots),
		MaxQueueSize:   m.maxSize,
	}
}

// Close 關閉隊列，等待中的呼叫回傳 ErrClosed
func (m *Manager) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}
