// Package health 健康、就緒與存活檢查
package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"recipe-assistant/internal/core/ai/queue"
)

// Probe 回報各元件狀態
type Probe interface {
	Len() int
}

// GeneratorStatus 生成服務狀態
type GeneratorStatus struct {
	Enabled bool          `json:"enabled"`
	Model   string        `json:"model,omitempty"`
	Breaker string        `json:"breaker,omitempty"`
	Queue   *queue.Status `json:"queue,omitempty"`
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Recipes   int                    `json:"recipes"`
	Generator GeneratorStatus        `json:"generator"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	version   string
	started   time.Time
	catalog   Probe
	generator func() GeneratorStatus
}

// NewHandler 建立健康檢查處理器；generator 可為 nil
func NewHandler(version string, catalog Probe, generator func() GeneratorStatus) *Handler {
	if generator == nil {
		generator = func() GeneratorStatus { return GeneratorStatus{} }
	}
	return &Handler{
		version:   version,
		started:   time.Now(),
		catalog:   catalog,
		generator: generator,
	}
}

// HealthCheck 健康檢查；生成服務不可用時仍回 200，狀態為 degraded
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	gen := h.generator()
	status := "ok"
	if !gen.Enabled || gen.Breaker == "open" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Recipes:   h.catalog.Len(),
		Generator: gen,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	})
}

// ReadinessCheck 目錄為空時尚未就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.catalog.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
