// Package handlers HTTP 處理器與共用的目錄存取
package handlers

import (
	"sync"

	"recipe-assistant/internal/core/knowledge"
	"recipe-assistant/internal/metrics"
)

// Catalog 以讀寫鎖保護知識庫；寫入互斥，查詢可並行
type Catalog struct {
	mu    sync.RWMutex
	store *knowledge.Store
}

// NewCatalog 包裝知識庫
func NewCatalog(store *knowledge.Store) *Catalog {
	metrics.SetCatalogSize(store.Len())
	return &Catalog{store: store}
}

// Recipes 目錄副本
func (c *Catalog) Recipes() []knowledge.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Recipes()
}

// Len 食譜數
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Len()
}

func (c *Catalog) FindByName(name string) (knowledge.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.FindByName(name)
}

func (c *Catalog) FindByIngredient(substr string) []knowledge.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.FindByIngredient(substr)
}

func (c *Catalog) FindByDishType(label string) []knowledge.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.FindByDishType(label)
}

func (c *Catalog) FindByDifficulty(label string) []knowledge.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.FindByDifficulty(label)
}

// ContextBlock 生成服務用的目錄摘要
func (c *Catalog) ContextBlock() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.ContextBlock()
}

// Stats 目錄統計
func (c *Catalog) Stats() knowledge.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Stats()
}

// Add 新增食譜
func (c *Catalog) Add(r knowledge.Recipe) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.store.Add(r)
	metrics.SetCatalogSize(c.store.Len())
	return err
}

// Remove 刪除同名食譜，回傳刪除數量
func (c *Catalog) Remove(name string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.store.Remove(name)
	metrics.SetCatalogSize(c.store.Len())
	return n, err
}

// Reset 重設為預設食譜
func (c *Catalog) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.store.Reset()
	metrics.SetCatalogSize(c.store.Len())
	return err
}
