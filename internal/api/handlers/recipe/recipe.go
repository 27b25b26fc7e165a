// Package recipe 食譜目錄、推薦與統計的 HTTP 處理器
package recipe

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-assistant/internal/api/handlers"
	"recipe-assistant/internal/core/knowledge"
	"recipe-assistant/internal/core/recommend"
	"recipe-assistant/internal/pkg/common"
)

// DefaultMaxMinutes /recommendations/time 未指定 max 時的上限
const DefaultMaxMinutes = 20

// RemoveResponse 刪除結果
type RemoveResponse struct {
	Name    string `json:"name"`
	Removed int    `json:"removed"`
	Total   int    `json:"total"`
}

// Handler 食譜處理程序
type Handler struct {
	catalog *handlers.Catalog
	engine  *recommend.Engine
}

// NewHandler 創建新的食譜處理程序
func NewHandler(catalog *handlers.Catalog, engine *recommend.Engine) *Handler {
	return &Handler{catalog: catalog, engine: engine}
}

// nonNil 讓空結果編碼為 []
func nonNil(recipes []knowledge.Recipe) []knowledge.Recipe {
	if recipes == nil {
		return []knowledge.Recipe{}
	}
	return recipes
}

// HandleList 整份目錄
func (h *Handler) HandleList(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(h.catalog.Recipes()))
}

// HandleGet 依名稱查找，重複名稱回傳第一筆
func (h *Handler) HandleGet(c *gin.Context) {
	r, ok := h.catalog.FindByName(c.Param("name"))
	if !ok {
		handlers.RespondError(c, common.ErrRecipeNotFound)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleByType 依菜品類型，接受法文標籤
func (h *Handler) HandleByType(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(h.catalog.FindByDishType(c.Param("type"))))
}

// HandleByDifficulty 依難度
func (h *Handler) HandleByDifficulty(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(h.catalog.FindByDifficulty(c.Param("level"))))
}

// HandleSearch 依食材名稱子字串
func (h *Handler) HandleSearch(c *gin.Context) {
	ingredient := strings.TrimSpace(c.Query("ingredient"))
	if ingredient == "" {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(errors.New("ingredient is required")))
		return
	}
	c.JSON(http.StatusOK, nonNil(h.catalog.FindByIngredient(ingredient)))
}

// HandleAdd 驗證後新增並寫回目錄
func (h *Handler) HandleAdd(c *gin.Context) {
	var r knowledge.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		handlers.BindError(c, err)
		return
	}
	if err := knowledge.Validate(r); err != nil {
		handlers.RespondError(c, common.ErrInvalidRecipe.Wrap(err))
		return
	}

	if err := h.catalog.Add(r); err != nil {
		handlers.RespondError(c, common.ErrPersistFailed.Wrap(err))
		return
	}

	common.LogInfo("食譜已新增",
		zap.String("name", r.Name),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusCreated, r)
}

// HandleRemove 刪除所有同名食譜（區分大小寫）
func (h *Handler) HandleRemove(c *gin.Context) {
	name := c.Param("name")
	removed, err := h.catalog.Remove(name)
	if err != nil {
		handlers.RespondError(c, common.ErrPersistFailed.Wrap(err))
		return
	}
	if removed == 0 {
		handlers.RespondError(c, common.ErrRecipeNotFound)
		return
	}
	c.JSON(http.StatusOK, RemoveResponse{Name: name, Removed: removed, Total: h.catalog.Len()})
}

// HandleReset 重設為預設食譜
func (h *Handler) HandleReset(c *gin.Context) {
	if err := h.catalog.Reset(); err != nil {
		handlers.RespondError(c, common.ErrPersistFailed.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, nonNil(h.catalog.Recipes()))
}

// HandleByIngredients 依可用食材評分，items 以逗號分隔
func (h *Handler) HandleByIngredients(c *gin.Context) {
	items := strings.Split(c.Query("items"), ",")
	scored := h.engine.ScoreByIngredients(items)
	if scored == nil {
		scored = []recommend.Scored{}
	}
	c.JSON(http.StatusOK, scored)
}

// HandleByTime 準備時間不超過 max 分鐘
func (h *Handler) HandleByTime(c *gin.Context) {
	maxMinutes := DefaultMaxMinutes
	if raw := c.Query("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handlers.RespondError(c, common.ErrInvalidRequest.Wrap(errors.New("max must be a non-negative integer")))
			return
		}
		maxMinutes = n
	}
	c.JSON(http.StatusOK, nonNil(h.engine.ByTime(maxMinutes)))
}

// HandleRandom 隨機一道
func (h *Handler) HandleRandom(c *gin.Context) {
	r, ok := h.engine.Random()
	if !ok {
		handlers.RespondError(c, common.ErrRecipeNotFound)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleStats 目錄統計
func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Stats())
}
