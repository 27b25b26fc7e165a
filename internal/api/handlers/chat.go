package handlers

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/chat"
	"recipe-assistant/internal/metrics"
	"recipe-assistant/internal/pkg/common"
)

// ChatRequest 交給生成服務的對話請求
type ChatRequest struct {
	Message     string   `json:"message" binding:"required"`
	Ingredients []string `json:"ingredients,omitempty"`
	Context     string   `json:"context,omitempty"`
}

// ChatResponse 生成服務回覆與食譜建議
type ChatResponse struct {
	Response   string `json:"response"`
	Suggestion string `json:"suggestion"`
}

// QueryRequest 關鍵字查詢
type QueryRequest struct {
	Message string `json:"message" binding:"required"`
}

// QueryResponse 關鍵字查詢結果
type QueryResponse struct {
	Intent   chat.Intent `json:"intent"`
	Response string      `json:"response"`
}

// ChatHandler 對話與關鍵字查詢
type ChatHandler struct {
	router    *chat.Router
	assistant *chat.Assistant
}

// NewChatHandler 建立對話處理器
func NewChatHandler(router *chat.Router, assistant *chat.Assistant) *ChatHandler {
	return &ChatHandler{router: router, assistant: assistant}
}

// HandleChat 先回答問題，再依食材與偏好產生建議
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	common.LogInfo("開始處理對話請求",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("ingredients", len(req.Ingredients)),
	)

	ctx := c.Request.Context()
	resp := ChatResponse{
		Response:   h.assistant.Ask(ctx, req.Message),
		Suggestion: h.assistant.Suggest(ctx, req.Ingredients, req.Context),
	}
	c.JSON(http.StatusOK, resp)
}

// HandleQuery 關鍵字路由
func (h *ChatHandler) HandleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	intent, reply := h.router.Dispatch(req.Message)
	metrics.RecordQuery(string(intent))

	common.LogDebug("查詢已路由",
		zap.String("intent", string(intent)),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusOK, QueryResponse{Intent: intent, Response: reply})
}
