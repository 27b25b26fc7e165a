package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/core/chat"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

// Message 對話訊息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request chat completions 請求
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Response chat completions 回應
type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Usage   UsageInfo `json:"usage"`
}

// Choice 候選回覆
type Choice struct {
	Message Message `json:"message"`
}

// UsageInfo 使用量信息
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// APIError API 錯誤內容
type APIError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// StatusError 非 200 回應
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openrouter returned status %d: %s", e.Status, e.Message)
}

// Client OpenRouter 相容 API 客戶端，實作 chat.Generator
type Client struct {
	http    *resty.Client
	cfg     config.OpenRouterConfig
	breaker *gobreaker.CircuitBreaker[string]
	queue   *queue.Manager
}

// Option 客戶端選項
type Option func(*Client)

// WithQueue 以隊列限制同時送出的請求數
func WithQueue(q *queue.Manager) Option {
	return func(c *Client) {
		c.queue = q
	}
}

var _ chat.Generator = (*Client)(nil)

// NewClient 建立客戶端；呼叫端需先確認 cfg.Enabled()
func NewClient(cfg config.OpenRouterConfig, bc config.BreakerConfig, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://recipe-assistant.local").
		SetHeader("X-Title", "Recipe Assistant").
		SetTimeout(cfg.Timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	c := &Client{
		http:    httpClient,
		cfg:     cfg,
		breaker: newBreaker(bc),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newBreaker(bc config.BreakerConfig) *gobreaker.CircuitBreaker[string] {
	threshold := bc.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "openrouter",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// 呼叫端取消不算服務失敗
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogWarn("斷路器狀態改變",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Model 目前使用的模型
func (c *Client) Model() string {
	return c.cfg.Model
}

// BreakerState 斷路器狀態（closed / half-open / open）
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// QueueStatus 隊列狀態；未設定隊列時回傳 false
func (c *Client) QueueStatus() (queue.Status, bool) {
	if c.queue == nil {
		return queue.Status{}, false
	}
	return c.queue.Status(), true
}

// Answer 依目錄摘要回答使用者問題
func (c *Client) Answer(ctx context.Context, query, contextBlock string) (string, error) {
	return c.complete(ctx, culinaryPrompt(query, contextBlock), 0.7)
}

// Suggest 依食材與偏好產生一則簡短的食譜建議
func (c *Client) Suggest(ctx context.Context, ingredients []string, preferences string) (string, error) {
	return c.complete(ctx, suggestionPrompt(ingredients, preferences), 0.9)
}

// complete 經由隊列與斷路器送出單一 user 訊息；隊列已滿或斷路器開啟時回傳 chat.ErrUnavailable
func (c *Client) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if c.queue != nil {
		release, err := c.queue.Acquire(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrQueueFull) || errors.Is(err, queue.ErrClosed) {
				return "", fmt.Errorf("%w: %w", chat.ErrUnavailable, err)
			}
			return "", err
		}
		defer release()
	}

	content, err := c.breaker.Execute(func() (string, error) {
		return c.send(ctx, prompt, temperature)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %w", chat.ErrUnavailable, err)
	}
	return content, err
}

func (c *Client) send(ctx context.Context, prompt string, temperature float64) (string, error) {
	req := &Request{
		Model:       c.cfg.Model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: temperature,
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", req.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	var result Response
	var apiErr APIError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("send request to openrouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return "", &StatusError{Status: resp.StatusCode(), Message: msg}
	}

	if len(result.Choices) == 0 {
		return "", errors.New("no choices in openrouter response")
	}
	content := result.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errors.New("empty content in openrouter response")
	}

	common.LogDebug("Received response from OpenRouter",
		zap.String("model", req.Model),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return content, nil
}

// Close 關閉閒置連線
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}
