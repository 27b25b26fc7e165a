package chat

import (
	"context"
	"errors"
	"time"

	"recipe-assistant/internal/pkg/common"
)

// ErrUnavailable 生成服務未設定或暫時無法使用
var ErrUnavailable = errors.New("generation service unavailable")

// DefaultTimeout 單次生成呼叫的預設逾時
const DefaultTimeout = 60 * time.Second

// 生成失敗時給使用者的診斷訊息
const (
	MsgGeneratorUnavailable = "❌ Service de génération non disponible. Vérifiez votre clé API et la connexion internet."
	MsgGeneratorTimeout     = "⏳ Le service de génération met trop de temps à répondre. Réessayez dans un instant."
	MsgGeneratorError       = "🤖 Erreur technique lors de la génération. Vérifiez votre configuration."
	MsgSuggestionFailed     = "🤖 Impossible de générer une suggestion pour le moment."
)

// Generator 外部文字生成服務
type Generator interface {
	Answer(ctx context.Context, query, contextBlock string) (string, error)
	Suggest(ctx context.Context, ingredients []string, preferences string) (string, error)
}

// ContextSource 提供目錄摘要
type ContextSource interface {
	ContextBlock() string
}

// AnswerCache 問答結果快取，鍵包含目錄摘要
type AnswerCache interface {
	Get(ctx context.Context, query, contextBlock string) (string, bool)
	Set(ctx context.Context, query, contextBlock, answer string)
}

// Unavailable 永遠回傳 ErrUnavailable 的生成服務，未設定 API key 時使用
type Unavailable struct{}

func (Unavailable) Answer(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}

func (Unavailable) Suggest(context.Context, []string, string) (string, error) {
	return "", ErrUnavailable
}

// Assistant 把使用者問題連同目錄摘要交給生成服務
type Assistant struct {
	source    ContextSource
	generator Generator
	timeout   time.Duration
	observe   func(kind string, d time.Duration, err error)
	cache     AnswerCache
}

// AssistantOption Assistant 選項
type AssistantOption func(*Assistant)

// WithTimeout 設定單次呼叫逾時
func WithTimeout(d time.Duration) AssistantOption {
	return func(a *Assistant) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithObserver 每次呼叫結束時回報耗時與錯誤
func WithObserver(fn func(kind string, d time.Duration, err error)) AssistantOption {
	return func(a *Assistant) {
		a.observe = fn
	}
}

// WithCache 快取成功的回答；建議不快取
func WithCache(c AnswerCache) AssistantOption {
	return func(a *Assistant) {
		a.cache = c
	}
}

// NewAssistant 建立助理；generator 為 nil 時視為未設定
func NewAssistant(source ContextSource, generator Generator, opts ...AssistantOption) *Assistant {
	if generator == nil {
		generator = Unavailable{}
	}
	a := &Assistant{
		source:    source,
		generator: generator,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask 回傳生成服務的原始回覆；失敗時回傳診斷訊息，不回傳錯誤
func (a *Assistant) Ask(ctx context.Context, text string) string {
	block := a.source.ContextBlock()
	if a.cache != nil {
		if answer, ok := a.cache.Get(ctx, text, block); ok {
			return answer
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	answer, err := a.generator.Answer(callCtx, text, block)
	a.report("answer", time.Since(start), err)
	if err != nil {
		return diagnostic(err)
	}
	if a.cache != nil {
		a.cache.Set(ctx, text, block, answer)
	}
	return answer
}

// Suggest 依食材與偏好產生一則食譜建議
func (a *Assistant) Suggest(ctx context.Context, ingredients []string, preferences string) string {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	suggestion, err := a.generator.Suggest(ctx, ingredients, preferences)
	a.report("suggest", time.Since(start), err)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return MsgGeneratorUnavailable
		}
		return MsgSuggestionFailed
	}
	return suggestion
}

func (a *Assistant) report(kind string, d time.Duration, err error) {
	common.LogAICall(kind, d, err)
	if a.observe != nil {
		a.observe(kind, d, err)
	}
}

func diagnostic(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return MsgGeneratorUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return MsgGeneratorTimeout
	default:
		return MsgGeneratorError
	}
}
