// Package metrics Prometheus 指標：HTTP 請求、查詢意圖、生成呼叫與知識庫狀態
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal 依路由、方法、狀態碼計數
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration HTTP 請求耗時
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// QueriesTotal 關鍵字路由依意圖計數
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_queries_total",
			Help: "Total number of keyword queries by intent",
		},
		[]string{"intent"},
	)

	// GenerationsTotal 生成呼叫依類型與結果計數
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_generations_total",
			Help: "Total number of generation calls by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// GenerationDuration 生成呼叫耗時，秒級延遲
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_generation_duration_seconds",
			Help:    "Duration of generation calls in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"kind"},
	)

	// KnowledgeResetsTotal 目錄重設為預設食譜的次數
	KnowledgeResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_knowledge_resets_total",
			Help: "Total number of catalog resets to the default recipes",
		},
	)

	// CatalogSize 目前目錄中的食譜數
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_catalog_size",
			Help: "Number of recipes in the catalog",
		},
	)

	// DuplicateRequestsTotal 被抑制的重複 POST
	DuplicateRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_duplicate_requests_total",
			Help: "Total number of suppressed duplicate POST requests",
		},
	)

	// CacheLookupsTotal 回答快取查詢，依後端與是否命中
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_lookups_total",
			Help: "Total number of answer cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)

	// RateLimitedTotal 被速率限制拒絕的請求
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// Outcome 由錯誤推出的結果標籤
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeError       Outcome = "error"
)

// RecordHTTPRequest 記錄一次 HTTP 請求
func RecordHTTPRequest(route, method, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordQuery 記錄一次關鍵字查詢
func RecordQuery(intent string) {
	QueriesTotal.WithLabelValues(intent).Inc()
}

// RecordGeneration 記錄一次生成呼叫
func RecordGeneration(kind string, outcome Outcome, d time.Duration) {
	GenerationsTotal.WithLabelValues(kind, string(outcome)).Inc()
	GenerationDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordCacheLookup 記錄一次快取查詢
func RecordCacheLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(backend, result).Inc()
}

// RecordKnowledgeReset 記錄一次目錄重設
func RecordKnowledgeReset() {
	KnowledgeResetsTotal.Inc()
}

// SetCatalogSize 更新目錄大小
func SetCatalogSize(n int) {
	CatalogSize.Set(float64(n))
}

// Handler /metrics 端點
func Handler() http.Handler {
	return promhttp.Handler()
}
