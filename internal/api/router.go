package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-assistant/internal/api/handlers"
	"recipe-assistant/internal/api/handlers/health"
	recipeHandler "recipe-assistant/internal/api/handlers/recipe"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/core/chat"
	"recipe-assistant/internal/core/knowledge"
	"recipe-assistant/internal/core/recommend"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/metrics"
	"recipe-assistant/internal/pkg/common"
)

// Dependencies 路由需要的元件
type Dependencies struct {
	Store     *knowledge.Store
	Generator chat.Generator        // nil 時視為未設定
	Dedup     middleware.DedupStore // nil 時使用記憶體
	Cache     chat.AnswerCache      // nil 時不快取回答
	Rand      recommend.Rand        // nil 時使用全域亂數
}

// generatorInfo 可回報模型與斷路器狀態的生成服務
type generatorInfo interface {
	Model() string
	BreakerState() string
}

// queueInfo 可回報隊列狀態的生成服務
type queueInfo interface {
	QueueStatus() (queue.Status, bool)
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Store == nil {
		return nil, errors.New("knowledge store is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(requestTimeout(cfg.Server.RequestTimeout))

	// 組裝核心元件
	var opts []recommend.Option
	if deps.Rand != nil {
		opts = append(opts, recommend.WithRand(deps.Rand))
	}
	catalog := handlers.NewCatalog(deps.Store)
	engine := recommend.NewEngine(catalog, opts...)
	queryRouter := chat.NewRouter(catalog, engine)
	assistantOpts := []chat.AssistantOption{
		chat.WithTimeout(cfg.OpenRouter.Timeout),
		chat.WithObserver(observeGeneration),
	}
	if deps.Cache != nil {
		assistantOpts = append(assistantOpts, chat.WithCache(deps.Cache))
	}
	assistant := chat.NewAssistant(catalog, deps.Generator, assistantOpts...)

	common.LogInfo("Initializing services",
		zap.Int("recipes", catalog.Len()),
		zap.Bool("generator_enabled", deps.Generator != nil),
		zap.Bool("answer_cache", deps.Cache != nil),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
	)

	healthHandler := health.NewHandler(cfg.App.Version, catalog, generatorStatus(deps.Generator))
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	chatHandler := handlers.NewChatHandler(queryRouter, assistant)
	recipes := recipeHandler.NewHandler(catalog, engine)

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
	}
	if cfg.Dedup.Enabled {
		store := deps.Dedup
		if store == nil {
			store = middleware.NewMemoryDedupStore()
		}
		api.Use(middleware.Deduplication(store, cfg.Dedup.Window))
	}
	{
		api.POST("/chat", chatHandler.HandleChat)
		api.POST("/query", chatHandler.HandleQuery)

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", recipes.HandleList)
			recipeGroup.POST("", recipes.HandleAdd)
			recipeGroup.POST("/reset", recipes.HandleReset)
			recipeGroup.GET("/search", recipes.HandleSearch)
			recipeGroup.GET("/type/:type", recipes.HandleByType)
			recipeGroup.GET("/difficulty/:level", recipes.HandleByDifficulty)
			recipeGroup.GET("/:name", recipes.HandleGet)
			recipeGroup.DELETE("/:name", recipes.HandleRemove)
		}

		recommendGroup := api.Group("/recommendations")
		{
			recommendGroup.GET("/ingredients", recipes.HandleByIngredients)
			recommendGroup.GET("/time", recipes.HandleByTime)
			recommendGroup.GET("/random", recipes.HandleRandom)
		}

		api.GET("/stats", recipes.HandleStats)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("dedup", cfg.Dedup.Enabled),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

// requestTimeout 為每個請求設定逾時；逾時且尚未回應時回 504
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrGatewayTimeout.Response(false))
		}
	}
}

func observeGeneration(kind string, d time.Duration, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, chat.ErrUnavailable):
		outcome = metrics.OutcomeUnavailable
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.RecordGeneration(kind, outcome, d)
}

func generatorStatus(gen chat.Generator) func() health.GeneratorStatus {
	return func() health.GeneratorStatus {
		info, ok := gen.(generatorInfo)
		if !ok {
			return health.GeneratorStatus{Enabled: false}
		}
		status := health.GeneratorStatus{
			Enabled: true,
			Model:   info.Model(),
			Breaker: info.BreakerState(),
		}
		if q, ok := gen.(queueInfo); ok {
			if st, ok := q.QueueStatus(); ok {
				status.Queue = &st
			}
		}
		return status
	}
}
