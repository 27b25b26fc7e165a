package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"recipe-assistant/internal/api"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/openrouter"
	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/core/chat"
	"recipe-assistant/internal/core/knowledge"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/metrics"
	"recipe-assistant/internal/pkg/common"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.Log.Level, cfg.Log.Dir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("knowledge_path", cfg.Knowledge.Path()),
	)

	// 知識庫：讀取失敗或數量不足時會改用預設食譜
	doc, err := knowledge.OpenDocument(cfg.Knowledge.DataDir, cfg.Knowledge.FileName)
	if err != nil {
		common.LogFatal("Failed to open knowledge document", zap.Error(err))
	}
	store, err := knowledge.NewStore(doc,
		knowledge.WithMinRecipes(cfg.Knowledge.MinRecipes),
		knowledge.WithResetHook(metrics.RecordKnowledgeReset),
	)
	if err != nil {
		common.LogFatal("Failed to load knowledge store", zap.Error(err))
	}

	// 生成服務：未設定金鑰時不啟用，其餘功能照常
	var generator chat.Generator
	if cfg.OpenRouter.Enabled() {
		q := queue.NewManager(cfg.Queue)
		defer q.Close()
		client := openrouter.NewClient(cfg.OpenRouter, cfg.Breaker, openrouter.WithQueue(q))
		defer client.Close()
		generator = client
	} else {
		common.LogWarn("OPENROUTER_API_KEY 未設定，生成服務停用")
	}

	// Redis 可用時由去重與回答快取共用，否則各自使用記憶體
	rdb := newRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	deps := api.Dependencies{
		Store:     store,
		Generator: generator,
		Dedup:     middleware.NewMemoryDedupStore(),
	}
	if rdb != nil {
		deps.Dedup = middleware.NewRedisDedupStore(rdb)
	}
	if cfg.Cache.Enabled {
		if rdb != nil {
			deps.Cache = cache.NewRedis(rdb, cfg.Cache.TTL)
		} else {
			mem := cache.NewManager(cfg.Cache)
			defer mem.Close()
			deps.Cache = mem
		}
	}

	router, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}

// newRedisClient 設定了 Redis 且連得上時回傳連線，否則回傳 nil
func newRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		common.LogWarn("Redis 無法連線，改用記憶體",
			zap.String("addr", cfg.Addr),
			zap.Error(err),
		)
		_ = client.Close()
		return nil
	}

	common.LogInfo("使用 Redis", zap.String("addr", cfg.Addr))
	return client
}
