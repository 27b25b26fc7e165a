package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, filepath.Join("data", "recipes.json"), cfg.Knowledge.Path())
	assert.Equal(t, 8, cfg.Knowledge.MinRecipes)
	assert.Equal(t, 60*time.Second, cfg.OpenRouter.Timeout)
	assert.False(t, cfg.OpenRouter.Enabled())
	assert.Equal(t, uint32(3), cfg.Breaker.FailureThreshold)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Queue.Workers)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test-1234567890")
	t.Setenv("KNOWLEDGE_DATA_DIR", "/tmp/kb")
	t.Setenv("KNOWLEDGE_FILE_NAME", "catalog.json")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_ENABLED", "true")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.True(t, cfg.OpenRouter.Enabled())
	assert.Equal(t, filepath.Join("/tmp/kb", "catalog.json"), cfg.Knowledge.Path())
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Cache.Enabled)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: 8000},
			OpenRouter: OpenRouterConfig{Timeout: time.Second},
			Knowledge:  KnowledgeConfig{DataDir: "data", FileName: "recipes.json", MinRecipes: 8},
			Breaker:    BreakerConfig{FailureThreshold: 3},
			Queue:      QueueConfig{Workers: 4, MaxSize: 32},
		}
	}

	require.NoError(t, validateConfig(base()))

	cases := map[string]func(*Config){
		"missing port":      func(c *Config) { c.Server.Port = 0 },
		"missing data dir":  func(c *Config) { c.Knowledge.DataDir = " " },
		"missing file name": func(c *Config) { c.Knowledge.FileName = "" },
		"zero min recipes":  func(c *Config) { c.Knowledge.MinRecipes = 0 },
		"zero timeout":      func(c *Config) { c.OpenRouter.Timeout = 0 },
		"bad rate limit": func(c *Config) {
			c.RateLimit = RateLimitConfig{Enabled: true, Requests: 0, Window: time.Minute}
		},
		"bad dedup window": func(c *Config) { c.Dedup = DedupConfig{Enabled: true} },
		"bad cache ttl":    func(c *Config) { c.Cache = CacheConfig{Enabled: true, MaxSize: 10} },
		"bad cache size":   func(c *Config) { c.Cache = CacheConfig{Enabled: true, TTL: time.Minute, CleanupInterval: time.Minute} },
		"zero threshold":   func(c *Config) { c.Breaker.FailureThreshold = 0 },
		"zero workers":     func(c *Config) { c.Queue.Workers = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "sk-t...7890", MaskAPIKey("sk-test-1234567890"))
}
