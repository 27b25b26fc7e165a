// Package main 食譜助理的命令列介面：對話、問答與目錄維護
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/openrouter"
	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/core/chat"
	"recipe-assistant/internal/core/knowledge"
	"recipe-assistant/internal/core/recommend"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

// version 由 -ldflags "-X main.version=..." 覆寫
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cli{newGenerator: openrouterGenerator}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli 命令共用的狀態，在 PersistentPreRunE 中初始化
type cli struct {
	dataDir string
	verbose bool

	cfg    *config.Config
	store  *knowledge.Store
	engine *recommend.Engine

	// newGenerator 依設定建立生成服務；回傳 nil 表示未設定
	newGenerator func(cfg *config.Config) (chat.Generator, func() error)
	rnd          recommend.Rand
	closers      []func() error
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "chef",
		Short: "Assistant culinaire en ligne de commande",
		Long: `chef interroge le catalogue de recettes local : recherche par mot-clé,
recommandations, questions libres au service de génération et gestion du catalogue.

Le catalogue est lu depuis KNOWLEDGE_DATA_DIR/KNOWLEDGE_FILE_NAME (data/recipes.json par défaut).`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.init,
		PersistentPostRunE: c.close,
	}

	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "catalog directory (overrides KNOWLEDGE_DATA_DIR)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "write logs to console and log dir")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newChatCmd(c))
	root.AddCommand(newAskCmd(c))
	root.AddCommand(newRecipesCmd(c))
	root.AddCommand(newRecommendCmd(c))
	root.AddCommand(newStatsCmd(c))
	return root
}

// init 載入設定並開啟目錄
func (c *cli) init(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.dataDir != "" {
		cfg.Knowledge.DataDir = c.dataDir
	}

	if c.verbose {
		if err := common.InitLogger(cfg.Log.Level, cfg.Log.Dir); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		c.closers = append(c.closers, func() error {
			common.Sync()
			return nil
		})
	}

	doc, err := knowledge.OpenDocument(cfg.Knowledge.DataDir, cfg.Knowledge.FileName)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	store, err := knowledge.NewStore(doc, knowledge.WithMinRecipes(cfg.Knowledge.MinRecipes))
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var opts []recommend.Option
	if c.rnd != nil {
		opts = append(opts, recommend.WithRand(c.rnd))
	}

	c.cfg = cfg
	c.store = store
	c.engine = recommend.NewEngine(store, opts...)

	common.LogDebug("目錄已載入",
		zap.String("path", doc.Path()),
		zap.Int("recipes", store.Len()),
	)
	return nil
}

// close 依反序釋放資源
func (c *cli) close(*cobra.Command, []string) error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// router 關鍵字查詢路由
func (c *cli) router() *chat.Router {
	return chat.NewRouter(c.store, c.engine)
}

// assistant 生成服務助理；未設定金鑰時回覆固定的不可用訊息
func (c *cli) assistant() *chat.Assistant {
	var gen chat.Generator
	if c.newGenerator != nil {
		g, closeFn := c.newGenerator(c.cfg)
		if closeFn != nil {
			c.closers = append(c.closers, closeFn)
		}
		gen = g
	}
	if gen == nil {
		common.LogWarn("OPENROUTER_API_KEY 未設定，生成服務停用")
	}
	opts := []chat.AssistantOption{chat.WithTimeout(c.cfg.OpenRouter.Timeout)}
	if c.cfg.Cache.Enabled {
		mem := cache.NewManager(c.cfg.Cache)
		c.closers = append(c.closers, mem.Close)
		opts = append(opts, chat.WithCache(mem))
	}
	return chat.NewAssistant(c.store, gen, opts...)
}

func openrouterGenerator(cfg *config.Config) (chat.Generator, func() error) {
	if !cfg.OpenRouter.Enabled() {
		return nil, nil
	}
	q := queue.NewManager(cfg.Queue)
	client := openrouter.NewClient(cfg.OpenRouter, cfg.Breaker, openrouter.WithQueue(q))
	return client, func() error {
		q.Close()
		return client.Close()
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chef %s\n", version)
		},
	}
}
