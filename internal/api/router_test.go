package api

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/api/handlers"
	"recipe-assistant/internal/api/handlers/health"
	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/chat"
	"recipe-assistant/internal/core/knowledge"
	"recipe-assistant/internal/core/recommend"
	"recipe-assistant/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type echoGenerator struct{}

func (echoGenerator) Answer(_ context.Context, query, contextBlock string) (string, error) {
	return "réponse: " + query + " / " + strings.SplitN(contextBlock, "\n", 2)[0], nil
}

func (echoGenerator) Suggest(_ context.Context, ingredients []string, preferences string) (string, error) {
	return "suggestion: " + strings.Join(ingredients, "+") + " " + preferences, nil
}

func (echoGenerator) Model() string        { return "test/model" }
func (echoGenerator) BreakerState() string { return "closed" }

func testConfig() *config.Config {
	return &config.Config{
		App:        config.AppConfig{Version: "test", Debug: true},
		Server:     config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		OpenRouter: config.OpenRouterConfig{Timeout: time.Second},
	}
}

type testServer struct {
	router *gin.Engine
	doc    *knowledge.Document
}

func newTestServer(t *testing.T, cfg *config.Config, gen chat.Generator) *testServer {
	t.Helper()
	doc, err := knowledge.OpenDocument(t.TempDir(), "recipes.json")
	require.NoError(t, err)
	store, err := knowledge.NewStore(doc)
	require.NoError(t, err)

	r, err := SetupRouter(cfg, Dependencies{
		Store:     store,
		Generator: gen,
		Rand:      rand.New(rand.NewPCG(3, 4)),
	})
	require.NoError(t, err)
	return &testServer{router: r, doc: doc}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestSetupRouterRequiresStore(t *testing.T) {
	_, err := SetupRouter(testConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestListAndFilterRecipes(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	rec := s.do(http.MethodGet, "/api/v1/recipes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]knowledge.Recipe](t, rec), 9)

	rec = s.do(http.MethodGet, "/api/v1/recipes/type/"+url.PathEscape("Entrée"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Salade César", "Soupe de Tomates"}, knowledge.Names(decode[[]knowledge.Recipe](t, rec)))

	rec = s.do(http.MethodGet, "/api/v1/recipes/difficulty/hard", "")
	assert.Equal(t, []string{"Bœuf Bourguignon"}, knowledge.Names(decode[[]knowledge.Recipe](t, rec)))

	rec = s.do(http.MethodGet, "/api/v1/recipes/type/snack", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/recipes/search?ingredient=PARMESAN", "")
	assert.Equal(t, []string{"Pasta Carbonara", "Salade César"}, knowledge.Names(decode[[]knowledge.Recipe](t, rec)))

	rec = s.do(http.MethodGet, "/api/v1/recipes/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/recipes/Tiramisu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, decode[knowledge.Recipe](t, rec).PrepMinutes)

	rec = s.do(http.MethodGet, "/api/v1/recipes/Inconnue", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddAndRemoveRecipe(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	body := `{
		"name": "Crêpes",
		"ingredients": [{"name": "farine", "quantity": 250, "unit": "g"}],
		"instructions": ["Mélanger", "Cuire"],
		"prep_minutes": 20,
		"difficulty": "facile",
		"dish_type": "Dessert"
	}`
	rec := s.do(http.MethodPost, "/api/v1/recipes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, knowledge.Easy, decode[knowledge.Recipe](t, rec).Difficulty)

	persisted, err := s.doc.Read()
	require.NoError(t, err)
	assert.Len(t, persisted, 10)

	rec = s.do(http.MethodDelete, "/api/v1/recipes/"+url.PathEscape("Crêpes"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]interface{}](t, rec)
	assert.Equal(t, float64(1), resp["removed"])
	assert.Equal(t, float64(9), resp["total"])

	rec = s.do(http.MethodDelete, "/api/v1/recipes/"+url.PathEscape("Crêpes"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddRejectsInvalidRecipes(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	tests := map[string]string{
		"no ingredients": `{"name":"A","ingredients":[],"instructions":["x"],"prep_minutes":5,"difficulty":"Easy","dish_type":"Dessert"}`,
		"zero prep":      `{"name":"A","ingredients":[{"name":"x","quantity":1,"unit":"g"}],"instructions":["x"],"prep_minutes":0,"difficulty":"Easy","dish_type":"Dessert"}`,
		"unknown label":  `{"name":"A","ingredients":[{"name":"x","quantity":1,"unit":"g"}],"instructions":["x"],"prep_minutes":5,"difficulty":"Extreme","dish_type":"Dessert"}`,
		"malformed json": `{"name":`,
		"blank name":     `{"name":" ","ingredients":[{"name":"x","quantity":1,"unit":"g"}],"instructions":["x"],"prep_minutes":5,"difficulty":"Easy","dish_type":"Dessert"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/v1/recipes", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	persisted, err := s.doc.Read()
	require.NoError(t, err)
	assert.Len(t, persisted, 9)
}

func TestResetRecipes(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/recipes/Tiramisu", "").Code)

	rec := s.do(http.MethodPost, "/api/v1/recipes/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]knowledge.Recipe](t, rec), 9)
}

func TestRecommendations(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	rec := s.do(http.MethodGet, "/api/v1/recommendations/ingredients?items=tomate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	scored := decode[[]recommend.Scored](t, rec)
	require.Len(t, scored, 2)
	assert.Equal(t, "Soupe de Tomates", scored[0].Recipe.Name)
	assert.InDelta(t, 0.25, scored[0].Score, 1e-9)

	rec = s.do(http.MethodGet, "/api/v1/recommendations/ingredients", "")
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/recommendations/time", "")
	assert.Equal(t,
		[]string{"Pasta Carbonara", "Salade César", "Mousse au Chocolat", "Tarte aux Pommes"},
		knowledge.Names(decode[[]knowledge.Recipe](t, rec)))

	rec = s.do(http.MethodGet, "/api/v1/recommendations/time?max=15", "")
	assert.Equal(t, []string{"Salade César", "Tarte aux Pommes"}, knowledge.Names(decode[[]knowledge.Recipe](t, rec)))

	rec = s.do(http.MethodGet, "/api/v1/recommendations/time?max=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/recommendations/random", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[knowledge.Recipe](t, rec).Name)
}

func TestStats(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	rec := s.do(http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[knowledge.Stats](t, rec)
	assert.Equal(t, 9, st.Total)
	assert.Equal(t, 3, st.ByDishType[knowledge.Dessert])
	assert.Equal(t, "Salade César", st.Quickest)
}

func TestQuery(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	rec := s.do(http.MethodPost, "/api/v1/query", `{"message":"recommande quelque chose de rapide"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handlers.QueryResponse](t, rec)
	assert.Equal(t, chat.IntentRecommend, resp.Intent)
	assert.Contains(t, resp.Response, "Voici une recette rapide")

	rec = s.do(http.MethodPost, "/api/v1/query", `{"message":"xyz"}`)
	resp = decode[handlers.QueryResponse](t, rec)
	assert.Equal(t, chat.IntentUnknown, resp.Intent)
	assert.Equal(t, chat.MsgNotUnderstood, resp.Response)

	rec = s.do(http.MethodPost, "/api/v1/query", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatWithGenerator(t *testing.T) {
	s := newTestServer(t, testConfig(), echoGenerator{})

	rec := s.do(http.MethodPost, "/api/v1/chat", `{"message":"Un dessert ?","ingredients":["pommes","sucre"],"context":"rapide"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handlers.ChatResponse](t, rec)
	assert.Equal(t, "réponse: Un dessert ? / - Pasta Carbonara (Plat principal, Facile, 20min)", resp.Response)
	assert.Equal(t, "suggestion: pommes+sucre rapide", resp.Suggestion)
}

func TestChatWithoutGenerator(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	rec := s.do(http.MethodPost, "/api/v1/chat", `{"message":"Un dessert ?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handlers.ChatResponse](t, rec)
	assert.Equal(t, chat.MsgGeneratorUnavailable, resp.Response)
	assert.Equal(t, chat.MsgGeneratorUnavailable, resp.Suggestion)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	rec := s.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	h := decode[health.HealthResponse](t, rec)
	assert.Equal(t, "degraded", h.Status)
	assert.Equal(t, 9, h.Recipes)
	assert.False(t, h.Generator.Enabled)

	s = newTestServer(t, testConfig(), echoGenerator{})
	h = decode[health.HealthResponse](t, s.do(http.MethodGet, "/health", ""))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "test/model", h.Generator.Model)
	assert.Nil(t, h.Generator.Queue)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/live", "").Code)

	rec = s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recipe_catalog_size")
}

func TestDedupAndRateLimitWiring(t *testing.T) {
	cfg := testConfig()
	cfg.Dedup = config.DedupConfig{Enabled: true, Window: time.Minute}
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 3, Window: time.Minute}
	s := newTestServer(t, cfg, nil)

	body := `{"message":"aide"}`
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/query", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/v1/query", body).Code)

	// 第三次請求用完配額，第四次被限流
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/stats", "").Code)
	rec := s.do(http.MethodGet, "/api/v1/stats", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// 健康檢查不受限流影響
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/live", "").Code)
}

type countingGenerator struct {
	echoGenerator
	answers int
}

func (g *countingGenerator) Answer(ctx context.Context, query, contextBlock string) (string, error) {
	g.answers++
	return g.echoGenerator.Answer(ctx, query, contextBlock)
}

func TestAnswerCacheWiring(t *testing.T) {
	doc, err := knowledge.OpenDocument(t.TempDir(), "recipes.json")
	require.NoError(t, err)
	store, err := knowledge.NewStore(doc)
	require.NoError(t, err)

	answers := cache.NewManager(config.CacheConfig{
		Enabled:         true,
		TTL:             time.Minute,
		MaxSize:         10,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(func() { _ = answers.Close() })

	gen := &countingGenerator{}
	r, err := SetupRouter(testConfig(), Dependencies{Store: store, Generator: gen, Cache: answers})
	require.NoError(t, err)
	s := &testServer{router: r, doc: doc}

	body := `{"message":"Un dessert ?"}`
	first := decode[handlers.ChatResponse](t, s.do(http.MethodPost, "/api/v1/chat", body))
	second := decode[handlers.ChatResponse](t, s.do(http.MethodPost, "/api/v1/chat", body))
	assert.Equal(t, first.Response, second.Response)
	assert.Equal(t, 1, gen.answers)

	// 目錄變動後快取鍵不同
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/recipes/Tiramisu", "").Code)
	_ = s.do(http.MethodPost, "/api/v1/chat", body)
	assert.Equal(t, 2, gen.answers)
}
