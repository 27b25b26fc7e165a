// Package recommend 依食材、時間與隨機挑選推薦食譜
package recommend

import (
	"math/rand/v2"
	"sort"
	"strings"

	"recipe-assistant/internal/core/knowledge"
)

// Catalog 推薦所需的食譜來源
type Catalog interface {
	Recipes() []knowledge.Recipe
}

// Rand 隨機來源；*rand.Rand 即可滿足
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Engine 推薦引擎，本身不保存目錄
type Engine struct {
	catalog Catalog
	rnd     Rand
}

// Option Engine 選項
type Option func(*Engine)

// WithRand 指定隨機來源（測試用）
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rnd = r
		}
	}
}

// NewEngine 建立推薦引擎
func NewEngine(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: catalog, rnd: globalRand{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scored 食譜與其食材相符比例
type Scored struct {
	Recipe knowledge.Recipe `json:"recipe"`
	Score  float64          `json:"score"`
}

// Score 食材名稱包含任一可用食材（不分大小寫、忽略前後空白）的比例
func Score(r knowledge.Recipe, available []string) float64 {
	return score(r, normalize(available))
}

// score 同 Score，needles 須已正規化
func score(r knowledge.Recipe, needles []string) float64 {
	if len(r.Ingredients) == 0 || len(needles) == 0 {
		return 0
	}
	matched := 0
	for _, ing := range r.Ingredients {
		name := strings.ToLower(ing.Name)
		for _, n := range needles {
			if strings.Contains(name, n) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(r.Ingredients))
}

// ScoreByIngredients 依相符比例由高到低排序，比例為 0 的食譜不列入；同分保留目錄順序
func (e *Engine) ScoreByIngredients(available []string) []Scored {
	needles := normalize(available)
	if len(needles) == 0 {
		return nil
	}

	var out []Scored
	for _, r := range e.catalog.Recipes() {
		if s := score(r, needles); s > 0 {
			out = append(out, Scored{Recipe: r, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// ByIngredients 同 ScoreByIngredients，只回傳食譜
func (e *Engine) ByIngredients(available []string) []knowledge.Recipe {
	scored := e.ScoreByIngredients(available)
	out := make([]knowledge.Recipe, len(scored))
	for i, s := range scored {
		out[i] = s.Recipe
	}
	return out
}

// ByTime 準備時間不超過 maxMinutes 的食譜，保留目錄順序
func (e *Engine) ByTime(maxMinutes int) []knowledge.Recipe {
	var out []knowledge.Recipe
	for _, r := range e.catalog.Recipes() {
		if r.PrepMinutes <= maxMinutes {
			out = append(out, r)
		}
	}
	return out
}

// Random 從整個目錄隨機挑一道；目錄為空時回傳 false
func (e *Engine) Random() (knowledge.Recipe, bool) {
	return e.Pick(e.catalog.Recipes())
}

// Pick 從 list 隨機挑一道
func (e *Engine) Pick(list []knowledge.Recipe) (knowledge.Recipe, bool) {
	if len(list) == 0 {
		return knowledge.Recipe{}, false
	}
	return list[e.rnd.IntN(len(list))], true
}

// Shuffle 就地打亂順序並回傳 list
func (e *Engine) Shuffle(list []knowledge.Recipe) []knowledge.Recipe {
	e.rnd.Shuffle(len(list), func(i, j int) {
		list[i], list[j] = list[j], list[i]
	})
	return list
}

func normalize(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.ToLower(strings.TrimSpace(it)); it != "" {
			out = append(out, it)
		}
	}
	return out
}
