package knowledge

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recipe-assistant/internal/pkg/common"
)

// DefaultMinRecipes 低於此數量視為目錄不完整，重設為預設食譜
const DefaultMinRecipes = 8

// Persister 知識庫的持久化後端
type Persister interface {
	Read() ([]Recipe, error)
	Write(recipes []Recipe) error
}

// Store 食譜知識庫
//
// Store 本身不加鎖；同時有多個寫入者時，由呼叫端負責序列化。
type Store struct {
	doc        Persister
	minRecipes int
	recipes    []Recipe
	onReset    func()
}

// Option Store 選項
type Option func(*Store)

// WithMinRecipes 設定最少食譜數
func WithMinRecipes(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.minRecipes = n
		}
	}
}

// WithResetHook 每次重設為預設目錄時呼叫
func WithResetHook(fn func()) Option {
	return func(s *Store) {
		s.onReset = fn
	}
}

// NewStore 建立知識庫並立即載入目錄
func NewStore(doc Persister, opts ...Option) (*Store, error) {
	s := &Store{
		doc:        doc,
		minRecipes: DefaultMinRecipes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load 從文件重新載入；讀取失敗或數量不足時改用預設目錄並寫回
func (s *Store) Load() ([]Recipe, error) {
	recipes, err := s.doc.Read()
	if err != nil {
		common.LogWarn("讀取食譜文件失敗，改用預設食譜", zap.Error(err))
		return s.resetDefaults()
	}
	if len(recipes) < s.minRecipes {
		common.LogInfo("食譜數量不足，改用預設食譜",
			zap.Int("found", len(recipes)),
			zap.Int("min_recipes", s.minRecipes),
		)
		return s.resetDefaults()
	}

	s.recipes = recipes
	common.LogInfo("食譜已載入", zap.Int("count", len(recipes)))
	return cloneAll(s.recipes), nil
}

// resetDefaults 目錄設為預設食譜並寫回；寫入失敗時記憶體內仍保留預設食譜
func (s *Store) resetDefaults() ([]Recipe, error) {
	s.recipes = DefaultRecipes()
	if s.onReset != nil {
		s.onReset()
	}
	if err := s.doc.Write(s.recipes); err != nil {
		return cloneAll(s.recipes), fmt.Errorf("persist default recipes: %w", err)
	}
	common.LogInfo("預設食譜已寫入", zap.Int("count", len(s.recipes)))
	return cloneAll(s.recipes), nil
}

// Reset 明確重設為預設目錄
func (s *Store) Reset() error {
	_, err := s.resetDefaults()
	return err
}

// Add 新增食譜並寫回整份目錄，不去重
func (s *Store) Add(r Recipe) error {
	s.recipes = append(s.recipes, r.clone())
	common.LogInfo("新增食譜",
		zap.String("name", r.Name),
		zap.Int("total", len(s.recipes)),
	)
	return s.Save()
}

// Remove 刪除所有同名食譜（區分大小寫），回傳刪除數量；目錄清空時重設為預設食譜
func (s *Store) Remove(name string) (int, error) {
	kept := s.recipes[:0:0]
	for _, r := range s.recipes {
		if r.Name != name {
			kept = append(kept, r)
		}
	}
	removed := len(s.recipes) - len(kept)
	s.recipes = kept

	common.LogInfo("刪除食譜",
		zap.String("name", name),
		zap.Int("removed", removed),
		zap.Int("total", len(s.recipes)),
	)

	if err := s.Save(); err != nil {
		return removed, err
	}
	if len(s.recipes) == 0 {
		common.LogInfo("目錄已清空，重設為預設食譜")
		if _, err := s.resetDefaults(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Save 寫回目前的目錄
func (s *Store) Save() error {
	if err := s.doc.Write(s.recipes); err != nil {
		return fmt.Errorf("save recipes: %w", err)
	}
	return nil
}

// Recipes 目前目錄的副本
func (s *Store) Recipes() []Recipe {
	return cloneAll(s.recipes)
}

// Len 目錄中的食譜數
func (s *Store) Len() int {
	return len(s.recipes)
}

// FindByName 依名稱查找，重複名稱時回傳第一筆
func (s *Store) FindByName(name string) (Recipe, bool) {
	for _, r := range s.recipes {
		if r.Name == name {
			return r.clone(), true
		}
	}
	return Recipe{}, false
}

// FindByIngredient 食材名稱包含 substr（不分大小寫）的食譜，每道最多出現一次
func (s *Store) FindByIngredient(substr string) []Recipe {
	var out []Recipe
	for _, r := range s.recipes {
		if r.HasIngredient(substr) {
			out = append(out, r.clone())
		}
	}
	return out
}

// FindByDishType 菜品類型完全相符（不分大小寫）
func (s *Store) FindByDishType(label string) []Recipe {
	var out []Recipe
	for _, r := range s.recipes {
		if matchesLabel(string(r.DishType), label, canonicalDishType) {
			out = append(out, r.clone())
		}
	}
	return out
}

// FindByDifficulty 難度完全相符（不分大小寫）
func (s *Store) FindByDifficulty(label string) []Recipe {
	var out []Recipe
	for _, r := range s.recipes {
		if matchesLabel(string(r.Difficulty), label, canonicalDifficulty) {
			out = append(out, r.clone())
		}
	}
	return out
}

// Stats 目錄統計
type Stats struct {
	Total          int                `json:"total"`
	ByDishType     map[DishType]int   `json:"by_dish_type"`
	ByDifficulty   map[Difficulty]int `json:"by_difficulty"`
	AvgPrepMinutes float64            `json:"avg_prep_minutes"`
	Quickest       string             `json:"quickest,omitempty"`
}

// Stats 依菜品類型、難度統計，並計算平均準備時間
func (s *Store) Stats() Stats {
	st := Stats{
		Total:        len(s.recipes),
		ByDishType:   make(map[DishType]int, len(DishTypes)),
		ByDifficulty: make(map[Difficulty]int, len(Difficulties)),
	}
	if len(s.recipes) == 0 {
		return st
	}

	total, quickest := 0, -1
	for i, r := range s.recipes {
		st.ByDishType[r.DishType]++
		st.ByDifficulty[r.Difficulty]++
		total += r.PrepMinutes
		if quickest < 0 || r.PrepMinutes < s.recipes[quickest].PrepMinutes {
			quickest = i
		}
	}
	st.AvgPrepMinutes = float64(total) / float64(len(s.recipes))
	st.Quickest = s.recipes[quickest].Name
	return st
}

// ContextBlock 每道食譜一行的摘要，提供給生成服務
func (s *Store) ContextBlock() string {
	var sb strings.Builder
	for _, r := range s.recipes {
		sb.WriteString("- ")
		sb.WriteString(r.Summary())
		sb.WriteString("\n")
	}
	return sb.String()
}
