// Package chat 關鍵字查詢路由與生成服務助理
package chat

import (
	"fmt"
	"strings"

	"recipe-assistant/internal/core/knowledge"
	"recipe-assistant/internal/core/recommend"
)

// Intent 查詢被判定的意圖
type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentRecommend  Intent = "recommend"
	IntentIngredient Intent = "ingredient"
	IntentDishType   Intent = "dish_type"
	IntentEasy       Intent = "easy"
	IntentHelp       Intent = "help"
	IntentUnknown    Intent = "unknown"
)

// QuickMaxMinutes 「快速」推薦的時間上限
const QuickMaxMinutes = 20

// 固定回覆
const (
	MsgGreeting          = "🤖 Bonjour ! Je suis votre assistant culinaire. Comment puis-je vous aider aujourd'hui ?"
	MsgNoQuickRecipe     = "😔 Aucune recette rapide disponible"
	MsgNoRecipe          = "😔 Aucune recette disponible"
	MsgSpecifyIngredient = "Veuillez préciser un ingrédient"
	MsgNoEasyRecipe      = "😔 Aucune recette facile disponible"
	MsgNotUnderstood     = "🤖 Je n'ai pas compris votre demande. Tapez 'aide' pour voir les commandes disponibles."
	MsgHelp              = `🆘 **Commandes disponibles :**
• "Recommande-moi une recette" - Suggestion aléatoire
• "Recommande quelque chose de rapide" - Recette rapide
• "Recettes avec [ingrédient]" - Recherche par ingrédient
• "Montre-moi les desserts" / "les entrées" / "les plats" - Recettes par type
• "Recettes faciles" - Recettes par difficulté`
)

// maxIngredientResults 食材查詢最多列出的食譜數
const maxIngredientResults = 3

// Lookup 路由所需的目錄查詢
type Lookup interface {
	FindByIngredient(substr string) []knowledge.Recipe
	FindByDishType(label string) []knowledge.Recipe
	FindByDifficulty(label string) []knowledge.Recipe
}

// rule 依序比對的路由規則
type rule struct {
	intent  Intent
	match   func(q string) bool
	respond func(r *Router, q string) string
}

// Router 關鍵字查詢路由
type Router struct {
	lookup Lookup
	engine *recommend.Engine
	rules  []rule
}

// NewRouter 建立路由
func NewRouter(lookup Lookup, engine *recommend.Engine) *Router {
	return &Router{
		lookup: lookup,
		engine: engine,
		rules:  defaultRules(),
	}
}

func defaultRules() []rule {
	return []rule{
		{
			intent:  IntentGreeting,
			match:   func(q string) bool { return containsAny(q, "hello", "bonjour", "salut") || hasWord(q, "hi") },
			respond: func(*Router, string) string { return MsgGreeting },
		},
		{
			intent:  IntentRecommend,
			match:   func(q string) bool { return containsAny(q, "recommend", "recommande", "suggest", "suggère", "suggere") },
			respond: (*Router).recommend,
		},
		{
			intent:  IntentIngredient,
			match:   func(q string) bool { return containsAny(q, "ingredient", "ingrédient") },
			respond: (*Router).byIngredient,
		},
		{
			intent:  IntentDishType,
			match:   func(q string) bool { return containsAny(q, "dessert") },
			respond: dishTypeResponder(knowledge.Dessert, "🍰 Desserts disponibles : ", "😔 Aucun dessert disponible"),
		},
		{
			intent:  IntentDishType,
			match:   func(q string) bool { return containsAny(q, "starter", "entrée", "entree") },
			respond: dishTypeResponder(knowledge.Starter, "🥗 Entrées disponibles : ", "😔 Aucune entrée disponible"),
		},
		{
			intent:  IntentDishType,
			match:   func(q string) bool { return containsAny(q, "main course", "plat") },
			respond: dishTypeResponder(knowledge.MainCourse, "🍽️ Plats principaux : ", "😔 Aucun plat principal disponible"),
		},
		{
			intent:  IntentEasy,
			match:   func(q string) bool { return containsAny(q, "easy", "facile") },
			respond: (*Router).easy,
		},
		{
			intent:  IntentHelp,
			match:   func(q string) bool { return containsAny(q, "help", "aide") },
			respond: func(*Router, string) string { return MsgHelp },
		},
	}
}

// Dispatch 回傳第一個符合的意圖與回覆；都不符合時為 IntentUnknown
func (r *Router) Dispatch(text string) (Intent, string) {
	q := strings.ToLower(strings.TrimSpace(text))
	for _, rl := range r.rules {
		if rl.match(q) {
			return rl.intent, rl.respond(r, q)
		}
	}
	return IntentUnknown, MsgNotUnderstood
}

// Reply 只回傳回覆文字
func (r *Router) Reply(text string) string {
	_, reply := r.Dispatch(text)
	return reply
}

func (r *Router) recommend(q string) string {
	if containsAny(q, "quick", "rapide") {
		pick, ok := r.engine.Pick(r.engine.ByTime(QuickMaxMinutes))
		if !ok {
			return MsgNoQuickRecipe
		}
		return fmt.Sprintf("🏃‍♂️ Voici une recette rapide : **%s** (%d min)", pick.Name, pick.PrepMinutes)
	}

	pick, ok := r.engine.Random()
	if !ok {
		return MsgNoRecipe
	}
	return fmt.Sprintf("🎲 Je vous recommande : **%s** (%s, %d min)", pick.Name, pick.DishType.Label(), pick.PrepMinutes)
}

func (r *Router) byIngredient(q string) string {
	words := strings.Fields(q)
	if len(words) < 2 {
		return MsgSpecifyIngredient
	}
	ingredient := words[len(words)-1]

	found := r.lookup.FindByIngredient(ingredient)
	if len(found) == 0 {
		return fmt.Sprintf("😔 Aucune recette trouvée avec %s", ingredient)
	}
	if len(found) > maxIngredientResults {
		found = found[:maxIngredientResults]
	}
	return fmt.Sprintf("🔍 Recettes avec %s : %s", ingredient, joinNames(found))
}

func dishTypeResponder(t knowledge.DishType, prefix, empty string) func(*Router, string) string {
	return func(r *Router, _ string) string {
		found := r.lookup.FindByDishType(string(t))
		if len(found) == 0 {
			return empty
		}
		return prefix + joinNames(r.engine.Shuffle(found))
	}
}

func (r *Router) easy(string) string {
	found := r.lookup.FindByDifficulty(string(knowledge.Easy))
	if len(found) == 0 {
		return MsgNoEasyRecipe
	}
	return "👨‍🍳 Recettes faciles : " + joinNames(found)
}

func joinNames(recipes []knowledge.Recipe) string {
	return strings.Join(knowledge.Names(recipes), ", ")
}

func containsAny(q string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// hasWord 以空白與標點切詞後完全相符
func hasWord(q, word string) bool {
	for _, w := range strings.FieldsFunc(q, isSeparator) {
		if w == word {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r < 0x80
}
