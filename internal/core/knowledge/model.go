// Package knowledge 食譜知識庫：資料模型、JSON 文件持久化與查詢
package knowledge

import (
	"fmt"
	"strings"
)

// Ingredient 食材（名稱、數量、單位）
type Ingredient struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
}

// String 例如 "300 g de pâtes"
func (i Ingredient) String() string {
	return fmt.Sprintf("%g %s de %s", i.Quantity, i.Unit, i.Name)
}

// Recipe 食譜
type Recipe struct {
	Name         string       `json:"name" validate:"required"`
	Ingredients  []Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []string     `json:"instructions" validate:"required,min=1,dive,required"`
	PrepMinutes  int          `json:"prep_minutes" validate:"gt=0"`
	Difficulty   Difficulty   `json:"difficulty" validate:"required,difficulty"`
	DishType     DishType     `json:"dish_type" validate:"required,dishtype"`
}

// HasIngredient 食材名稱是否包含 substr（不分大小寫）
func (r Recipe) HasIngredient(substr string) bool {
	needle := strings.ToLower(substr)
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), needle) {
			return true
		}
	}
	return false
}

// Summary 單行摘要，用於生成服務的上下文
func (r Recipe) Summary() string {
	return fmt.Sprintf("%s (%s, %s, %dmin)", r.Name, r.DishType.Label(), r.Difficulty.Label(), r.PrepMinutes)
}

// Names 取出食譜名稱
func Names(recipes []Recipe) []string {
	names := make([]string, len(recipes))
	for i, r := range recipes {
		names[i] = r.Name
	}
	return names
}

// clone 深拷貝，避免呼叫端修改目錄內容
func (r Recipe) clone() Recipe {
	c := r
	c.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	return c
}

func cloneAll(recipes []Recipe) []Recipe {
	out := make([]Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.clone()
	}
	return out
}
