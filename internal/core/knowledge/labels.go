package knowledge

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Difficulty 難度
type Difficulty string

const (
	VeryEasy Difficulty = "VeryEasy"
	Easy     Difficulty = "Easy"
	Medium   Difficulty = "Medium"
	Hard     Difficulty = "Hard"
)

// DishType 菜品類型
type DishType string

const (
	Starter    DishType = "Starter"
	MainCourse DishType = "MainCourse"
	Dessert    DishType = "Dessert"
)

// Difficulties 全部難度，依序由易到難
var Difficulties = []Difficulty{VeryEasy, Easy, Medium, Hard}

// DishTypes 全部菜品類型
var DishTypes = []DishType{Starter, MainCourse, Dessert}

var difficultyAliases = map[string]Difficulty{
	"veryeasy":    VeryEasy,
	"very easy":   VeryEasy,
	"très facile": VeryEasy,
	"tres facile": VeryEasy,
	"easy":        Easy,
	"facile":      Easy,
	"medium":      Medium,
	"moyen":       Medium,
	"hard":        Hard,
	"difficile":   Hard,
}

var dishTypeAliases = map[string]DishType{
	"starter":        Starter,
	"entrée":         Starter,
	"entree":         Starter,
	"maincourse":     MainCourse,
	"main course":    MainCourse,
	"plat principal": MainCourse,
	"dessert":        Dessert,
}

var difficultyLabels = map[Difficulty]string{
	VeryEasy: "Très facile",
	Easy:     "Facile",
	Medium:   "Moyen",
	Hard:     "Difficile",
}

var dishTypeLabels = map[DishType]string{
	Starter:    "Entrée",
	MainCourse: "Plat principal",
	Dessert:    "Dessert",
}

// ParseDifficulty 不分大小寫解析難度，支援法文標籤
func ParseDifficulty(s string) (Difficulty, error) {
	if d, ok := difficultyAliases[normalizeLabel(s)]; ok {
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// ParseDishType 不分大小寫解析菜品類型，支援法文標籤
func ParseDishType(s string) (DishType, error) {
	if t, ok := dishTypeAliases[normalizeLabel(s)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown dish type %q", s)
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Valid 是否為已知難度
func (d Difficulty) Valid() bool {
	_, ok := difficultyLabels[d]
	return ok
}

// Label 法文顯示名稱
func (d Difficulty) Label() string {
	if l, ok := difficultyLabels[d]; ok {
		return l
	}
	return string(d)
}

// UnmarshalJSON 接受別名，儲存為標準名稱
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Valid 是否為已知菜品類型
func (t DishType) Valid() bool {
	_, ok := dishTypeLabels[t]
	return ok
}

// Label 法文顯示名稱
func (t DishType) Label() string {
	if l, ok := dishTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// UnmarshalJSON 接受別名，儲存為標準名稱
func (t *DishType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDishType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// matchesLabel 不分大小寫比對；可解析的別名先轉為標準名稱
func matchesLabel(value, query string, parse func(string) (string, bool)) bool {
	if canonical, ok := parse(query); ok {
		query = canonical
	}
	return strings.EqualFold(value, strings.TrimSpace(query))
}

func canonicalDifficulty(s string) (string, bool) {
	d, err := ParseDifficulty(s)
	return string(d), err == nil
}

func canonicalDishType(s string) (string, bool) {
	t, err := ParseDishType(s)
	return string(t), err == nil
}
