package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"recipe-assistant/internal/pkg/common"
)

// ingredientRecord 文件中的食材紀錄，指標欄位用來偵測缺漏
type ingredientRecord struct {
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
}

// recipeRecord 文件中的食譜紀錄
type recipeRecord struct {
	Name         *string             `json:"name"`
	Ingredients  *[]ingredientRecord `json:"ingredients"`
	Instructions *[]string           `json:"instructions"`
	PrepMinutes  *int                `json:"prep_minutes"`
	Difficulty   *Difficulty         `json:"difficulty"`
	DishType     *DishType           `json:"dish_type"`
}

func toRecord(r Recipe) recipeRecord {
	ings := make([]ingredientRecord, len(r.Ingredients))
	for i := range r.Ingredients {
		ing := r.Ingredients[i]
		ings[i] = ingredientRecord{Name: &ing.Name, Quantity: &ing.Quantity, Unit: &ing.Unit}
	}
	name := r.Name
	steps := append([]string{}, r.Instructions...)
	prep := r.PrepMinutes
	diff := r.Difficulty
	dish := r.DishType
	return recipeRecord{
		Name:         &name,
		Ingredients:  &ings,
		Instructions: &steps,
		PrepMinutes:  &prep,
		Difficulty:   &diff,
		DishType:     &dish,
	}
}

func fromRecord(rec recipeRecord) (Recipe, error) {
	switch {
	case rec.Name == nil:
		return Recipe{}, errors.New("missing field name")
	case rec.Ingredients == nil:
		return Recipe{}, fmt.Errorf("recipe %q: missing field ingredients", *rec.Name)
	case rec.Instructions == nil:
		return Recipe{}, fmt.Errorf("recipe %q: missing field instructions", *rec.Name)
	case rec.PrepMinutes == nil:
		return Recipe{}, fmt.Errorf("recipe %q: missing field prep_minutes", *rec.Name)
	case rec.Difficulty == nil:
		return Recipe{}, fmt.Errorf("recipe %q: missing field difficulty", *rec.Name)
	case rec.DishType == nil:
		return Recipe{}, fmt.Errorf("recipe %q: missing field dish_type", *rec.Name)
	}

	ings := make([]Ingredient, 0, len(*rec.Ingredients))
	for i, ir := range *rec.Ingredients {
		if ir.Name == nil || ir.Quantity == nil || ir.Unit == nil {
			return Recipe{}, fmt.Errorf("recipe %q: ingredient %d is incomplete", *rec.Name, i)
		}
		ings = append(ings, Ingredient{Name: *ir.Name, Quantity: *ir.Quantity, Unit: *ir.Unit})
	}

	return Recipe{
		Name:         *rec.Name,
		Ingredients:  ings,
		Instructions: append([]string{}, (*rec.Instructions)...),
		PrepMinutes:  *rec.PrepMinutes,
		Difficulty:   *rec.Difficulty,
		DishType:     *rec.DishType,
	}, nil
}

// MarshalRecipes 編碼為文件格式（JSON 陣列，縮排兩格）
func MarshalRecipes(recipes []Recipe) ([]byte, error) {
	records := make([]recipeRecord, len(recipes))
	for i, r := range recipes {
		records[i] = toRecord(r)
	}
	return common.ToIndentedJSON(records)
}

// UnmarshalRecipes 解碼文件內容；任何一筆紀錄無效即整份視為失敗
func UnmarshalRecipes(data []byte) ([]Recipe, error) {
	var records []recipeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	recipes := make([]Recipe, 0, len(records))
	for _, rec := range records {
		r, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

// Document 知識庫的 JSON 文件
type Document struct {
	path string
}

// OpenDocument 確保目錄存在；文件不存在時建立為 "[]"
func OpenDocument(dir, name string) (*Document, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	d := &Document{path: filepath.Join(dir, name)}

	if _, err := os.Stat(d.path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(d.path, []byte("[]\n"), 0644); err != nil {
			return nil, fmt.Errorf("create %s: %w", d.path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", d.path, err)
	}
	return d, nil
}

// Path 文件路徑
func (d *Document) Path() string {
	return d.path
}

// Read 讀取並解碼整份文件
func (d *Document) Read() ([]Recipe, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}
	return UnmarshalRecipes(data)
}

// Write 以暫存檔 + rename 覆寫整份文件
func (d *Document) Write(recipes []Recipe) error {
	data, err := MarshalRecipes(recipes)
	if err != nil {
		return fmt.Errorf("encode recipes: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), ".recipes-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing recipes: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
