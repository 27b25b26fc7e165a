package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := OpenDocument(t.TempDir(), "recipes.json")
	require.NoError(t, err)
	return doc
}

func sampleRecipe(name string) Recipe {
	return Recipe{
		Name:         name,
		Ingredients:  []Ingredient{{Name: "farine", Quantity: 250, Unit: "g"}},
		Instructions: []string{"Mélanger", "Cuire"},
		PrepMinutes:  10,
		Difficulty:   Easy,
		DishType:     Dessert,
	}
}

func sampleRecipes(n int) []Recipe {
	out := make([]Recipe, n)
	for i := range out {
		out[i] = sampleRecipe(string(rune('A' + i)))
	}
	return out
}

func TestLoadEmptyDocumentResetsToDefaults(t *testing.T) {
	doc := openTestDocument(t)

	store, err := NewStore(doc)
	require.NoError(t, err)
	assert.Equal(t, 9, store.Len())

	persisted, err := doc.Read()
	require.NoError(t, err)
	assert.Equal(t, DefaultRecipes(), persisted)
}

func TestLoadUnderPopulatedDocumentResetsToDefaults(t *testing.T) {
	doc := openTestDocument(t)
	require.NoError(t, doc.Write(sampleRecipes(7)))

	resets := 0
	store, err := NewStore(doc, WithResetHook(func() { resets++ }))
	require.NoError(t, err)

	assert.Equal(t, DefaultRecipes(), store.Recipes())
	assert.Equal(t, 1, resets)

	persisted, err := doc.Read()
	require.NoError(t, err)
	assert.Len(t, persisted, 9)
	assert.Equal(t, Names(DefaultRecipes()), Names(persisted))
}

func TestLoadKeepsWellFormedDocument(t *testing.T) {
	doc := openTestDocument(t)
	recipes := sampleRecipes(8)
	require.NoError(t, doc.Write(recipes))

	store, err := NewStore(doc)
	require.NoError(t, err)
	assert.Equal(t, recipes, store.Recipes())
}

func TestLoadCorruptDocumentResetsToDefaults(t *testing.T) {
	doc := openTestDocument(t)
	require.NoError(t, os.WriteFile(doc.Path(), []byte("{not json"), 0644))

	store, err := NewStore(doc)
	require.NoError(t, err)
	assert.Equal(t, 9, store.Len())
}

func TestLoadRecordMissingFieldResetsToDefaults(t *testing.T) {
	doc := openTestDocument(t)
	data, err := MarshalRecipes(sampleRecipes(8))
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	delete(raw[3], "prep_minutes")
	data, err = json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(doc.Path(), data, 0644))

	store, err := NewStore(doc)
	require.NoError(t, err)
	assert.Equal(t, Names(DefaultRecipes()), Names(store.Recipes()))
}

func TestMinRecipesOption(t *testing.T) {
	doc := openTestDocument(t)
	recipes := sampleRecipes(3)
	require.NoError(t, doc.Write(recipes))

	store, err := NewStore(doc, WithMinRecipes(2))
	require.NoError(t, err)
	assert.Equal(t, recipes, store.Recipes())
}

func TestAddPersistsWithoutDedup(t *testing.T) {
	doc := openTestDocument(t)
	store, err := NewStore(doc)
	require.NoError(t, err)

	require.NoError(t, store.Add(sampleRecipe("Crêpes")))
	require.NoError(t, store.Add(sampleRecipe("Crêpes")))
	assert.Equal(t, 11, store.Len())

	persisted, err := doc.Read()
	require.NoError(t, err)
	assert.Len(t, persisted, 11)
	assert.Equal(t, "Crêpes", persisted[10].Name)
}

func TestRemoveAllMatches(t *testing.T) {
	doc := openTestDocument(t)
	store, err := NewStore(doc)
	require.NoError(t, err)
	require.NoError(t, store.Add(sampleRecipe("Tiramisu")))

	removed, err := store.Remove("Tiramisu")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 8, store.Len())

	_, found := store.FindByName("Tiramisu")
	assert.False(t, found)

	removed, err = store.Remove("tiramisu")
	require.NoError(t, err)
	assert.Zero(t, removed)

	persisted, err := doc.Read()
	require.NoError(t, err)
	assert.Len(t, persisted, 8)
}

func TestRemoveLastRecipeResetsToDefaults(t *testing.T) {
	doc := openTestDocument(t)
	require.NoError(t, doc.Write([]Recipe{sampleRecipe("Seule")}))

	store, err := NewStore(doc, WithMinRecipes(1))
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	removed, err := store.Remove("Seule")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 9, store.Len())

	persisted, err := doc.Read()
	require.NoError(t, err)
	assert.Equal(t, DefaultRecipes(), persisted)
}

type failingPersister struct {
	recipes []Recipe
	readErr error
}

func (f *failingPersister) Read() ([]Recipe, error) { return f.recipes, f.readErr }
func (f *failingPersister) Write([]Recipe) error    { return errors.New("disk full") }

func TestWriteFailuresAreReturned(t *testing.T) {
	_, err := NewStore(&failingPersister{readErr: errors.New("missing")})
	assert.ErrorContains(t, err, "disk full")

	store := &Store{doc: &failingPersister{}, minRecipes: 1, recipes: DefaultRecipes()}
	assert.Error(t, store.Add(sampleRecipe("X")))
	assert.Error(t, store.Save())
	_, err = store.Remove("X")
	assert.Error(t, err)
}

func TestFindByIngredientIsCaseInsensitiveAndUnique(t *testing.T) {
	store, err := NewStore(openTestDocument(t))
	require.NoError(t, err)

	found := store.FindByIngredient("PARMESAN")
	assert.Equal(t, []string{"Pasta Carbonara", "Salade César"}, Names(found))

	// Les œufs apparaissent une seule fois par recette
	eggs := store.FindByIngredient("œufs")
	assert.Equal(t, []string{"Pasta Carbonara", "Tiramisu", "Mousse au Chocolat"}, Names(eggs))

	assert.Empty(t, store.FindByIngredient("truffe"))
}

func TestFindByLabels(t *testing.T) {
	store, err := NewStore(openTestDocument(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Tiramisu", "Mousse au Chocolat", "Tarte aux Pommes"}, Names(store.FindByDishType("dessert")))
	assert.Equal(t, Names(store.FindByDishType("MainCourse")), Names(store.FindByDishType("Plat principal")))
	assert.Equal(t, []string{"Salade César", "Soupe de Tomates"}, Names(store.FindByDishType("STARTER")))

	assert.Equal(t,
		[]string{"Pasta Carbonara", "Soupe de Tomates", "Tarte aux Pommes", "Spaghetti Bolognaise"},
		Names(store.FindByDifficulty("easy")))
	assert.Equal(t, []string{"Salade César"}, Names(store.FindByDifficulty("VeryEasy")))
	assert.Equal(t, []string{"Bœuf Bourguignon"}, Names(store.FindByDifficulty("Difficile")))
	assert.Empty(t, store.FindByDifficulty("impossible"))
}

func TestRecipesReturnsCopy(t *testing.T) {
	store, err := NewStore(openTestDocument(t))
	require.NoError(t, err)

	recipes := store.Recipes()
	recipes[0].Name = "changed"
	recipes[0].Ingredients[0].Name = "changed"

	first, _ := store.FindByName("Pasta Carbonara")
	assert.Equal(t, "pâtes", first.Ingredients[0].Name)
}

func TestFindByNameReturnsFirstMatch(t *testing.T) {
	store, err := NewStore(openTestDocument(t))
	require.NoError(t, err)

	dup := sampleRecipe("Tiramisu")
	dup.PrepMinutes = 99
	require.NoError(t, store.Add(dup))

	r, ok := store.FindByName("Tiramisu")
	require.True(t, ok)
	assert.Equal(t, 30, r.PrepMinutes)
}

func TestStats(t *testing.T) {
	store, err := NewStore(openTestDocument(t))
	require.NoError(t, err)

	st := store.Stats()
	assert.Equal(t, 9, st.Total)
	assert.Equal(t, 2, st.ByDishType[Starter])
	assert.Equal(t, 4, st.ByDishType[MainCourse])
	assert.Equal(t, 3, st.ByDishType[Dessert])
	assert.Equal(t, 1, st.ByDifficulty[Hard])
	assert.Equal(t, "Salade César", st.Quickest)
	assert.InDelta(t, 385.0/9.0, st.AvgPrepMinutes, 0.001)
}

func TestContextBlock(t *testing.T) {
	store, err := NewStore(openTestDocument(t))
	require.NoError(t, err)

	block := store.ContextBlock()
	assert.Contains(t, block, "- Pasta Carbonara (Plat principal, Facile, 20min)\n")
	assert.Contains(t, block, "- Salade César (Entrée, Très facile, 15min)\n")
}

func TestOpenDocumentCreatesEmptyArray(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	doc, err := OpenDocument(dir, "recipes.json")
	require.NoError(t, err)

	data, err := os.ReadFile(doc.Path())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	recipes, err := doc.Read()
	require.NoError(t, err)
	assert.Empty(t, recipes)
}
