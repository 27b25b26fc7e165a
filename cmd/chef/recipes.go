package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"recipe-assistant/internal/core/knowledge"
	"recipe-assistant/internal/pkg/common"
)

func newRecipesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage the recipe catalog",
	}

	cmd.AddCommand(newRecipesListCmd(c))
	cmd.AddCommand(newRecipesAddCmd(c))
	cmd.AddCommand(newRecipesRemoveCmd(c))
	cmd.AddCommand(newRecipesResetCmd(c))
	return cmd
}

func newRecipesListCmd(c *cli) *cobra.Command {
	var (
		dishType   string
		difficulty string
		ingredient string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Long: `List affiche le catalogue, éventuellement filtré.

Les filtres se cumulent. Type et difficulté acceptent les libellés français.

Example:
  chef recipes list
  chef recipes list --type dessert
  chef recipes list --difficulty facile --ingredient oeufs
  chef recipes list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters := make([]func(knowledge.Recipe) bool, 0, 3)
			if dishType != "" {
				t, err := knowledge.ParseDishType(dishType)
				if err != nil {
					return err
				}
				filters = append(filters, func(r knowledge.Recipe) bool { return r.DishType == t })
			}
			if difficulty != "" {
				d, err := knowledge.ParseDifficulty(difficulty)
				if err != nil {
					return err
				}
				filters = append(filters, func(r knowledge.Recipe) bool { return r.Difficulty == d })
			}
			if ingredient != "" {
				filters = append(filters, func(r knowledge.Recipe) bool { return r.HasIngredient(ingredient) })
			}

			recipes := filterRecipes(c.store.Recipes(), filters...)

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), recipes)
			}
			if len(recipes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Aucune recette")
				return nil
			}
			printRecipeTable(cmd.OutOrStdout(), recipes)
			return nil
		},
	}

	cmd.Flags().StringVar(&dishType, "type", "", "filter by dish type (starter, main course, dessert)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "filter by difficulty (very easy, easy, medium, hard)")
	cmd.Flags().StringVar(&ingredient, "ingredient", "", "filter by ingredient substring")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func newRecipesAddCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add --file <path>",
		Short: "Add recipes from a JSON file",
		Long: `Add lit une recette (objet JSON) ou une liste de recettes (tableau JSON)
au format du catalogue, les valide puis les ajoute.

Example:
  chef recipes add --file crepes.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			recipes, err := decodeRecipeFile(data)
			if err != nil {
				return err
			}

			for _, r := range recipes {
				if err := knowledge.Validate(r); err != nil {
					return fmt.Errorf("recipe %q: %w", r.Name, err)
				}
			}
			for _, r := range recipes {
				if err := c.store.Add(r); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Recette ajoutée : %s\n", r.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with one recipe or an array of recipes")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRecipesRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove every recipe with the exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := c.store.Remove(args[0])
			if err != nil {
				return err
			}
			if removed == 0 {
				return fmt.Errorf("recipe %q not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑️  %d recette(s) supprimée(s), %d restante(s)\n", removed, c.store.Len())
			return nil
		},
	}
}

func newRecipesResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the catalog with the default recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.store.Reset(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🔄 Catalogue réinitialisé (%d recettes)\n", c.store.Len())
			return nil
		},
	}
}

// decodeRecipeFile 接受單一物件或陣列
func decodeRecipeFile(data []byte) ([]knowledge.Recipe, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		trimmed = append(append([]byte("["), trimmed...), ']')
	}
	recipes, err := knowledge.UnmarshalRecipes(trimmed)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("no recipe in file")
	}
	return recipes, nil
}

func filterRecipes(recipes []knowledge.Recipe, filters ...func(knowledge.Recipe) bool) []knowledge.Recipe {
	out := make([]knowledge.Recipe, 0, len(recipes))
next:
	for _, r := range recipes {
		for _, keep := range filters {
			if !keep(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// printRecipeTable 以表格輸出名稱、類型、難度與時間
func printRecipeTable(w io.Writer, recipes []knowledge.Recipe) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NOM\tTYPE\tDIFFICULTÉ\tMIN")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.Name, r.DishType.Label(), r.Difficulty.Label(), r.PrepMinutes)
	}
	_ = tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	data, err := common.ToIndentedJSON(v)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
