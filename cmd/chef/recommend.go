package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recipe-assistant/internal/core/chat"
)

func newRecommendCmd(c *cli) *cobra.Command {
	var (
		ingredients []string
		maxMinutes  int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend recipes by ingredients, time or at random",
		Long: `Recommend classe les recettes selon les ingrédients disponibles (--ingredients),
liste celles réalisables en --max minutes, ou en tire une au hasard sans option.

Example:
  chef recommend --ingredients oeufs,parmesan,bacon
  chef recommend --max 20
  chef recommend`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			switch {
			case len(ingredients) > 0:
				scored := c.engine.ScoreByIngredients(ingredients)
				if len(scored) == 0 {
					fmt.Fprintf(out, "😔 Aucune recette trouvée avec %s\n", strings.Join(ingredients, ", "))
					return nil
				}
				for _, s := range scored {
					fmt.Fprintf(out, "%3.0f%%  %s\n", s.Score*100, s.Recipe.Name)
				}

			case cmd.Flags().Changed("max"):
				recipes := c.engine.ByTime(maxMinutes)
				if len(recipes) == 0 {
					fmt.Fprintf(out, "😔 Aucune recette en %d min ou moins\n", maxMinutes)
					return nil
				}
				printRecipeTable(out, recipes)

			default:
				r, ok := c.engine.Random()
				if !ok {
					fmt.Fprintln(out, chat.MsgNoRecipe)
					return nil
				}
				fmt.Fprintf(out, "🎲 %s (%s, %d min)\n", r.Name, r.DishType.Label(), r.PrepMinutes)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ingredients, "ingredients", nil, "available ingredients, comma separated")
	cmd.Flags().IntVar(&maxMinutes, "max", 20, "maximum preparation time in minutes")
	return cmd
}
