package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"recipe-assistant/internal/core/knowledge"
)

func newStatsCmd(c *cli) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := c.store.Stats()
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), st)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "📊 Recettes\t%d\n", st.Total)
			for _, t := range knowledge.DishTypes {
				fmt.Fprintf(tw, "  %s\t%d\n", t.Label(), st.ByDishType[t])
			}
			for _, d := range knowledge.Difficulties {
				fmt.Fprintf(tw, "  %s\t%d\n", d.Label(), st.ByDifficulty[d])
			}
			fmt.Fprintf(tw, "⏱️  Temps moyen\t%.1f min\n", st.AvgPrepMinutes)
			if st.Quickest != "" {
				fmt.Fprintf(tw, "🏃 Plus rapide\t%s\n", st.Quickest)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
