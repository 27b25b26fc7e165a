package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	chatPrompt  = "👨‍🍳 > "
	chatWelcome = "🍽️  Assistant culinaire. Tapez 'aide' pour l'aide, 'quitter' pour sortir."
	chatBye     = "👋 À bientôt !"
)

// quitWords 結束互動對話的指令
var quitWords = map[string]bool{
	"quit":    true,
	"exit":    true,
	"q":       true,
	"quitter": true,
}

func newChatCmd(c *cli) *cobra.Command {
	var useAI bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation loop",
		Long: `Chat lit une question par ligne et répond jusqu'à 'quitter' ou la fin de l'entrée.

Sans --ai, les questions passent par le routeur de mots-clés.
Avec --ai, elles sont transmises au service de génération avec le catalogue en contexte.

Example:
  chef chat
  chef chat --ai`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reply := c.router().Reply
			if useAI {
				assistant := c.assistant()
				reply = func(text string) string {
					return assistant.Ask(cmd.Context(), text)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, chatWelcome)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, chatPrompt)
				if !scanner.Scan() {
					fmt.Fprintln(out)
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if quitWords[strings.ToLower(text)] {
					fmt.Fprintln(out, chatBye)
					return nil
				}
				fmt.Fprintln(out, reply(text))

				if err := cmd.Context().Err(); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&useAI, "ai", false, "answer with the generation service")
	return cmd
}

func newAskCmd(c *cli) *cobra.Command {
	var useAI bool

	cmd := &cobra.Command{
		Use:   "ask <text...>",
		Short: "Answer a single question",
		Long: `Ask répond à une seule question puis se termine.

Example:
  chef ask recommande quelque chose de rapide
  chef ask "recettes avec tomate"
  chef ask --ai "Comment réussir une mousse au chocolat ?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if useAI {
				fmt.Fprintln(cmd.OutOrStdout(), c.assistant().Ask(cmd.Context(), text))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.router().Reply(text))
			return nil
		},
	}

	cmd.Flags().BoolVar(&useAI, "ai", false, "answer with the generation service")
	return cmd
}
