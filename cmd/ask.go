package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/importJL/GlyphWrAIte/internal/characters"
	"github.com/importJL/GlyphWrAIte/internal/ui/components"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about a character",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		language, _ := cmd.Flags().GetString("language")
		character, _ := cmd.Flags().GetString("character")
		question := strings.Join(args, " ")

		return withApp(cmd, func(a *app) error {
			ctx := cmd.Context()
			user := resolveUser(cmd)
			ai, err := a.settings.AI(ctx, user)
			if err != nil {
				return err
			}
			o := a.practice.Get(user)
			if _, err := o.Select(language, character, characters.Beginner); err != nil {
				return err
			}
			entries, err := o.Ask(ctx, question, ai)
			if err != nil {
				return err
			}
			p := components.NewPrinter(cmd.OutOrStdout(), false)
			for _, e := range entries {
				p.Println(e)
			}
			return nil
		})
	},
}

func init() {
	askCmd.Flags().StringP("language", "l", "english", "Language of the character")
	askCmd.Flags().StringP("character", "c", "", "Character the question is about")
	askCmd.MarkFlagRequired("character")
}
