package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/importJL/GlyphWrAIte/internal/characters"
	"github.com/importJL/GlyphWrAIte/internal/ui/components"
	"github.com/importJL/GlyphWrAIte/internal/ui/theme"
)

var charsCmd = &cobra.Command{
	Use:   "chars [language]",
	Short: "List practice characters",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := components.NewPrinter(cmd.OutOrStdout(), false)
		if len(args) == 0 {
			for _, l := range characters.Languages() {
				p.Println(l)
			}
			return nil
		}
		lang := args[0]
		if !slices.Contains(characters.Languages(), lang) {
			return fmt.Errorf("unknown language %q (have %s)", lang, strings.Join(characters.Languages(), ", "))
		}

		search, _ := cmd.Flags().GetString("search")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		category, _ := cmd.Flags().GetString("category")
		var list []characters.Info
		switch {
		case search != "":
			list = characters.Search(lang, search)
		case category != "":
			list = characters.ByCategory(lang, category)
			if list == nil {
				return fmt.Errorf("unknown %s category %q", lang, category)
			}
		case difficulty != "":
			d := characters.Difficulty(difficulty)
			if !d.Valid() {
				return fmt.Errorf("unknown difficulty %q", difficulty)
			}
			list = characters.ByDifficulty(lang, d)
		default:
			list = characters.All(lang)
		}
		if len(list) == 0 {
			p.Println("No characters found.")
			return nil
		}

		tbl := &components.Table{
			Headers:  []string{"Character", "Category", "Level", "Pronunciation", "Definition"},
			MaxWidth: 40,
		}
		for _, info := range list {
			tbl.AddRow(info.Character, info.Category, string(info.Difficulty), info.Pronunciation, info.Definition)
		}
		p.Print(tbl.Render())
		return nil
	},
}

var charsShowCmd = &cobra.Command{
	Use:   "show <language> <character>",
	Short: "Show the reference entry of one character",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := characters.Lookup(args[0], args[1])
		if !ok {
			return fmt.Errorf("%q is not a %s practice character", args[1], args[0])
		}
		p := components.NewPrinter(cmd.OutOrStdout(), false)
		p.Println(p.Style(theme.Title, info.Character) + "  " + p.Style(theme.Hint, info.Pronunciation))
		p.Println(info.Definition)

		field := func(label, value string) {
			if value != "" {
				p.Printf("%-15s %s\n", label+":", value)
			}
		}
		field("Level", string(info.Difficulty))
		field("Category", info.Category)
		field("Usage", info.Usage)
		field("Synonyms", strings.Join(info.Synonyms, ", "))
		field("Antonyms", strings.Join(info.Antonyms, ", "))
		field("Stroke order", strings.Join(info.StrokeOrder, " → "))
		field("Cultural notes", info.CulturalNotes)
		if len(info.Examples) > 0 {
			printList(p, "Examples", info.Examples)
		}
		if rel := characters.Related(args[0], info.Character); len(rel) > 0 {
			names := make([]string, len(rel))
			for i, r := range rel {
				names[i] = r.Character
			}
			field("Related", strings.Join(names, " "))
		}
		return nil
	},
}

func init() {
	charsCmd.Flags().StringP("search", "s", "", "Search character, definition, usage and examples")
	charsCmd.Flags().StringP("difficulty", "d", "", "Only characters of this level")
	charsCmd.Flags().StringP("category", "c", "", "Only characters of this category, e.g. common-words")
	charsCmd.AddCommand(charsShowCmd)
}
