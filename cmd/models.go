package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/importJL/GlyphWrAIte/internal/catalog"
	"github.com/importJL/GlyphWrAIte/internal/ui/components"
	"github.com/importJL/GlyphWrAIte/internal/ui/theme"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models offered per capability",
	Long: "Lists the cheapest offered models per capability. With a configured\n" +
		"API key the live OpenRouter list is fetched first; otherwise the\n" +
		"built-in list is shown.",
	RunE: func(cmd *cobra.Command, args []string) error {
		caps := catalog.Capabilities
		if c, _ := cmd.Flags().GetString("capability"); c != "" {
			capability, ok := catalog.ParseCapability(c)
			if !ok {
				return fmt.Errorf("unknown capability %q", c)
			}
			caps = []catalog.Capability{capability}
		}
		offline, _ := cmd.Flags().GetBool("offline")

		return withApp(cmd, func(a *app) error {
			p := components.NewPrinter(cmd.OutOrStdout(), false)
			if !offline {
				refreshCatalog(cmd, a, p)
			}
			for _, c := range caps {
				p.Println(p.Style(theme.Heading, string(c)))
				printModels(p, a.catalog.List(c))
			}
			return nil
		})
	},
}

// refreshCatalog fetches the live list when a key is configured and
// reports failures without aborting.
func refreshCatalog(cmd *cobra.Command, a *app, p *components.Printer) bool {
	key, ok, err := a.creds.Get(cmd.Context())
	if err != nil || !ok {
		p.Println(p.Style(theme.Hint, "No API key configured, showing built-in models."))
		return false
	}
	if err := a.catalog.Refresh(cmd.Context(), key); err != nil {
		p.Println(p.Style(theme.Error, "Could not fetch models: "+err.Error()))
		return false
	}
	return true
}

func printModels(p *components.Printer, models []catalog.ModelDescriptor) {
	tbl := &components.Table{
		Headers:  []string{"ID", "Name", "$/M in", "$/M out"},
		Align:    []components.Align{components.AlignLeft, components.AlignLeft, components.AlignRight, components.AlignRight},
		MaxWidth: 44,
	}
	for _, m := range models {
		tbl.AddRow(m.ID, m.DisplayName, fmt.Sprintf("%.2f", m.Cost.Input), fmt.Sprintf("%.2f", m.Cost.Output))
	}
	p.Print(tbl.Render())
}

func init() {
	modelsCmd.Flags().String("capability", "", "text, vision or audio")
	modelsCmd.Flags().Bool("offline", false, "Skip fetching the live list")
}
