package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/importJL/GlyphWrAIte/internal/stats"
	"github.com/importJL/GlyphWrAIte/internal/store"
	"github.com/importJL/GlyphWrAIte/internal/ui/components"
	"github.com/importJL/GlyphWrAIte/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			recs, err := userRecords(cmd, a)
			if err != nil {
				return err
			}
			color, _ := cmd.Flags().GetBool("color")
			printStats(components.NewPrinter(cmd.OutOrStdout(), color), recs, time.Now())
			return nil
		})
	},
}

func userRecords(cmd *cobra.Command, a *app) ([]store.SessionRecord, error) {
	user := resolveUser(cmd)
	if user == "" {
		return nil, fmt.Errorf("no user: pass --user or set %s", EnvUser)
	}
	return a.store.SessionRepo().List(cmd.Context(), user)
}

func printStats(p *components.Printer, recs []store.SessionRecord, now time.Time) {
	p.Println(p.Style(theme.Title, "Practice statistics"))
	if len(recs) == 0 {
		p.Println(p.Style(theme.Hint, "No practice sessions yet. Run `glyphwrite practice` to start."))
		return
	}

	sum := stats.Summarize(recs)
	p.Printf("Sessions:       %d\n", sum.TotalSessions)
	p.Printf("Time practiced: %d min\n", sum.TotalMinutes())
	p.Printf("Average score:  %s\n", p.Style(theme.ScoreStyle(sum.AverageScore), fmt.Sprintf("%.1f%%", sum.AverageScore)))
	p.Printf("Best streak:    %d days\n", stats.BestStreak(recs, time.Local))
	p.Printf("Current streak: %d days\n", stats.CurrentStreak(recs, now, time.Local))

	p.Println(p.Style(theme.Heading, "By day of week"))
	days := stats.ByDayOfWeek(recs, time.Local)
	busiest := 1
	for _, d := range days {
		busiest = max(busiest, d.Sessions)
	}
	for _, d := range days {
		suffix := ""
		if d.Sessions > 0 {
			suffix = fmt.Sprintf("%d sessions, avg %.0f%%", d.Sessions, d.AverageScore)
		}
		p.Println(components.Bar{
			Label:      d.Name,
			LabelWidth: 3,
			Fraction:   float64(d.Sessions) / float64(busiest),
			Width:      24,
			Suffix:     suffix,
		}.Render(p))
	}

	p.Println(p.Style(theme.Heading, "By language"))
	for _, l := range stats.ByLanguage(recs) {
		p.Println(components.Bar{
			Label:      l.Language,
			LabelWidth: 10,
			Fraction:   float64(l.Percent) / 100,
			Width:      24,
			Suffix:     fmt.Sprintf("%d%% (%d)", l.Percent, l.Sessions),
		}.Render(p))
	}

	p.Println(p.Style(theme.Heading, "Recent sessions"))
	tbl := &components.Table{
		Headers: []string{"When", "Language", "Character", "Score", "Source"},
		Align:   []components.Align{components.AlignLeft, components.AlignLeft, components.AlignLeft, components.AlignRight},
	}
	for i := len(recs) - 1; i >= 0 && tbl.Len() < 10; i-- {
		r := recs[i]
		tbl.AddRow(r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Language, r.Character,
			fmt.Sprintf("%d%%", r.Score), r.ScoreSource)
	}
	p.Print(tbl.Render())
}

func init() {
	statsCmd.Flags().Bool("color", false, "Force colored output")
}
