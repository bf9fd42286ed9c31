package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/importJL/GlyphWrAIte/internal/llm"
	"github.com/importJL/GlyphWrAIte/internal/store"
	"github.com/importJL/GlyphWrAIte/internal/ui/components"
	"github.com/importJL/GlyphWrAIte/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded AI requests and their cost",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent AI requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withApp(cmd, func(a *app) error {
			events, err := a.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			p := components.NewPrinter(cmd.OutOrStdout(), false)
			if len(events) == 0 {
				p.Println("No AI requests recorded.")
				return nil
			}

			tbl := &components.Table{
				Headers:  []string{"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK"},
				Align:    []components.Align{components.AlignRight, components.AlignLeft, components.AlignLeft, components.AlignLeft, components.AlignRight, components.AlignRight, components.AlignRight},
				MaxWidth: 36,
			}
			for _, e := range events {
				ok := "✓"
				if !e.Success {
					ok = "✗"
				}
				tbl.AddRow(strconv.Itoa(e.ID), e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Purpose, e.Model,
					strconv.Itoa(e.InputTokens), strconv.Itoa(e.OutputTokens), strconv.FormatInt(e.LatencyMs, 10), ok)
			}
			p.Print(tbl.Render())
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one AI request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		return withApp(cmd, func(a *app) error {
			e, err := a.store.EventRepo().GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			p := components.NewPrinter(cmd.OutOrStdout(), false)
			tbl := &components.Table{}
			tbl.AddRow("ID:", strconv.Itoa(e.ID))
			tbl.AddRow("Time:", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
			tbl.AddRow("Provider:", e.Provider)
			tbl.AddRow("Model:", e.Model)
			tbl.AddRow("Purpose:", e.Purpose)
			tbl.AddRow("Tokens:", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
			tbl.AddRow("Latency:", fmt.Sprintf("%dms", e.LatencyMs))
			tbl.AddRow("Success:", strconv.FormatBool(e.Success))
			if e.ErrorMessage != "" {
				tbl.AddRow("Error:", e.ErrorMessage)
			}
			p.Print(tbl.Render())

			section := func(title, body string) {
				p.Println(p.Style(theme.Heading, title))
				p.Println(strings.Repeat("─", 60))
				if body == "" {
					body = "(not captured)"
				}
				p.Println(body)
			}
			section("REQUEST", e.RequestBody)
			section("RESPONSE", e.ResponseBody)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			ctx := cmd.Context()
			usage, err := a.store.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			p := components.NewPrinter(cmd.OutOrStdout(), false)
			if len(usage) == 0 {
				p.Println("No AI usage recorded yet.")
				return nil
			}
			if live, _ := cmd.Flags().GetBool("live-prices"); live {
				refreshCatalog(cmd, a, p)
			}

			right := []components.Align{components.AlignLeft, components.AlignRight, components.AlignRight, components.AlignRight, components.AlignRight, components.AlignRight}
			p.Println(p.Style(theme.Heading, "Usage by purpose"))
			byPurpose := &components.Table{
				Headers: []string{"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms"},
				Align:   right,
			}
			var calls, in, out int
			for _, u := range usage {
				byPurpose.AddRow(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens),
					strconv.Itoa(u.InputTokens+u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
				calls += u.Calls
				in += u.InputTokens
				out += u.OutputTokens
			}
			byPurpose.AddRow("TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in+out))
			p.Print(byPurpose.Render())

			models, err := a.store.EventRepo().LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(models) == 0 {
				return nil
			}

			p.Println(p.Style(theme.Heading, "Estimated cost (USD)"))
			byModel := &components.Table{
				Headers:  []string{"Model", "Calls", "Input", "Output", "Cost"},
				Align:    right,
				MaxWidth: 40,
			}
			var total float64
			var unknown []string
			for _, m := range models {
				cost := costOf(a, m.Model)
				price := "?"
				if cost != nil {
					c := cost.Cost(m.InputTokens, m.OutputTokens)
					total += c
					price = formatCost(c)
				} else {
					unknown = append(unknown, m.Model)
				}
				byModel.AddRow(m.Model, strconv.Itoa(m.Calls), strconv.Itoa(m.InputTokens), strconv.Itoa(m.OutputTokens), price)
			}
			label := "TOTAL"
			if len(unknown) > 0 {
				label = "TOTAL (partial)"
			}
			byModel.AddRow(label, "", "", "", formatCost(total))
			p.Print(byModel.Render())
			if len(unknown) > 0 {
				p.Println(p.Style(theme.Hint, "Pricing unavailable for: "+strings.Join(unknown, ", ")))
			}
			return nil
		})
	},
}

// costOf prefers the catalog's OpenRouter pricing and falls back to the
// built-in table.
func costOf(a *app, model string) *llm.ModelCost {
	if m, ok := a.catalog.Lookup(model); ok {
		return &llm.ModelCost{InputPerMTok: m.Cost.Input, OutputPerMTok: m.Cost.Output}
	}
	return llm.LookupCost(model)
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose: text-feedback, vision-scoring, question-answer")
	llmStatsCmd.Flags().Bool("live-prices", false, "Fetch current OpenRouter prices first")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
