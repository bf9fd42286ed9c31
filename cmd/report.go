package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/importJL/GlyphWrAIte/internal/stats"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a progress report as JSON, or print the share text",
	RunE: func(cmd *cobra.Command, args []string) error {
		share, _ := cmd.Flags().GetBool("share")
		output, _ := cmd.Flags().GetString("output")

		return withApp(cmd, func(a *app) error {
			recs, err := userRecords(cmd, a)
			if err != nil {
				return err
			}
			r := stats.BuildReport(resolveUser(cmd), recs, time.Now(), time.Local)
			out := cmd.OutOrStdout()
			if share {
				fmt.Fprintln(out, r.ShareText())
				return nil
			}
			data, err := r.JSON()
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := out.Write(append(data, '\n'))
				return err
			}
			if output == "" {
				output = r.Filename()
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(out, "Report written to %s (%d sessions)\n", output, len(recs))
			return nil
		})
	},
}

func init() {
	reportCmd.Flags().Bool("share", false, "Print the share text instead")
	reportCmd.Flags().StringP("output", "o", "", "Output file, - for stdout (default: <user>-learning-report-<date>.json)")
}
