package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/importJL/GlyphWrAIte/internal/store"
)

// EnvUser names the practicing user when --user is not given.
const EnvUser = "GLYPHWRITE_USER"

var rootCmd = &cobra.Command{
	Use:   "glyphwrite",
	Short: "AI handwriting practice for English, Chinese, Japanese and Korean",
	Long: "GlyphWrAIte: practice writing characters, get AI feedback and scores,\n" +
		"and track your progress over time.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides GLYPHWRITE_DB env var)")
	pf.String("config", "", "Path to config file (overrides GLYPHWRITE_CONFIG env var)")
	pf.String("user", "", "User to practice as (overrides GLYPHWRITE_USER, defaults to $USER)")
	pf.BoolP("verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(charsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then GLYPHWRITE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveUser returns --user, then GLYPHWRITE_USER, then $USER.
func resolveUser(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if u := os.Getenv(EnvUser); u != "" {
		return u
	}
	return os.Getenv("USER")
}
