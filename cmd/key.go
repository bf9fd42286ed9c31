package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/importJL/GlyphWrAIte/internal/catalog"
	"github.com/importJL/GlyphWrAIte/internal/credential"
	"github.com/importJL/GlyphWrAIte/internal/ui/components"
	"github.com/importJL/GlyphWrAIte/internal/ui/theme"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the OpenRouter API key",
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the API key (read from a hidden prompt or stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readKey(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app) error {
			if err := a.creds.Set(cmd.Context(), key); err != nil {
				return err
			}
			p := components.NewPrinter(cmd.OutOrStdout(), false)
			p.Println("API key saved: " + credential.Mask(strings.TrimSpace(key)))
			if os.Getenv(credential.EnvVar) != "" {
				p.Println(p.Style(theme.Hint, credential.EnvVar+" is set and takes precedence."))
			}
			if refreshCatalog(cmd, a, p) {
				p.Printf("Connection OK, %d vision models available.\n", len(a.catalog.List(catalog.Vision)))
			}
			return nil
		})
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			if err := a.creds.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
			return nil
		})
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API key is configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			st, err := a.creds.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !st.HasKey {
				fmt.Fprintln(out, "No API key configured. Run `glyphwrite key set`.")
				return nil
			}
			fmt.Fprintf(out, "API key %s (%s)\n", st.Masked, st.Source)
			return nil
		})
	},
}

var keyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Check the API key by listing the available models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			key, ok, err := a.creds.Get(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no API key configured")
			}
			if err := a.catalog.Refresh(cmd.Context(), key); err != nil {
				return fmt.Errorf("connection failed: %w", err)
			}
			p := components.NewPrinter(cmd.OutOrStdout(), false)
			p.Println(p.Style(theme.Title, "Connection OK"))
			for _, c := range catalog.Capabilities {
				p.Printf("%-7s %d models\n", c, len(a.catalog.List(c)))
			}
			return nil
		})
	},
}

// readKey prompts without echo on a terminal and reads one line otherwise.
func readKey(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "OpenRouter API key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyStatusCmd)
	keyCmd.AddCommand(keyTestCmd)
}
