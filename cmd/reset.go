package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all practice sessions and saved settings of the user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := resolveUser(cmd)
		if user == "" {
			return fmt.Errorf("no user: pass --user or set %s", EnvUser)
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete all practice data of %q? [y/N] ", user)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
		return withApp(cmd, func(a *app) error {
			n, err := a.store.SessionRepo().ClearUser(cmd.Context(), user)
			if err != nil {
				return err
			}
			if err := a.settings.Clear(cmd.Context(), user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sessions and the saved settings of %q.\n", n, user)
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
