package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cliLogger logs to stderr in development format with --verbose and
// discards everything otherwise.
func cliLogger(cmd *cobra.Command) *zap.Logger {
	if v, _ := cmd.Flags().GetBool("verbose"); !v {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// serverLogger is the JSON production logger for `serve`, or the
// development logger with --verbose.
func serverLogger(cmd *cobra.Command) (*zap.Logger, error) {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
