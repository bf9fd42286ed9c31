package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/importJL/GlyphWrAIte/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for the browser canvas",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := serverLogger(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd, logger)
		if err != nil {
			return err
		}
		defer a.close()

		opts := server.Options{
			Addr:           a.cfg.Server.Addr,
			AllowedOrigins: a.cfg.Server.AllowedOrigins,
			RefreshSpec:    a.cfg.Catalog.Refresh,
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			opts.Addr = addr
		}
		srv, err := server.New(server.Deps{
			Sessions:    a.store.SessionRepo(),
			Settings:    a.settings,
			Credentials: a.creds,
			Catalog:     a.catalog,
			Providers:   a.gateway,
			Practice:    a.practice,
			Logger:      logger.Named("http"),
			Location:    time.Local,
		}, opts)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		warmCatalog(ctx, a)
		return srv.Start(ctx)
	},
}

// warmCatalog fetches the live model list once at startup.
func warmCatalog(ctx context.Context, a *app) {
	key, ok, err := a.creds.Get(ctx)
	if err != nil || !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := a.catalog.Refresh(ctx, key); err != nil {
		a.logger.Warn("initial model catalog refresh failed", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides [server].addr)")
}
