package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/importJL/GlyphWrAIte/internal/catalog"
	"github.com/importJL/GlyphWrAIte/internal/config"
	"github.com/importJL/GlyphWrAIte/internal/credential"
	"github.com/importJL/GlyphWrAIte/internal/gateway"
	"github.com/importJL/GlyphWrAIte/internal/session"
	"github.com/importJL/GlyphWrAIte/internal/settings"
	"github.com/importJL/GlyphWrAIte/internal/store"
)

// app holds the dependencies shared by the commands.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *store.Store
	creds    *credential.Store
	settings *settings.Service
	catalog  *catalog.Catalog
	gateway  *gateway.Gateway
	practice *session.Registry
}

// openApp loads the config, opens the store and builds the services.
// The caller must call close.
func openApp(cmd *cobra.Command, logger *zap.Logger) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		creds:    credential.NewStore(st.KVRepo()),
		settings: settings.NewService(st.KVRepo(), cfg.AI),
		catalog: catalog.New(
			catalog.WithBaseURL(cfg.Catalog.BaseURL),
			catalog.WithLogger(logger.Named("catalog")),
		),
		gateway: gateway.New(cfg.LLM, st.EventRepo(), gateway.WithLimits(cfg.Limits)),
	}
	sessions := st.SessionRepo()
	a.practice = session.NewRegistry(func(user string) *session.Orchestrator {
		return session.New(user, a.gateway, a.creds, sessions,
			session.WithLogger(logger.Named("practice")),
			session.WithScorer(cfg.Practice.Scorer),
		)
	})
	logger.Debug("app ready", zap.String("db", dbPath), zap.String("config", cfgPath),
		zap.String("provider", cfg.LLM.Provider))
	return a, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
	a.logger.Sync()
}

// withApp runs fn with an app built for cmd and a CLI logger.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(cmd, cliLogger(cmd))
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
