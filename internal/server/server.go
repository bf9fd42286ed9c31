// Package server exposes practice, settings, catalog and analytics over a
// JSON HTTP API for the browser canvas front end.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/importJL/GlyphWrAIte/internal/catalog"
	"github.com/importJL/GlyphWrAIte/internal/credential"
	"github.com/importJL/GlyphWrAIte/internal/session"
	"github.com/importJL/GlyphWrAIte/internal/settings"
	"github.com/importJL/GlyphWrAIte/internal/store"
)

// UserHeader carries the caller's user id. Authentication happens in
// front of this service.
const UserHeader = "X-User-ID"

// Forgetter drops cached provider clients after the credential changes.
type Forgetter interface {
	Forget()
}

// Deps wires the server to the rest of the application.
type Deps struct {
	Sessions    store.SessionRepo
	Settings    *settings.Service
	Credentials *credential.Store
	Catalog     *catalog.Catalog
	Providers   Forgetter
	Practice    *session.Registry
	Logger      *zap.Logger

	// Location is used for per-day analytics. Nil means time.Local.
	Location *time.Location
	Now      func() time.Time
}

// Options configures the listener and background work.
type Options struct {
	Addr           string
	AllowedOrigins []string

	// RefreshSpec is a cron spec for catalog refreshes. Empty disables them.
	RefreshSpec string
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	opts   Options
	engine *gin.Engine
}

// New builds the router. It does not start listening.
func New(deps Deps, opts Options) (*Server, error) {
	if deps.Sessions == nil || deps.Settings == nil || deps.Credentials == nil ||
		deps.Catalog == nil || deps.Practice == nil {
		return nil, errors.New("server: missing dependency")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:8080"
	}

	s := &Server{deps: deps, opts: opts}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(defaultMetrics().Build())
	r.Use(accessLog(s.deps.Logger))
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", UserHeader},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin(s.opts.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))
	r.Use(identify())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	chars := api.Group("/characters")
	chars.GET("", s.listLanguages)
	chars.GET("/:language", s.listCharacters)
	chars.GET("/:language/search", s.searchCharacters)
	chars.GET("/:language/:character", s.getCharacter)

	api.GET("/models", s.listModels)
	api.POST("/models/refresh", s.refreshModels)

	api.GET("/credential", s.credentialStatus)
	api.PUT("/credential", s.setCredential)
	api.DELETE("/credential", s.clearCredential)

	api.GET("/settings", s.getSettings)
	api.PATCH("/settings", s.patchSettings)
	api.DELETE("/settings", s.resetSettings)

	practice := api.Group("/practice")
	practice.POST("/select", s.selectCharacter)
	practice.POST("/begin", s.begin)
	practice.POST("/capture", s.capture)
	practice.POST("/clear", s.clear)
	practice.POST("/submit", s.submit)
	practice.POST("/ask", s.ask)
	practice.GET("/state", s.state)
	practice.GET("/narrative", s.narrative)

	api.GET("/sessions", s.listSessions)
	api.GET("/analytics", s.analytics)
	api.GET("/report", s.report)
	api.DELETE("/account/data", s.clearAccount)

	return r
}

// Start listens until ctx is cancelled, then shuts down gracefully.
// Catalog refreshes run on the configured schedule meanwhile.
func (s *Server) Start(ctx context.Context) error {
	if s.opts.RefreshSpec != "" {
		ref := newRefresher(s.deps.Catalog, s.deps.Credentials, s.deps.Logger)
		stop, err := ref.schedule(s.opts.RefreshSpec)
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		defer stop()
		go ref.run(ctx)
	}

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.deps.Logger.Info("http server listening", zap.String("addr", s.opts.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func allowOrigin(allowed []string) func(string) bool {
	return func(origin string) bool {
		if strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1") {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}
