package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/importJL/GlyphWrAIte/internal/catalog"
)

func (s *Server) listModels(c *gin.Context) {
	caps := catalog.Capabilities
	if q := c.Query("capability"); q != "" {
		capability, ok := catalog.ParseCapability(q)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown capability"})
			return
		}
		caps = []catalog.Capability{capability}
	}

	out := make(map[catalog.Capability][]catalog.ModelDescriptor, len(caps))
	for _, capability := range caps {
		out[capability] = s.deps.Catalog.List(capability)
	}
	resp := gin.H{"models": out, "live": !s.deps.Catalog.FetchedAt().IsZero()}
	if at := s.deps.Catalog.FetchedAt(); !at.IsZero() {
		resp["fetchedAt"] = at
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) refreshModels(c *gin.Context) {
	key, _, err := s.deps.Credentials.Get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.deps.Catalog.Refresh(c.Request.Context(), key); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fetchedAt": s.deps.Catalog.FetchedAt()})
}

func (s *Server) credentialStatus(c *gin.Context) {
	st, err := s.deps.Credentials.Status(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type credentialRequest struct {
	APIKey string `json:"apiKey"`
}

// setCredential stores the key and refreshes the catalog with it. A
// rejected refresh is reported but the key stays stored.
func (s *Server) setCredential(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := s.deps.Credentials.Set(ctx, req.APIKey); err != nil {
		fail(c, err)
		return
	}
	s.forgetProviders()

	resp := gin.H{}
	key, _, err := s.deps.Credentials.Get(ctx)
	if err == nil {
		err = s.deps.Catalog.Refresh(ctx, key)
	}
	if err != nil {
		resp["refreshError"] = err.Error()
	}
	st, _ := s.deps.Credentials.Status(ctx)
	resp["status"] = st
	c.JSON(http.StatusOK, resp)
}

func (s *Server) clearCredential(c *gin.Context) {
	if err := s.deps.Credentials.Clear(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	s.forgetProviders()
	s.deps.Catalog.Reset()
	st, _ := s.deps.Credentials.Status(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": st})
}

func (s *Server) forgetProviders() {
	if s.deps.Providers != nil {
		s.deps.Providers.Forget()
	}
}
