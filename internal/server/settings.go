package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/importJL/GlyphWrAIte/internal/settings"
)

type settingsResponse struct {
	AI          settings.AI          `json:"ai"`
	Preferences settings.Preferences `json:"preferences"`
}

func (s *Server) getSettings(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	ai, err := s.deps.Settings.AI(ctx, user)
	if err != nil {
		fail(c, err)
		return
	}
	prefs, err := s.deps.Settings.Preferences(ctx, user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsResponse{AI: ai, Preferences: prefs})
}

func (s *Server) patchSettings(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var u settings.AIUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, err)
		return
	}
	ai, err := s.deps.Settings.UpdateAI(c.Request.Context(), user, u)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ai": ai})
}

func (s *Server) resetSettings(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	ai, err := s.deps.Settings.ResetAI(c.Request.Context(), user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ai": ai})
}

// snapshot returns the AI settings of the caller. Anonymous callers get
// the defaults.
func (s *Server) snapshot(c *gin.Context) (settings.AI, error) {
	return s.deps.Settings.AI(c.Request.Context(), userOf(c))
}
