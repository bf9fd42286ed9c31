package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/importJL/GlyphWrAIte/internal/stats"
	"github.com/importJL/GlyphWrAIte/internal/store"
)

func (s *Server) userSessions(c *gin.Context) (string, []store.SessionRecord, bool) {
	user, ok := requireUser(c)
	if !ok {
		return "", nil, false
	}
	recs, err := s.deps.Sessions.List(c.Request.Context(), user)
	if err != nil {
		fail(c, err)
		return "", nil, false
	}
	if recs == nil {
		recs = []store.SessionRecord{}
	}
	return user, recs, true
}

func (s *Server) listSessions(c *gin.Context) {
	_, recs, ok := s.userSessions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": recs})
}

func (s *Server) analytics(c *gin.Context) {
	_, recs, ok := s.userSessions(c)
	if !ok {
		return
	}
	loc := s.deps.Location
	c.JSON(http.StatusOK, gin.H{
		"summary":       stats.Summarize(recs),
		"byDayOfWeek":   stats.ByDayOfWeek(recs, loc),
		"byLanguage":    stats.ByLanguage(recs),
		"bestStreak":    stats.BestStreak(recs, loc),
		"currentStreak": stats.CurrentStreak(recs, s.deps.Now(), loc),
	})
}

func (s *Server) report(c *gin.Context) {
	user, recs, ok := s.userSessions(c)
	if !ok {
		return
	}
	r := stats.BuildReport(user, recs, s.deps.Now(), s.deps.Location)
	if c.Query("format") == "share" {
		c.String(http.StatusOK, r.ShareText())
		return
	}
	data, err := r.JSON()
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", r.Filename()))
	c.Data(http.StatusOK, "application/json", data)
}

// clearAccount deletes every session record and saved setting of the
// caller and resets their practice state.
func (s *Server) clearAccount(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	n, err := s.deps.Sessions.ClearUser(ctx, user)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.deps.Settings.Clear(ctx, user); err != nil {
		fail(c, err)
		return
	}
	s.deps.Practice.Drop(user)
	s.deps.Logger.Info("account data cleared", zap.String("user", user), zap.Int64("sessions", n))
	c.JSON(http.StatusOK, gin.H{"removed": n})
}
