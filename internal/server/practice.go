package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/importJL/GlyphWrAIte/internal/characters"
	"github.com/importJL/GlyphWrAIte/internal/llm"
	"github.com/importJL/GlyphWrAIte/internal/session"
	"github.com/importJL/GlyphWrAIte/internal/settings"
)

// maxCaptureBytes bounds one decoded drawing.
const maxCaptureBytes = 8 << 20

type selectRequest struct {
	Language  string                `json:"language" binding:"required"`
	Character string                `json:"character"`
	Level     characters.Difficulty `json:"level"`
}

func (s *Server) practice(c *gin.Context) *session.Orchestrator {
	return s.deps.Practice.Get(userOf(c))
}

// selectCharacter sets the practice target and loads its tips. Without a
// character a random one of the requested level is picked.
func (s *Server) selectCharacter(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Level != "" && !req.Level.Valid() {
		badRequest(c, fmt.Errorf("unknown level %q", req.Level))
		return
	}
	if req.Level == "" {
		req.Level = characters.Beginner
	}
	if req.Character == "" {
		info, ok := characters.Random(req.Language, req.Level, nil)
		if !ok {
			notFound(c, "character")
			return
		}
		req.Character = info.Character
	}

	ctx := c.Request.Context()
	o := s.practice(c)
	target, err := o.Select(req.Language, req.Character, req.Level)
	if err != nil {
		fail(c, err)
		return
	}
	ai, err := s.snapshot(c)
	if err != nil {
		fail(c, err)
		return
	}
	tips, err := o.LoadTips(ctx, ai)
	if err != nil {
		fail(c, err)
		return
	}

	if user := userOf(c); user != "" {
		prefs := settings.Preferences{Language: req.Language, Level: req.Level}
		if err := s.deps.Settings.SetPreferences(ctx, user, prefs); err != nil && !errors.Is(err, settings.ErrInvalid) {
			fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"target": target, "tips": tips})
}

func (s *Server) begin(c *gin.Context) {
	a, err := s.practice(c).Begin()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempt": a})
}

type captureRequest struct {
	// Image is a data URL as produced by canvas.toDataURL.
	Image string `json:"image"`

	// MIMEType and Data are the alternative raw form, Data in base64.
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

func (r captureRequest) decode() (llm.Image, error) {
	mime, payload := r.MIMEType, r.Data
	if r.Image != "" {
		rest, ok := strings.CutPrefix(r.Image, "data:")
		if !ok {
			return llm.Image{}, errors.New("image must be a data URL")
		}
		meta, data, ok := strings.Cut(rest, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return llm.Image{}, errors.New("image must be a base64 data URL")
		}
		mime, payload = strings.TrimSuffix(meta, ";base64"), data
	}
	if payload == "" {
		return llm.Image{}, errors.New("capture is empty")
	}
	if !strings.HasPrefix(mime, "image/") {
		return llm.Image{}, fmt.Errorf("unsupported capture type %q", mime)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return llm.Image{}, fmt.Errorf("decode capture: %w", err)
	}
	if len(raw) > maxCaptureBytes {
		return llm.Image{}, errors.New("capture is too large")
	}
	return llm.Image{MIMEType: mime, Data: raw}, nil
}

func (s *Server) capture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	img, err := req.decode()
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := s.practice(c).Capture(img); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bytes": len(img.Data)})
}

func (s *Server) clear(c *gin.Context) {
	o := s.practice(c)
	o.Clear()
	c.JSON(http.StatusOK, o.State())
}

func (s *Server) submit(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	ai, err := s.snapshot(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := s.practice(c).Submit(c.Request.Context(), ai)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ai, err := s.snapshot(c)
	if err != nil {
		fail(c, err)
		return
	}
	entries, err := s.practice(c).Ask(c.Request.Context(), req.Question, ai)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.practice(c).State())
}

func (s *Server) narrative(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"narrative": s.practice(c).Narrative()})
}
