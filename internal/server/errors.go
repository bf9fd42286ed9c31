package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/importJL/GlyphWrAIte/internal/credential"
	"github.com/importJL/GlyphWrAIte/internal/gateway"
	"github.com/importJL/GlyphWrAIte/internal/session"
	"github.com/importJL/GlyphWrAIte/internal/settings"
)

var errNoUser = errors.New("missing " + UserHeader + " header")

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	var f *gateway.Failure
	switch {
	case errors.Is(err, session.ErrNoUser), errors.Is(err, errNoUser):
		return http.StatusPreconditionFailed
	case errors.Is(err, session.ErrInvalidTransition), errors.Is(err, session.ErrStale):
		return http.StatusConflict
	case errors.Is(err, session.ErrNoCharacter), errors.Is(err, session.ErrEmptyQuestion),
		errors.Is(err, settings.ErrInvalid), errors.Is(err, credential.ErrEmptyKey):
		return http.StatusBadRequest
	case errors.As(err, &f):
		if f.Kind == gateway.KindAuth {
			return http.StatusPreconditionFailed
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	var f *gateway.Failure
	if errors.As(err, &f) {
		msg = f.Reason
		c.AbortWithStatusJSON(status, gin.H{"error": msg, "kind": f.Kind})
		return
	}
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func notFound(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

// requireUser aborts with 412 when no user header was sent.
func requireUser(c *gin.Context) (string, bool) {
	u := userOf(c)
	if u == "" {
		fail(c, errNoUser)
		return "", false
	}
	return u, true
}
