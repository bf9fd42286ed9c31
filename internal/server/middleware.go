package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userKey = "glyphwrite.user"

// identify stores the X-User-ID header on the context. A missing header
// is allowed: anonymous users can practice but not save.
func identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userKey, strings.TrimSpace(c.GetHeader(UserHeader)))
		c.Next()
	}
}

func userOf(c *gin.Context) string {
	return c.GetString(userKey)
}

func accessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user", userOf(c)),
		)
	}
}
