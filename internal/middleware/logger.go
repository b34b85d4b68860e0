package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/response"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		switch {
		case status >= 500:
			evt = log.Error()
		case status >= 400:
			evt = log.Warn()
		}

		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}
		if claims := GetClaims(c); claims != nil {
			evt = evt.Int("user_id", claims.UserID)
		}

		evt.Str("request_id", response.RequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
