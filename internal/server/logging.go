package server

import (
	"time"

	"gymclass/internal/auth"
	"gymclass/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggingMiddleware writes one structured line per request. Probe
// endpoints are not logged.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if path == "/health" || path == "/metrics" {
			return
		}
		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if actor, ok := auth.GetActor(c); ok {
			args = append(args, "user_id", actor.UserID, "role", actor.Role)
		}

		if status >= 500 {
			logger.Error("HTTP request", args...)
			return
		}
		logger.Info("HTTP request", args...)
	}
}
