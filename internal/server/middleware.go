package server

import (
	"strconv"
	"time"

	"gymclass/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request count and latency by route template, so
// ids in paths do not create new series.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
