package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wasin-t/eventbook/internal/metrics"
)

// Metrics records per-request duration against the route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		operation := c.Request.Method + " " + route
		metrics.RecordRequestDuration(c.Request.Context(), operation, time.Since(start).Seconds())
	}
}
