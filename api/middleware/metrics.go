package middleware

import (
	"strconv"
	"time"

	"orderservice/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records count and latency per route template.
// Unmatched routes are reported as "unmatched" to keep label cardinality bounded.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()),
			float64(time.Since(start).Microseconds())/1000)
	}
}
