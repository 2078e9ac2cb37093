package middleware

import (
	"strconv"
	"time"

	"github.com/aurorajewels/storefront/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// GinMetricsMiddleware 按路由模板记录请求计数与耗时
func GinMetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// 使用路由模板而非原始路径，避免 :id 撑爆标签基数
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.HTTPRequestDuration.Observe(time.Since(start).Seconds())
	}
}
