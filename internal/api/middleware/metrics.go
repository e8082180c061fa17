package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver metrics.Collector 满足该接口
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// Metrics 以路由模板为标签，避免 id 造成高基数
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		obs.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
