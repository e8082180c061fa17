package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/todomate/pkg/errtrack"
	"github.com/d60-Lab/todomate/pkg/logger"
	"github.com/d60-Lab/todomate/pkg/response"
)

// Recovery 捕获 panic，上报 Sentry 并返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", GetRequestID(c)),
					zap.Stack("stack"),
				)
				errtrack.CapturePanic(c.Request, r)
				response.Error(c, http.StatusInternalServerError, "Internal server error.")
			}
		}()
		c.Next()
	}
}
