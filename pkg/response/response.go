package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/todomate/pkg/errtrack"
	"github.com/d60-Lab/todomate/pkg/logger"
)

// Detail 错误响应体，与前端约定的 {"detail": "..."} 格式
type Detail struct {
	Detail string `json:"detail"`
}

// Page 分页响应体
type Page struct {
	Count    int64       `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  interface{} `json:"results"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Paginated(c *gin.Context, count int64, page, pageSize int, results interface{}) {
	c.JSON(http.StatusOK, Page{Count: count, Page: page, PageSize: pageSize, Results: results})
}

// Error 以 {"detail": msg} 结束请求
func Error(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, Detail{Detail: detail})
}

func BadRequest(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, detail)
}

func Unauthorized(c *gin.Context, detail string) {
	Error(c, http.StatusUnauthorized, detail)
}

func Forbidden(c *gin.Context, detail string) {
	Error(c, http.StatusForbidden, detail)
}

func NotFound(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, detail)
}

func Conflict(c *gin.Context, detail string) {
	Error(c, http.StatusConflict, detail)
}

func TooManyRequests(c *gin.Context, detail string) {
	Error(c, http.StatusTooManyRequests, detail)
}

// InternalError 记录日志并上报 Sentry，不向客户端暴露内部错误
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	)
	errtrack.CaptureRequest(c.Request, err)
	Error(c, http.StatusInternalServerError, "Internal server error.")
}
