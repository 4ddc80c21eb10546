package middlewares

import (
	"github.com/gin-gonic/gin"

	"cropwatch/internal/app/pkg/ginx"
	"cropwatch/internal/app/pkg/logger"
)

// ErrorHandler 统一错误处理：记录 handler 写入的内部错误，未响应时补 500
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, err := range c.Errors {
			log.ErrorContext(c.Request.Context(), "Request failed",
				"path", c.Request.URL.Path,
				"error", err.Err,
			)
		}
		if !c.Writer.Written() {
			ginx.InternalError(c, "internal server error")
		}
	}
}

// Recovery 捕获 panic 并返回 500
func Recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.ErrorContext(c.Request.Context(), "Panic recovered",
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		ginx.InternalError(c, "internal server error")
		c.Abort()
	})
}
