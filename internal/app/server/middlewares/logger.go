package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cropwatch/internal/app/pkg/logger"
	corelog "cropwatch/pkg/logger"
)

// RequestIDHeader 请求 ID 头，写入 Context 作为 trace_id
const RequestIDHeader = "X-Request-ID"

// Logger 访问日志，并为每个请求注入 trace_id
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(corelog.WithTraceID(c.Request.Context(), requestID))

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.ErrorContext(c.Request.Context(), "HTTP request", fields...)
		case status >= 400:
			log.WarnContext(c.Request.Context(), "HTTP request", fields...)
		default:
			log.InfoContext(c.Request.Context(), "HTTP request", fields...)
		}
	}
}
