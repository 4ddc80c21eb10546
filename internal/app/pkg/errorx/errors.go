package errorx

import (
	"errors"
	"net/http"
)

// 业务错误
var (
	ErrPlotNotFound         = errors.New("plot not found")
	ErrAlertNotFound        = errors.New("alert not found")
	ErrNoReadings           = errors.New("no sensor readings available")
	ErrAlertAlreadyResolved = errors.New("alert already resolved")
	ErrAnalysisTimeout      = errors.New("analysis timeout")
	ErrInvalidPlotID        = errors.New("invalid plot id")
)

// BusinessError 业务错误结构
type BusinessError struct {
	Code    int
	Message string
	Details []ErrorDetail
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Path string
	Info string
}

// Error 实现 error 接口
func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError 创建业务错误
func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
	}
}

// HTTPStatus 将错误映射为 HTTP 状态码，未识别的错误返回 500
func HTTPStatus(err error) int {
	var be *BusinessError
	switch {
	case errors.As(err, &be):
		return be.Code
	case errors.Is(err, ErrPlotNotFound), errors.Is(err, ErrAlertNotFound), errors.Is(err, ErrNoReadings):
		return http.StatusNotFound
	case errors.Is(err, ErrAlertAlreadyResolved):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidPlotID):
		return http.StatusBadRequest
	case errors.Is(err, ErrAnalysisTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
