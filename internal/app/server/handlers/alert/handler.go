package alert

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"cropwatch/internal/app/domains/apimodel/request"
	"cropwatch/internal/app/domains/services/svalert"
)

// AlertHandler 告警 HTTP 处理器
type AlertHandler struct {
	alertService *svalert.AlertService
}

// NewAlertHandler 创建告警处理器实例
func NewAlertHandler(alertService *svalert.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// bindAction 请求体可省略
func bindAction(c *gin.Context) (request.AlertActionRequest, error) {
	var req request.AlertActionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}
