package alert

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"cropwatch/internal/app/domains/apimodel/response"
	"cropwatch/internal/app/domains/entity/etalert"
	"cropwatch/internal/app/pkg/ginx"
)

// Resolve godoc
// @Summary      解决告警
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        id      path int                        true  "告警ID"
// @Param        request body request.AlertActionRequest false "备注"
// @Success      200 {object} ginx.Response{data=response.AlertResponse} "已解决"
// @Failure      404 {object} ginx.Response "告警不存在"
// @Failure      409 {object} ginx.Response "告警已解决"
// @Router       /alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *gin.Context) {
	alertID, ok := ginx.PathID(c, "id")
	if !ok {
		return
	}
	req, err := bindAction(c)
	if err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	alert, err := h.alertService.ResolveAlert(c.Request.Context(), alertID, req.Notes)
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromAlertEntity(alert))
}

// Acknowledge godoc
// @Summary      确认告警
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        id      path int                        true  "告警ID"
// @Param        request body request.AlertActionRequest false "备注"
// @Success      200 {object} ginx.Response{data=response.AlertActionResponse} "已确认"
// @Failure      404 {object} ginx.Response "告警不存在"
// @Router       /alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	alertID, ok := ginx.PathID(c, "id")
	if !ok {
		return
	}
	req, err := bindAction(c)
	if err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	if err := h.alertService.Acknowledge(c.Request.Context(), alertID, req.Notes); err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.AlertActionResponse{
		AlertID: strconv.FormatInt(alertID, 10),
		Action:  string(etalert.ActionAcknowledged),
	})
}
