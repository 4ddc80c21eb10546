package alert

import (
	"time"

	"github.com/gin-gonic/gin"

	"cropwatch/internal/app/domains/apimodel/request"
	"cropwatch/internal/app/domains/apimodel/response"
	"cropwatch/internal/app/pkg/ginx"
)

// List godoc
// @Summary      告警列表
// @Tags         alerts
// @Produce      json
// @Param        plot_id    query int    false "地块ID"
// @Param        severity   query string false "low/medium/high/critical"
// @Param        unresolved query bool   false "只看未解决"
// @Param        hours      query int    false "最近 N 小时"
// @Param        page       query int    false "页码"
// @Param        limit      query int    false "每页数量"
// @Success      200 {object} ginx.Response{data=response.ListResponse} "查询成功"
// @Failure      400 {object} ginx.Response "参数错误"
// @Router       /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	var q request.ListAlertsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	alerts, page, err := h.alertService.ListAlerts(c.Request.Context(), q.ToFilter(time.Now()))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.ListResponse{
		Items: response.FromAlertEntities(alerts),
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
	})
}

// PlotAlerts godoc
// @Summary      地块未解决告警
// @Tags         alerts
// @Produce      json
// @Param        id path int true "地块ID"
// @Success      200 {object} ginx.Response{data=[]response.AlertResponse} "查询成功"
// @Failure      404 {object} ginx.Response "地块不存在"
// @Router       /plots/{id}/alerts [get]
func (h *AlertHandler) PlotAlerts(c *gin.Context) {
	plotID, ok := ginx.PathID(c, "id")
	if !ok {
		return
	}

	alerts, err := h.alertService.PlotAlerts(c.Request.Context(), plotID)
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromAlertEntities(alerts))
}

// Summary godoc
// @Summary      告警汇总
// @Description  按严重度与类别统计告警，不传 plot_id 时统计全部地块
// @Tags         alerts
// @Produce      json
// @Param        plot_id    query int  false "地块ID"
// @Param        unresolved query bool false "只统计未解决"
// @Success      200 {object} ginx.Response{data=model.AlertsSummary} "查询成功"
// @Router       /alerts/summary [get]
func (h *AlertHandler) Summary(c *gin.Context) {
	var q request.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	summary, err := h.alertService.Summary(c.Request.Context(), q.PlotID, q.Unresolved)
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, summary)
}

// Get godoc
// @Summary      告警详情
// @Description  返回告警与操作记录，同时记录一次 viewed
// @Tags         alerts
// @Produce      json
// @Param        id path int true "告警ID"
// @Success      200 {object} ginx.Response{data=response.AlertDetailResponse} "查询成功"
// @Failure      404 {object} ginx.Response "告警不存在"
// @Router       /alerts/{id} [get]
func (h *AlertHandler) Get(c *gin.Context) {
	alertID, ok := ginx.PathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.alertService.GetAlert(c.Request.Context(), alertID)
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromAlertDetail(detail))
}
