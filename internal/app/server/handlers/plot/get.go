package plot

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"cropwatch/internal/app/domains/apimodel/request"
	"cropwatch/internal/app/domains/apimodel/response"
	"cropwatch/internal/app/pkg/ginx"
)

// Get godoc
// @Summary      获取地块详情
// @Tags         plots
// @Produce      json
// @Param        id path int true "地块ID"
// @Success      200 {object} ginx.Response{data=response.PlotResponse} "查询成功"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      404 {object} ginx.Response "地块不存在"
// @Router       /plots/{id} [get]
func (h *PlotHandler) Get(c *gin.Context) {
	plotID, ok := ginx.PathID(c, "id")
	if !ok {
		return
	}

	plot, err := h.plotService.GetPlot(c.Request.Context(), plotID)
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromPlotEntity(plot))
}

// List godoc
// @Summary      地块列表
// @Tags         plots
// @Produce      json
// @Param        page  query int false "页码"
// @Param        limit query int false "每页数量"
// @Success      200 {object} ginx.Response{data=response.ListResponse} "查询成功"
// @Router       /plots [get]
func (h *PlotHandler) List(c *gin.Context) {
	var q request.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	plots, page, err := h.plotService.ListPlots(c.Request.Context(), q.ToPagination())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.ListResponse{
		Items: response.FromPlotEntities(plots),
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
	})
}

// LatestReadings godoc
// @Summary      地块最新读数
// @Description  每类传感器的最新一条读数，没有读数的类别为 null
// @Tags         plots
// @Produce      json
// @Param        id path int true "地块ID"
// @Success      200 {object} ginx.Response{data=response.LatestReadingsResponse} "查询成功"
// @Failure      404 {object} ginx.Response "地块不存在"
// @Router       /plots/{id}/readings/latest [get]
func (h *PlotHandler) LatestReadings(c *gin.Context) {
	plotID, ok := ginx.PathID(c, "id")
	if !ok {
		return
	}

	readings, err := h.plotService.LatestReadings(c.Request.Context(), plotID)
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.LatestReadingsResponse{
		PlotID:   strconv.FormatInt(plotID, 10),
		Readings: response.FromLatestReadings(readings),
	})
}

// Readings godoc
// @Summary      地块读数历史
// @Tags         plots
// @Produce      json
// @Param        id          path  int    true  "地块ID"
// @Param        sensor_type query string false "传感器类别，可用 temp、hum 等简写"
// @Param        ordering    query string false "排序：timestamp、-timestamp、value、-value"
// @Param        page        query int    false "页码"
// @Param        limit       query int    false "每页数量"
// @Success      200 {object} ginx.Response{data=response.ListResponse} "查询成功"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      404 {object} ginx.Response "地块不存在"
// @Router       /plots/{id}/readings [get]
func (h *PlotHandler) Readings(c *gin.Context) {
	plotID, ok := ginx.PathID(c, "id")
	if !ok {
		return
	}

	var q request.ListReadingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	readings, page, err := h.plotService.ListReadings(c.Request.Context(), q.ToFilter(plotID))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.ListResponse{
		Items: response.FromReadingEntities(readings),
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
	})
}
