package plot

import (
	"github.com/gin-gonic/gin"

	"cropwatch/internal/app/domains/apimodel/request"
	"cropwatch/internal/app/domains/apimodel/response"
	"cropwatch/internal/app/pkg/ginx"
)

// Create godoc
// @Summary      创建地块
// @Description  登记一个新的地块，读数与告警都关联到地块
// @Tags         plots
// @Accept       json
// @Produce      json
// @Param        request body request.CreatePlotRequest true "创建地块请求"
// @Success      201 {object} ginx.Response{data=response.PlotResponse} "创建成功"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      500 {object} ginx.Response "服务器错误"
// @Router       /plots [post]
func (h *PlotHandler) Create(c *gin.Context) {
	var req request.CreatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	plot, err := h.plotService.CreatePlot(c.Request.Context(), req.ToInput())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Created(c, response.FromPlotEntity(plot))
}
