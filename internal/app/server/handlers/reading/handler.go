package reading

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"cropwatch/internal/app/domains/apimodel/request"
	"cropwatch/internal/app/domains/apimodel/response"
	"cropwatch/internal/app/domains/entity/etplot"
	"cropwatch/internal/app/domains/entity/etreading"
	"cropwatch/internal/app/domains/services/svplot"
	"cropwatch/internal/app/pkg/errorx"
	"cropwatch/internal/app/pkg/ginx"
)

// ReadingHandler 读数上报处理器
type ReadingHandler struct {
	plotService *svplot.PlotService
}

// NewReadingHandler 创建读数处理器实例
func NewReadingHandler(plotService *svplot.PlotService) *ReadingHandler {
	return &ReadingHandler{
		plotService: plotService,
	}
}

// Ingest godoc
// @Summary      上报传感器读数
// @Description  批量写入一个地块的读数，未知传感器类型会被拒绝
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        request body request.IngestReadingsRequest true "读数"
// @Success      201 {object} ginx.Response{data=response.IngestResponse} "写入成功"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      404 {object} ginx.Response "地块不存在"
// @Router       /readings [post]
func (h *ReadingHandler) Ingest(c *gin.Context) {
	var req request.IngestReadingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	plotID, ok := etplot.ParseID(req.PlotID)
	if !ok {
		ginx.FromError(c, errorx.ErrInvalidPlotID)
		return
	}

	readings, err := h.plotService.IngestReadings(c.Request.Context(), plotID, req.ToInputs(), etreading.SourceAPI)
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Created(c, response.IngestResponse{
		PlotID: strconv.FormatInt(plotID, 10),
		Stored: len(readings),
	})
}
