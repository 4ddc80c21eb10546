package analysis

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"cropwatch/internal/app/domains/apimodel/request"
	"cropwatch/internal/app/domains/apimodel/response"
	"cropwatch/internal/app/domains/services/svanalysis"
	"cropwatch/internal/app/pkg/ginx"
)

// AnalysisHandler 分析任务处理器
type AnalysisHandler struct {
	analysisService *svanalysis.AnalysisService
}

// NewAnalysisHandler 创建分析处理器实例
func NewAnalysisHandler(analysisService *svanalysis.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// AnalyzePlot godoc
// @Summary      分析单个地块
// @Description  用每类最新读数发起分析；wait>0 时在该时长内等待结果（Smart Wait），超时返回 3001 与轮询地址
// @Tags         analysis
// @Produce      json
// @Param        id   path  int true  "地块ID"
// @Param        wait query int false "等待秒数"
// @Success      200 {object} ginx.Response{data=response.AnalyzePlotResponse} "分析完成"
// @Success      200 {object} ginx.Response{data=ginx.ProcessingData} "处理中"
// @Failure      404 {object} ginx.Response "地块或读数不存在"
// @Router       /plots/{id}/analyze [post]
func (h *AnalysisHandler) AnalyzePlot(c *gin.Context) {
	plotID, ok := ginx.PathID(c, "id")
	if !ok {
		return
	}
	var q request.AnalyzeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	outcome, err := h.analysisService.AnalyzePlot(c.Request.Context(), plotID, q.WaitDuration())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	if outcome.Status == svanalysis.StatusProcessing {
		ginx.Processing(c, outcome.RequestID, fmt.Sprintf("/api/v1/plots/%d/alerts", plotID))
		return
	}
	ginx.Success(c, response.FromPlotOutcome(outcome))
}

// AnalyzeFleet godoc
// @Summary      分析全部地块
// @Description  为所有有读数的地块发起一次批量分析，结果通过告警列表或 websocket 获取
// @Tags         analysis
// @Produce      json
// @Success      202 {object} ginx.Response{data=response.FleetAnalyzeResponse} "已受理"
// @Failure      404 {object} ginx.Response "没有读数"
// @Router       /plots/analyze [post]
func (h *AnalysisHandler) AnalyzeFleet(c *gin.Context) {
	submission, err := h.analysisService.AnalyzeFleet(c.Request.Context())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Accepted(c, response.FromFleetSubmission(submission))
}
