package analyze

import (
	"context"

	"cropwatch/common/model"
	"cropwatch/internal/business"
	"cropwatch/internal/domains/common"
	"cropwatch/internal/domains/common/response"
	"cropwatch/internal/framework"
	"cropwatch/pkg/errorutil"
	"cropwatch/pkg/logger"
)

// PlotAnalyzeHandler 单地块分析 Handler
type PlotAnalyzeHandler struct {
	ctx  context.Context
	base *framework.BaseHandler
	svc  *business.AnalysisService
	data model.PlotAnalyzeData
}

// NewPlotAnalyzeHandler 创建单地块分析 Handler
// 解析 plot_analyze 业务数据，plot_id 缺省时取 Job 的 id
func NewPlotAnalyzeHandler(ctx context.Context, base *framework.BaseHandler, svc *business.AnalysisService) (common.HandlerServ, error) {
	var data model.PlotAnalyzeData
	if err := base.DecodePayload(&data); err != nil {
		return nil, errorutil.NonRetriableWithDetails("decode plot_analyze data failed", err.Error())
	}
	if data.PlotID == "" && base.GetMeta() != nil {
		data.PlotID = base.GetMeta().ID
	}

	return &PlotAnalyzeHandler{
		ctx:  logger.WithPlotID(ctx, data.PlotID),
		base: base,
		svc:  svc,
		data: data,
	}, nil
}

// GetProcess 处理分析请求
func (h *PlotAnalyzeHandler) GetProcess() *response.Response {
	result := response.NewAnalysisResult()

	chain := framework.NewPreProcessor([]framework.ProcessorFunc{
		h.validate,
		func(ctx context.Context) error { return h.analyze(ctx, result) },
	})
	err := chain.Run(h.ctx)

	resp := &response.Response{}
	resp.WrapResponse(result, h.base.GetMeta(), err)
	return resp
}

func (h *PlotAnalyzeHandler) validate(ctx context.Context) error {
	if h.data.PlotID == "" {
		return errorutil.NonRetriable("plot_id is required")
	}
	if h.data.Readings == nil {
		return errorutil.NonRetriable("readings are required")
	}
	if h.svc == nil {
		return errorutil.NonRetriable("analysis service not configured")
	}
	return nil
}

func (h *PlotAnalyzeHandler) analyze(ctx context.Context, result *response.AnalysisResult) error {
	meta := h.base.GetMeta()
	out, err := h.svc.ExecuteAnalysis(ctx, &business.AnalyzeInput{
		RequestID:  meta.RequestID,
		ActionType: meta.ActionType,
		Timestamp:  h.data.Timestamp,
		Plots: []model.PlotReadings{
			{PlotID: h.data.PlotID, Readings: h.data.Readings},
		},
	})
	if err != nil {
		return err
	}
	result.Fill(out)
	h.base.SetOutput(out)
	return nil
}
