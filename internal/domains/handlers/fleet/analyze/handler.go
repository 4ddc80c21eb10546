package analyze

import (
	"context"

	"cropwatch/common/model"
	"cropwatch/internal/business"
	"cropwatch/internal/domains/common"
	"cropwatch/internal/domains/common/response"
	"cropwatch/internal/framework"
	"cropwatch/pkg/errorutil"
)

// FleetAnalyzeHandler 多地块批量分析 Handler（规则告警 + 离群检测）
type FleetAnalyzeHandler struct {
	ctx  context.Context
	base *framework.BaseHandler
	svc  *business.AnalysisService
	data model.FleetAnalyzeData
}

// NewFleetAnalyzeHandler 创建批量分析 Handler
func NewFleetAnalyzeHandler(ctx context.Context, base *framework.BaseHandler, svc *business.AnalysisService) (common.HandlerServ, error) {
	var data model.FleetAnalyzeData
	if err := base.DecodePayload(&data); err != nil {
		return nil, errorutil.NonRetriableWithDetails("decode fleet_analyze data failed", err.Error())
	}

	return &FleetAnalyzeHandler{
		ctx:  ctx,
		base: base,
		svc:  svc,
		data: data,
	}, nil
}

// GetProcess 处理批量分析请求
func (h *FleetAnalyzeHandler) GetProcess() *response.Response {
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

func (h *FleetAnalyzeHandler) validate(ctx context.Context) error {
	if len(h.data.Plots) == 0 {
		return errorutil.NonRetriable("plots are required")
	}
	seen := make(map[string]struct{}, len(h.data.Plots))
	for _, p := range h.data.Plots {
		if p.PlotID == "" {
			return errorutil.NonRetriable("plot_id is required")
		}
		if _, dup := seen[p.PlotID]; dup {
			return errorutil.NonRetriable("duplicate plot_id " + p.PlotID)
		}
		seen[p.PlotID] = struct{}{}
	}
	if h.svc == nil {
		return errorutil.NonRetriable("analysis service not configured")
	}
	return nil
}

func (h *FleetAnalyzeHandler) analyze(ctx context.Context, result *response.AnalysisResult) error {
	meta := h.base.GetMeta()
	out, err := h.svc.ExecuteAnalysis(ctx, &business.AnalyzeInput{
		RequestID:  meta.RequestID,
		ActionType: meta.ActionType,
		Timestamp:  h.data.Timestamp,
		Plots:      h.data.Plots,
	})
	if err != nil {
		return err
	}
	result.Fill(out)
	h.base.SetOutput(out)
	return nil
}
