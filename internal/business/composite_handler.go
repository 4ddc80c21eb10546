package business

import (
	"context"
	"fmt"

	"cropwatch/common/model"
	"cropwatch/internal/business/agent"
	"cropwatch/internal/business/outlier"
	"cropwatch/internal/metrics"
	"cropwatch/pkg/errorutil"
)

// CompositeHandler 复合分析处理器（规则告警 + 离群检测）
type CompositeHandler struct {
	agent    *agent.Agent
	detector *outlier.Detector // 可为 nil（未启用离群检测）
}

// NewCompositeHandler 创建复合分析处理器实例
func NewCompositeHandler(a *agent.Agent, detector *outlier.Detector) *CompositeHandler {
	if a == nil {
		a = agent.New(nil)
	}
	return &CompositeHandler{
		agent:    a,
		detector: detector,
	}
}

// AnalyzeInput 分析输入参数（所有数据从 payload 传入）
type AnalyzeInput struct {
	RequestID  string
	ActionType string
	Timestamp  string
	Plots      []model.PlotReadings
}

// Analyze 执行完整的分析流程
// 返回每个地块的告警与汇总，以及全部地块的汇总
func (h *CompositeHandler) Analyze(ctx context.Context, input *AnalyzeInput) (*model.AnalysisResultData, error) {
	if input == nil || len(input.Plots) == 0 {
		return nil, errorutil.NonRetriable("no plots to analyze")
	}

	result := &model.AnalysisResultData{
		Timestamp: input.Timestamp,
		Plots:     make([]model.PlotAnalysis, 0, len(input.Plots)),
	}

	// 1. 规则告警（逐地块）
	all := make([]model.AnomalyAlert, 0)
	for _, plot := range input.Plots {
		if plot.PlotID == "" {
			return nil, errorutil.NonRetriable("plot_id is required")
		}
		if plot.Readings == nil {
			return nil, errorutil.NonRetriable(fmt.Sprintf("plot %s: readings are required", plot.PlotID))
		}

		alerts := h.agent.Analyze(plot.Readings, plot.PlotID, input.Timestamp)
		for _, a := range alerts {
			metrics.AlertsRaised.WithLabelValues(a.Category.String(), a.Severity.String()).Inc()
		}
		metrics.BatchesAnalyzed.WithLabelValues(input.ActionType).Inc()

		result.Plots = append(result.Plots, model.PlotAnalysis{
			PlotID:  plot.PlotID,
			Alerts:  alerts,
			Summary: agent.Summarize(alerts),
		})
		all = append(all, alerts...)
	}

	// 2. 离群检测（独立信号，不影响规则告警）
	if h.detector != nil {
		result.Outliers = h.detectOutliers(input.Plots, result.Plots)
	}

	// 3. 全局汇总
	result.Summary = agent.Summarize(all)

	return result, nil
}

// detectOutliers 对完整特征向量运行离群检测，结论写回对应地块
func (h *CompositeHandler) detectOutliers(plots []model.PlotReadings, analyses []model.PlotAnalysis) *model.OutlierReport {
	vectors := make([][]float64, 0, len(plots))
	index := make([]int, 0, len(plots))
	for i, plot := range plots {
		if v, ok := outlier.FeatureVector(plot.Readings); ok {
			vectors = append(vectors, v)
			index = append(index, i)
		}
	}

	report := &model.OutlierReport{AnomalousPlots: make([]string, 0)}
	if len(vectors) == 0 {
		report.Fitted = h.detector.Fitted()
		return report
	}

	results, fitted := h.detector.Detect(vectors)
	report.Fitted = fitted
	if !fitted {
		return report
	}

	report.Evaluated = len(results)
	for j, r := range results {
		i := index[j]
		analyses[i].Outlier = &model.OutlierVerdict{Label: r.Label, Score: r.Score}
		if r.Label == model.OutlierAnomalous {
			report.AnomalousPlots = append(report.AnomalousPlots, plots[i].PlotID)
		}
		metrics.OutlierVerdicts.WithLabelValues(string(r.Label)).Inc()
	}
	return report
}
