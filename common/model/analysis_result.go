package model

// AnalysisResultData 一次分析任务的完整结果
type AnalysisResultData struct {
	Timestamp string         `json:"timestamp"`
	Plots     []PlotAnalysis `json:"plots"`
	Summary   AlertsSummary  `json:"summary"` // 全部地块告警汇总
	Outliers  *OutlierReport `json:"outliers,omitempty"`
}

// PlotAnalysis 单个地块的分析结果
type PlotAnalysis struct {
	PlotID  string          `json:"plot_id"`
	Alerts  []AnomalyAlert  `json:"alerts"`
	Summary AlertsSummary   `json:"summary"`
	Outlier *OutlierVerdict `json:"outlier,omitempty"`
}

// AllAlerts 按地块顺序展开全部告警
func (d *AnalysisResultData) AllAlerts() []AnomalyAlert {
	if d == nil {
		return nil
	}
	out := make([]AnomalyAlert, 0)
	for _, p := range d.Plots {
		out = append(out, p.Alerts...)
	}
	return out
}

// AnalysisNotification 分析完成通知（redis 推送 / websocket 广播）
type AnalysisNotification struct {
	RequestID string         `json:"request_id"`
	Status    string         `json:"status"`
	Alerts    []AnomalyAlert `json:"alerts"`
	Summary   AlertsSummary  `json:"summary"`
	Error     string         `json:"error,omitempty"`
	Timestamp int64          `json:"timestamp"`
}
