package response

import (
	"time"

	"cropwatch/common/model"
)

// AlertResponse 告警响应（DTO）
type AlertResponse struct {
	ID              string     `json:"id"`
	PlotID          string     `json:"plot_id"`
	RequestID       string     `json:"request_id"`
	AlertType       string     `json:"alert_type"`
	Severity        string     `json:"severity"`
	Message         string     `json:"message"`
	CurrentValue    float64    `json:"current_value"`
	ThresholdValue  float64    `json:"threshold_value"`
	Recommendations []string   `json:"recommendations"`
	IsResolved      bool       `json:"is_resolved"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
}

// HistoryResponse 告警操作记录（DTO）
type HistoryResponse struct {
	Action    string    `json:"action"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertDetailResponse 告警详情
type AlertDetailResponse struct {
	*AlertResponse
	History []HistoryResponse `json:"history"`
}

// AnalyzePlotResponse 单地块分析响应
type AnalyzePlotResponse struct {
	RequestID       string               `json:"request_id"`
	PlotID          string               `json:"plot_id"`
	Status          string               `json:"status"`
	Readings        model.ReadingBatch   `json:"readings"`
	AlertsGenerated int                  `json:"alerts_generated"`
	Alerts          []model.AnomalyAlert `json:"alerts"`
	Summary         *model.AlertsSummary `json:"summary,omitempty"`
	Error           string               `json:"error,omitempty"`
}

// FleetAnalyzeResponse 全量分析响应
type FleetAnalyzeResponse struct {
	RequestID      string   `json:"request_id"`
	PlotsSubmitted int      `json:"plots_submitted"`
	PlotIDs        []string `json:"plot_ids"`
}

// AlertActionResponse 告警操作结果
type AlertActionResponse struct {
	AlertID string `json:"alert_id"`
	Action  string `json:"action"`
}
