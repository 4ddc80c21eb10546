package response

import (
	"strconv"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etalert"
	"cropwatch/internal/app/domains/entity/etplot"
	"cropwatch/internal/app/domains/entity/etreading"
	"cropwatch/internal/app/domains/services/svalert"
	"cropwatch/internal/app/domains/services/svanalysis"
)

// FromPlotEntity 从领域对象转换为响应 DTO
func FromPlotEntity(plot *etplot.Plot) *PlotResponse {
	return &PlotResponse{
		ID:          plot.IDString(),
		Name:        plot.Name,
		Description: plot.Description,
		Location:    plot.Location,
		CropType:    plot.CropType,
		Size:        plot.Size,
		Status:      string(plot.Status),
		CreatedAt:   plot.CreatedAt,
		UpdatedAt:   plot.UpdatedAt,
	}
}

// FromPlotEntities 批量转换
func FromPlotEntities(plots []*etplot.Plot) []*PlotResponse {
	out := make([]*PlotResponse, 0, len(plots))
	for _, p := range plots {
		out = append(out, FromPlotEntity(p))
	}
	return out
}

// FromReadingEntities 读数历史转换
func FromReadingEntities(readings []*etreading.Reading) []ReadingResponse {
	out := make([]ReadingResponse, 0, len(readings))
	for _, r := range readings {
		out = append(out, ReadingResponse{
			ID:         strconv.FormatInt(r.ID, 10),
			PlotID:     strconv.FormatInt(r.PlotID, 10),
			SensorType: r.Category.String(),
			Value:      r.Value,
			Unit:       r.Unit,
			Source:     r.Source,
			Timestamp:  r.Timestamp,
		})
	}
	return out
}

// FromLatestReadings 每个已知类别一个键，没有读数的类别为 null
func FromLatestReadings(readings []*etreading.Reading) map[string]*ReadingValue {
	out := make(map[string]*ReadingValue, len(model.Categories))
	for _, c := range model.Categories {
		out[c.String()] = nil
	}
	for _, r := range readings {
		out[r.Category.String()] = &ReadingValue{
			Value:     r.Value,
			Unit:      r.Unit,
			Source:    r.Source,
			Timestamp: r.Timestamp,
		}
	}
	return out
}

// FromAlertEntity 从领域对象转换为响应 DTO
func FromAlertEntity(alert *etalert.Alert) *AlertResponse {
	recs := alert.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return &AlertResponse{
		ID:              strconv.FormatInt(alert.ID, 10),
		PlotID:          strconv.FormatInt(alert.PlotID, 10),
		RequestID:       alert.RequestID,
		AlertType:       alert.Category.String(),
		Severity:        alert.Severity.String(),
		Message:         alert.Message,
		CurrentValue:    alert.CurrentValue,
		ThresholdValue:  alert.ThresholdValue,
		Recommendations: recs,
		IsResolved:      alert.IsResolved,
		ResolvedAt:      alert.ResolvedAt,
		Timestamp:       alert.Timestamp,
	}
}

// FromAlertEntities 批量转换
func FromAlertEntities(alerts []*etalert.Alert) []*AlertResponse {
	out := make([]*AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, FromAlertEntity(a))
	}
	return out
}

// FromAlertDetail 告警详情
func FromAlertDetail(detail *svalert.AlertDetail) *AlertDetailResponse {
	history := make([]HistoryResponse, 0, len(detail.History))
	for _, h := range detail.History {
		history = append(history, HistoryResponse{
			Action:    string(h.Action),
			Notes:     h.Notes,
			Timestamp: h.Timestamp,
		})
	}
	return &AlertDetailResponse{
		AlertResponse: FromAlertEntity(detail.Alert),
		History:       history,
	}
}

// FromPlotOutcome 单地块分析结果
func FromPlotOutcome(outcome *svanalysis.PlotOutcome) *AnalyzePlotResponse {
	resp := &AnalyzePlotResponse{
		RequestID:       outcome.RequestID,
		PlotID:          strconv.FormatInt(outcome.PlotID, 10),
		Status:          outcome.Status,
		Readings:        outcome.Readings,
		AlertsGenerated: len(outcome.Alerts),
		Alerts:          outcome.Alerts,
		Error:           outcome.Error,
	}
	if resp.Alerts == nil {
		resp.Alerts = []model.AnomalyAlert{}
	}
	if outcome.Status == svanalysis.StatusCompleted {
		summary := outcome.Summary
		resp.Summary = &summary
	}
	return resp
}

// FromFleetSubmission 全量分析任务
func FromFleetSubmission(sub *svanalysis.FleetSubmission) *FleetAnalyzeResponse {
	ids := make([]string, 0, len(sub.PlotIDs))
	for _, id := range sub.PlotIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	return &FleetAnalyzeResponse{
		RequestID:      sub.RequestID,
		PlotsSubmitted: len(ids),
		PlotIDs:        ids,
	}
}
