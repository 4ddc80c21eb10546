package svalert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etalert"
	"cropwatch/internal/app/domains/entity/etprimitive"
	"cropwatch/internal/app/domains/modules/mdalert"
	"cropwatch/internal/app/domains/modules/mdplot"
	"cropwatch/internal/app/pkg/errorx"
	"cropwatch/internal/app/pkg/logger"
	"cropwatch/internal/business/agent"
)

// AlertDetail 告警及其操作记录
type AlertDetail struct {
	Alert   *etalert.Alert
	History []*etalert.History
}

// AlertService 告警服务：查询、汇总、处理
type AlertService struct {
	alertModule *mdalert.AlertModule
	plotModule  *mdplot.PlotModule
	logger      logger.Logger
	now         func() time.Time
}

// NewAlertService 创建告警服务实例
func NewAlertService(alertModule *mdalert.AlertModule, plotModule *mdplot.PlotModule, log logger.Logger) *AlertService {
	return &AlertService{
		alertModule: alertModule,
		plotModule:  plotModule,
		logger:      log,
		now:         time.Now,
	}
}

// ListAlerts 分页查询告警
func (s *AlertService) ListAlerts(ctx context.Context, filter etalert.Filter) ([]*etalert.Alert, etprimitive.Pagination, error) {
	filter.Pagination = filter.Pagination.Normalize()
	alerts, total, err := s.alertModule.ListAlerts(ctx, filter)
	if err != nil {
		return nil, filter.Pagination, fmt.Errorf("list alerts failed: %w", err)
	}
	page := filter.Pagination
	page.Total = total
	return alerts, page, nil
}

// PlotAlerts 地块未解决告警
func (s *AlertService) PlotAlerts(ctx context.Context, plotID int64) ([]*etalert.Alert, error) {
	if err := s.ensurePlot(ctx, plotID); err != nil {
		return nil, err
	}
	alerts, err := s.alertModule.AllAlerts(ctx, etalert.Filter{PlotID: plotID, UnresolvedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list plot alerts failed: %w", err)
	}
	return alerts, nil
}

// GetAlert 查询告警并记录 viewed
func (s *AlertService) GetAlert(ctx context.Context, alertID int64) (*AlertDetail, error) {
	alert, err := s.mustGet(ctx, alertID)
	if err != nil {
		return nil, err
	}

	s.record(ctx, alertID, etalert.ActionViewed, "")

	history, err := s.alertModule.History(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("list alert history failed: %w", err)
	}
	return &AlertDetail{Alert: alert, History: history}, nil
}

// Summary 告警汇总，plotID 为 0 时统计全部地块
func (s *AlertService) Summary(ctx context.Context, plotID int64, unresolvedOnly bool) (model.AlertsSummary, error) {
	if plotID > 0 {
		if err := s.ensurePlot(ctx, plotID); err != nil {
			return model.AlertsSummary{}, err
		}
	}
	alerts, err := s.alertModule.AllAlerts(ctx, etalert.Filter{PlotID: plotID, UnresolvedOnly: unresolvedOnly})
	if err != nil {
		return model.AlertsSummary{}, fmt.Errorf("query alerts failed: %w", err)
	}

	anomalies := make([]model.AnomalyAlert, 0, len(alerts))
	for _, a := range alerts {
		anomalies = append(anomalies, a.ToAnomaly())
	}
	return agent.Summarize(anomalies), nil
}

// Acknowledge 确认告警（只记录操作，不改变状态）
func (s *AlertService) Acknowledge(ctx context.Context, alertID int64, notes string) error {
	if _, err := s.mustGet(ctx, alertID); err != nil {
		return err
	}
	history, err := etalert.NewHistory(alertID, etalert.ActionAcknowledged, notes, s.now())
	if err != nil {
		return err
	}
	if err := s.alertModule.RecordHistory(ctx, history); err != nil {
		return fmt.Errorf("record acknowledge failed: %w", err)
	}
	return nil
}

// ResolveAlert 解决告警
func (s *AlertService) ResolveAlert(ctx context.Context, alertID int64, notes string) (*etalert.Alert, error) {
	alert, err := s.mustGet(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if err := alert.Resolve(s.now()); err != nil {
		return nil, errorx.ErrAlertAlreadyResolved
	}
	if err := s.alertModule.ResolveAlert(ctx, alert, notes); err != nil {
		if errors.Is(err, etalert.ErrAlreadyResolved) {
			return nil, errorx.ErrAlertAlreadyResolved
		}
		return nil, fmt.Errorf("resolve alert failed: %w", err)
	}

	s.logger.InfoContext(ctx, "Alert resolved", "alert_id", alertID, "plot_id", alert.PlotID)
	return alert, nil
}

func (s *AlertService) mustGet(ctx context.Context, alertID int64) (*etalert.Alert, error) {
	alert, err := s.alertModule.GetAlert(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("get alert failed: %w", err)
	}
	if alert == nil {
		return nil, errorx.ErrAlertNotFound
	}
	return alert, nil
}

func (s *AlertService) ensurePlot(ctx context.Context, plotID int64) error {
	plot, err := s.plotModule.GetPlot(ctx, plotID)
	if err != nil {
		return fmt.Errorf("get plot failed: %w", err)
	}
	if plot == nil {
		return errorx.ErrPlotNotFound
	}
	return nil
}

// record 记录操作历史，失败只告警
func (s *AlertService) record(ctx context.Context, alertID int64, action etalert.HistoryAction, notes string) {
	history, err := etalert.NewHistory(alertID, action, notes, s.now())
	if err == nil {
		err = s.alertModule.RecordHistory(ctx, history)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Record alert history failed",
			"alert_id", alertID,
			"action", string(action),
			"error", err,
		)
	}
}
