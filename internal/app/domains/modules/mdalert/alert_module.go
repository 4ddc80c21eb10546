package mdalert

import (
	"context"

	"cropwatch/internal/app/domains/entity/etalert"
	"cropwatch/internal/app/domains/repo/rpalert"
)

// AlertModule 告警模块
type AlertModule struct {
	alertRepo rpalert.AlertRepository
}

// NewAlertModule 创建告警模块
func NewAlertModule(alertRepo rpalert.AlertRepository) *AlertModule {
	return &AlertModule{alertRepo: alertRepo}
}

// SaveAlerts 保存告警，返回新写入的告警
func (m *AlertModule) SaveAlerts(ctx context.Context, alerts []*etalert.Alert) ([]*etalert.Alert, error) {
	return m.alertRepo.CreateAlerts(ctx, alerts)
}

// GetAlert 查询告警
func (m *AlertModule) GetAlert(ctx context.Context, alertID int64) (*etalert.Alert, error) {
	return m.alertRepo.GetByID(ctx, alertID)
}

// ListAlerts 分页查询告警
func (m *AlertModule) ListAlerts(ctx context.Context, filter etalert.Filter) ([]*etalert.Alert, int64, error) {
	return m.alertRepo.List(ctx, filter)
}

// AllAlerts 查询全部匹配告警（用于汇总）
func (m *AlertModule) AllAlerts(ctx context.Context, filter etalert.Filter) ([]*etalert.Alert, error) {
	return m.alertRepo.ListAll(ctx, filter)
}

// ResolveAlert 解决告警
func (m *AlertModule) ResolveAlert(ctx context.Context, alert *etalert.Alert, notes string) error {
	return m.alertRepo.Resolve(ctx, alert, notes)
}

// RecordHistory 记录告警操作
func (m *AlertModule) RecordHistory(ctx context.Context, history *etalert.History) error {
	return m.alertRepo.AddHistory(ctx, history)
}

// History 告警操作记录
func (m *AlertModule) History(ctx context.Context, alertID int64) ([]*etalert.History, error) {
	return m.alertRepo.ListHistory(ctx, alertID)
}
