package rpalert

import (
	"context"

	"cropwatch/internal/app/domains/entity/etalert"
)

// AlertRepository 告警仓储接口
type AlertRepository interface {
	// CreateAlerts 写入告警并记录 created 历史
	// 已存在（request_id + plot_id + alert_type 冲突）的告警跳过，只返回新写入的
	CreateAlerts(ctx context.Context, alerts []*etalert.Alert) ([]*etalert.Alert, error)

	// GetByID 根据ID查询告警，不存在时返回 nil, nil
	GetByID(ctx context.Context, alertID int64) (*etalert.Alert, error)

	// List 按条件分页查询（按告警时间倒序）
	List(ctx context.Context, filter etalert.Filter) ([]*etalert.Alert, int64, error)

	// ListAll 按条件查询全部，忽略分页
	ListAll(ctx context.Context, filter etalert.Filter) ([]*etalert.Alert, error)

	// Resolve 将未解决告警标记为已解决并记录历史
	// 告警已被解决时返回 etalert.ErrAlreadyResolved
	Resolve(ctx context.Context, alert *etalert.Alert, notes string) error

	// AddHistory 追加操作记录
	AddHistory(ctx context.Context, history *etalert.History) error

	// ListHistory 告警操作记录（按写入顺序）
	ListHistory(ctx context.Context, alertID int64) ([]*etalert.History, error)
}
