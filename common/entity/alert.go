package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Alert 告警实体（由回调消费者写入）
// request_id + plot_id + alert_type 唯一，回调重复投递时不会重复写入
type Alert struct {
	ID              int64          `gorm:"column:id;primaryKey;autoIncrement:false"`
	PlotID          int64          `gorm:"column:plot_id;not null;index:idx_alert_plot_time,priority:1;uniqueIndex:uk_request_plot_type,priority:2"`
	RequestID       string         `gorm:"column:request_id;type:varchar(64);not null;uniqueIndex:uk_request_plot_type,priority:1"`
	AlertType       string         `gorm:"column:alert_type;type:varchar(50);not null;uniqueIndex:uk_request_plot_type,priority:3"`
	Severity        string         `gorm:"column:severity;type:varchar(20);not null;index:idx_alert_severity_time,priority:1"`
	Message         string         `gorm:"column:message;type:text;not null"`
	CurrentValue    float64        `gorm:"column:current_value;not null"`
	ThresholdValue  float64        `gorm:"column:threshold_value;not null"`
	Recommendations datatypes.JSON `gorm:"column:recommendations;type:json"`
	IsResolved      bool           `gorm:"column:is_resolved;not null;default:false"`
	ResolvedAt      *time.Time     `gorm:"column:resolved_at"`
	Timestamp       time.Time      `gorm:"column:timestamp;not null;index:idx_alert_plot_time,priority:2,sort:desc;index:idx_alert_severity_time,priority:2,sort:desc"`
}

// TableName 指定表名
func (Alert) TableName() string {
	return "alerts"
}

// AlertHistory 告警操作记录
type AlertHistory struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	AlertID   int64     `gorm:"column:alert_id;not null;index:idx_history_alert"`
	Action    string    `gorm:"column:action;type:varchar(50);not null"`
	Notes     string    `gorm:"column:notes;type:text"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
}

// TableName 指定表名
func (AlertHistory) TableName() string {
	return "alert_histories"
}

// 告警操作常量
const (
	AlertActionCreated      = "created"
	AlertActionViewed       = "viewed"
	AlertActionAcknowledged = "acknowledged"
	AlertActionResolved     = "resolved"
)
