package request

import "time"

// IngestReadingsRequest 读数上报请求（HTTP 与 MQTT 共用）
type IngestReadingsRequest struct {
	PlotID    string        `json:"plot_id" binding:"required" example:"3"`
	Timestamp *time.Time    `json:"timestamp,omitempty" example:"2026-10-19T08:00:00Z"`
	Readings  []ReadingItem `json:"readings" binding:"required,min=1,dive"`
}

// ListReadingsQuery 读数历史查询参数
type ListReadingsQuery struct {
	SensorType string `form:"sensor_type" binding:"omitempty,sensor_type" example:"temperature"`
	Ordering   string `form:"ordering" binding:"omitempty,oneof=timestamp -timestamp value -value" example:"-timestamp"`
	PageQuery
}

// ReadingItem 单条读数
type ReadingItem struct {
	SensorType string     `json:"sensor_type" binding:"required,sensor_type" example:"temperature"`
	Value      *float64   `json:"value" binding:"required" example:"24.1"`
	Unit       string     `json:"unit" binding:"max=20" example:"°C"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}
