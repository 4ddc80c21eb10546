package etalert

import (
	"errors"
	"strconv"
	"time"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etprimitive"
)

// 错误定义
var (
	ErrInvalidPlotID     = errors.New("invalid plot ID")
	ErrInvalidRequestID  = errors.New("request ID cannot be empty")
	ErrUnknownCategory   = errors.New("unknown alert category")
	ErrUnknownSeverity   = errors.New("unknown alert severity")
	ErrAlreadyResolved   = errors.New("alert already resolved")
	ErrInvalidHistoryAct = errors.New("invalid alert history action")
)

// Alert 告警聚合根（领域对象）
type Alert struct {
	ID              int64
	PlotID          int64
	RequestID       string // 产生该告警的分析请求
	Category        model.SensorCategory
	Severity        model.Severity
	Message         string
	CurrentValue    float64
	ThresholdValue  float64
	Recommendations []string
	IsResolved      bool
	ResolvedAt      *time.Time
	Timestamp       time.Time
}

// FromAnomaly 由分析结果构造待持久化的告警
// 告警时间取分析时间戳，无法解析时取 now
func FromAnomaly(requestID string, a model.AnomalyAlert, now time.Time) (*Alert, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	plotID, err := strconv.ParseInt(a.PlotID, 10, 64)
	if err != nil || plotID <= 0 {
		return nil, ErrInvalidPlotID
	}
	if !a.Category.Known() {
		return nil, ErrUnknownCategory
	}
	if a.Severity < model.SeverityLow || a.Severity > model.SeverityCritical {
		return nil, ErrUnknownSeverity
	}

	ts := now
	if parsed, err := time.Parse(time.RFC3339Nano, a.Timestamp); err == nil {
		ts = parsed
	}

	recs := make([]string, len(a.Recommendations))
	copy(recs, a.Recommendations)

	return &Alert{
		PlotID:          plotID,
		RequestID:       requestID,
		Category:        a.Category,
		Severity:        a.Severity,
		Message:         a.Message,
		CurrentValue:    a.CurrentValue,
		ThresholdValue:  a.ThresholdValue,
		Recommendations: recs,
		Timestamp:       ts.UTC(),
	}, nil
}

// Resolve 标记为已解决
func (a *Alert) Resolve(now time.Time) error {
	if a.IsResolved {
		return ErrAlreadyResolved
	}
	t := now.UTC()
	a.IsResolved = true
	a.ResolvedAt = &t
	return nil
}

// ToAnomaly 转回分析模型（用于汇总统计与推送）
func (a *Alert) ToAnomaly() model.AnomalyAlert {
	return model.AnomalyAlert{
		PlotID:          strconv.FormatInt(a.PlotID, 10),
		Category:        a.Category,
		Severity:        a.Severity,
		Message:         a.Message,
		CurrentValue:    a.CurrentValue,
		ThresholdValue:  a.ThresholdValue,
		Timestamp:       a.Timestamp.Format(time.RFC3339),
		Recommendations: a.Recommendations,
	}
}

// HistoryAction 告警操作类型
type HistoryAction string

const (
	ActionCreated      HistoryAction = "created"
	ActionViewed       HistoryAction = "viewed"
	ActionAcknowledged HistoryAction = "acknowledged"
	ActionResolved     HistoryAction = "resolved"
)

// Valid 是否为已知操作
func (a HistoryAction) Valid() bool {
	switch a {
	case ActionCreated, ActionViewed, ActionAcknowledged, ActionResolved:
		return true
	}
	return false
}

// History 告警操作记录
type History struct {
	ID        int64
	AlertID   int64
	Action    HistoryAction
	Notes     string
	Timestamp time.Time
}

// NewHistory 创建操作记录
func NewHistory(alertID int64, action HistoryAction, notes string, now time.Time) (*History, error) {
	if !action.Valid() {
		return nil, ErrInvalidHistoryAct
	}
	return &History{
		AlertID:   alertID,
		Action:    action,
		Notes:     notes,
		Timestamp: now.UTC(),
	}, nil
}

// Filter 告警查询条件
type Filter struct {
	PlotID         int64          // 0 表示不限
	Severity       model.Severity // 0 表示不限
	UnresolvedOnly bool
	Since          time.Time // 零值表示不限
	Pagination     etprimitive.Pagination
}
