package svcallback

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etalert"
	"cropwatch/internal/app/domains/modules/mdalert"
	"cropwatch/internal/app/domains/modules/mdanalysis"
	"cropwatch/internal/app/pkg/logger"
	"cropwatch/internal/metrics"
)

// FeedChannel 新告警推送频道（apiserver 转发到 websocket）
const FeedChannel = "alerts:feed"

// Notifier Redis 发布（PubSubClient 实现）
type Notifier interface {
	PublishJSON(ctx context.Context, channel string, v interface{}) error
}

// CallbackService 回调处理服务
// 职责：
// 1. 处理 worker 发送的分析回调
// 2. 告警落库（幂等）并记录历史
// 3. 发送 Redis 通知（Smart Wait + 告警推送）
type CallbackService struct {
	alertModule *mdalert.AlertModule
	notifier    Notifier
	nextID      func() int64
	logger      logger.Logger
	now         func() time.Time
}

// NewCallbackService 创建回调服务实例，nextID 为告警 ID 生成器
func NewCallbackService(
	alertModule *mdalert.AlertModule,
	notifier Notifier,
	nextID func() int64,
	log logger.Logger,
) *CallbackService {
	return &CallbackService{
		alertModule: alertModule,
		notifier:    notifier,
		nextID:      nextID,
		logger:      log,
		now:         time.Now,
	}
}

// HandleCallback 处理分析回调
// 返回 error 表示处理失败（需要重试）；通知失败不影响结果
func (s *CallbackService) HandleCallback(ctx context.Context, callback *model.PlotAnalysisCallback) error {
	s.logger.InfoContext(ctx, "Processing callback",
		"request_id", callback.RequestID,
		"action_type", callback.ActionType,
		"status", callback.Status,
	)

	// 1. 成功回调：告警落库
	var created []*etalert.Alert
	if callback.Status == model.CallbackStatusSuccess && callback.AnalysisResult != nil {
		var err error
		created, err = s.persistAlerts(ctx, callback)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist alerts",
				"request_id", callback.RequestID,
				"error", err,
			)
			return fmt.Errorf("persist alerts failed: %w", err)
		}
	}

	// 2. Smart Wait 通知
	if err := s.publishNotification(ctx, callback); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish Redis notification",
			"request_id", callback.RequestID,
			"error", err,
		)
	}

	// 3. 新告警推送
	for _, alert := range created {
		if err := s.notifier.PublishJSON(ctx, FeedChannel, toEvent(alert)); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish alert event",
				"alert_id", alert.ID,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "Callback processed successfully",
		"request_id", callback.RequestID,
		"alerts_created", len(created),
	)
	return nil
}

// persistAlerts 转换并保存告警，重复投递的告警被跳过
func (s *CallbackService) persistAlerts(ctx context.Context, callback *model.PlotAnalysisCallback) ([]*etalert.Alert, error) {
	anomalies := callback.AnalysisResult.AllAlerts()
	if len(anomalies) == 0 {
		return nil, nil
	}

	now := s.now()
	alerts := make([]*etalert.Alert, 0, len(anomalies))
	for _, a := range anomalies {
		alert, err := etalert.FromAnomaly(callback.RequestID, a, now)
		if err != nil {
			s.logger.WarnContext(ctx, "Skip invalid alert",
				"request_id", callback.RequestID,
				"plot_id", a.PlotID,
				"error", err,
			)
			continue
		}
		alert.ID = s.nextID()
		alerts = append(alerts, alert)
	}

	created, err := s.alertModule.SaveAlerts(ctx, alerts)
	if err != nil {
		return nil, err
	}
	metrics.AlertsPersisted.Add(float64(len(created)))
	return created, nil
}

// publishNotification 发送 Redis PubSub 通知（使用请求独立频道）
func (s *CallbackService) publishNotification(ctx context.Context, callback *model.PlotAnalysisCallback) error {
	notification := model.AnalysisNotification{
		RequestID: callback.RequestID,
		Status:    callback.Status,
		Alerts:    []model.AnomalyAlert{},
		Error:     callback.Error,
		Timestamp: s.now().Unix(),
	}
	if callback.AnalysisResult != nil {
		notification.Alerts = callback.AnalysisResult.AllAlerts()
		notification.Summary = callback.AnalysisResult.Summary
	}

	channel := mdanalysis.ResultChannel(callback.RequestID)
	if err := s.notifier.PublishJSON(ctx, channel, notification); err != nil {
		return fmt.Errorf("publish to redis failed: %w", err)
	}

	s.logger.InfoContext(ctx, "Redis notification sent",
		"request_id", callback.RequestID,
		"channel", channel,
	)
	return nil
}

func toEvent(alert *etalert.Alert) model.AlertEvent {
	return model.AlertEvent{
		Type: model.AlertEventType,
		Payload: model.AlertEventPayload{
			AlertID:      strconv.FormatInt(alert.ID, 10),
			RequestID:    alert.RequestID,
			AnomalyAlert: alert.ToAnomaly(),
		},
	}
}
