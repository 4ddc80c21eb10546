package mdanalysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cropwatch/common/model"
	"cropwatch/internal/app/infra/persistence/redis"
)

// JobPublisher 分析任务投递（lmstfy 客户端实现）
type JobPublisher interface {
	PublishJSON(queue string, v interface{}, ttl, delay uint32) (string, error)
}

// ResultListener 分析结果订阅（Redis Pub/Sub 实现）
type ResultListener interface {
	Listen(ctx context.Context, channel string) (redis.Subscription, error)
}

// AnalysisModule 分析模块
// 职责：
// 1. 构造分析任务消息（RequestID, ActionType, OrgID）
// 2. 约定结果频道命名并解析结果通知
type AnalysisModule struct {
	publisher JobPublisher
	listener  ResultListener
	queueName string
	jobTTL    uint32
}

// NewAnalysisModule 创建分析模块实例
func NewAnalysisModule(publisher JobPublisher, listener ResultListener, queueName string, jobTTL uint32) *AnalysisModule {
	return &AnalysisModule{
		publisher: publisher,
		listener:  listener,
		queueName: queueName,
		jobTTL:    jobTTL,
	}
}

// ResultChannel 分析结果频道：analysis:result:{requestID}
func ResultChannel(requestID string) string {
	return "analysis:result:" + requestID
}

// PublishPlotJob 发布单地块分析任务
func (m *AnalysisModule) PublishPlotJob(ctx context.Context, requestID, plotID string, readings model.ReadingBatch, ts time.Time) (string, error) {
	if requestID == "" || plotID == "" {
		return "", errors.New("request_id and plot_id are required")
	}
	job := newJob(requestID, model.ActionPlotAnalyze, plotID, model.PlotAnalyzeData{
		PlotID:    plotID,
		Timestamp: ts.UTC().Format(time.RFC3339),
		Readings:  readings,
	})
	return m.publish(job)
}

// PublishFleetJob 发布全量地块分析任务
func (m *AnalysisModule) PublishFleetJob(ctx context.Context, requestID string, plots []model.PlotReadings, ts time.Time) (string, error) {
	if requestID == "" {
		return "", errors.New("request_id is required")
	}
	if len(plots) == 0 {
		return "", errors.New("plots cannot be empty")
	}
	job := newJob(requestID, model.ActionFleetAnalyze, "", model.FleetAnalyzeData{
		Timestamp: ts.UTC().Format(time.RFC3339),
		Plots:     plots,
	})
	return m.publish(job)
}

// ListenResult 订阅分析结果，需在发布任务之前调用
func (m *AnalysisModule) ListenResult(ctx context.Context, requestID string) (redis.Subscription, error) {
	return m.listener.Listen(ctx, ResultChannel(requestID))
}

// WaitResult 在订阅上等待一条结果通知
func (m *AnalysisModule) WaitResult(ctx context.Context, sub redis.Subscription, timeout time.Duration) (*model.AnalysisNotification, error) {
	payload, err := sub.Next(ctx, timeout)
	if err != nil {
		return nil, err
	}
	return DecodeNotification(payload)
}

// DecodeNotification 解析结果通知
func DecodeNotification(payload string) (*model.AnalysisNotification, error) {
	var n model.AnalysisNotification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return nil, fmt.Errorf("unmarshal notification failed: %w", err)
	}
	if n.RequestID == "" || n.Status == "" {
		return nil, errors.New("notification missing request_id or status")
	}
	return &n, nil
}

func (m *AnalysisModule) publish(job model.AnalysisJob) (string, error) {
	jobID, err := m.publisher.PublishJSON(m.queueName, job, m.jobTTL, 0)
	if err != nil {
		return "", fmt.Errorf("publish %s job failed: %w", job.Payload.Data.ActionType, err)
	}
	return jobID, nil
}

func newJob(requestID, actionType, id string, data interface{}) model.AnalysisJob {
	return model.AnalysisJob{
		Payload: model.AnalysisPayload{
			Data: model.AnalysisJobData{
				RequestID:  requestID,
				OrgID:      "0",
				ActionType: actionType,
				ID:         id,
				Data:       data,
			},
		},
	}
}
