package business

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cropwatch/common/model"
	"cropwatch/pkg/errorutil"
)

// CallbackPublisher 回调投递（lmstfy 客户端实现）
type CallbackPublisher interface {
	Publish(queue string, data []byte, ttl, delay uint32) error
}

// AnalysisService 分析服务（仅负责分析逻辑，不涉及 DB 操作）
// 职责：执行分析 → 发送回调到 callback 队列
type AnalysisService struct {
	compositeHandler *CompositeHandler
	publisher        CallbackPublisher
	callbackQueue    string
}

// NewAnalysisService 创建分析服务实例
func NewAnalysisService(
	compositeHandler *CompositeHandler,
	publisher CallbackPublisher,
	callbackQueue string,
) *AnalysisService {
	return &AnalysisService{
		compositeHandler: compositeHandler,
		publisher:        publisher,
		callbackQueue:    callbackQueue,
	}
}

// ExecuteAnalysis 执行分析并发送回调
// 分析失败会先回调 FAILED，再返回不可重试错误；回调发送失败返回可重试错误
func (s *AnalysisService) ExecuteAnalysis(ctx context.Context, input *AnalyzeInput) (*model.AnalysisResultData, error) {
	// 1. 执行分析（不查询 DB，使用 payload 传入的数据）
	result, analyzeErr := s.compositeHandler.Analyze(ctx, input)

	// 2. 构造回调消息
	callback := model.PlotAnalysisCallback{
		RequestID:   input.RequestID,
		ActionType:  input.ActionType,
		ProcessedAt: time.Now().Unix(),
	}
	if input.ActionType == model.ActionPlotAnalyze && len(input.Plots) == 1 {
		callback.PlotID = input.Plots[0].PlotID
	}

	if analyzeErr != nil {
		callback.Status = model.CallbackStatusFailed
		callback.Error = analyzeErr.Error()
	} else {
		callback.Status = model.CallbackStatusSuccess
		callback.AnalysisResult = result
	}

	// 3. 序列化回调消息为 JSON
	callbackJSON, err := json.Marshal(callback)
	if err != nil {
		return nil, errorutil.NonRetriableWithDetails("marshal callback failed", err.Error())
	}

	// 4. 发送回调到 callback 队列
	// ttl=0 表示永不过期, delay=0 表示立即可用
	if err := s.publisher.Publish(s.callbackQueue, callbackJSON, 0, 0); err != nil {
		return nil, errorutil.RetriableWithDetails("publish callback failed", err.Error())
	}

	if analyzeErr != nil {
		return nil, fmt.Errorf("analyze: %w", analyzeErr)
	}
	return result, nil
}
