package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cropwatch/common/model"
	"cropwatch/internal/app/pkg/logger"
	"cropwatch/internal/framework"
	corelog "cropwatch/pkg/logger"
)

// CallbackHandler 回调处理（svcallback.CallbackService）
type CallbackHandler interface {
	HandleCallback(ctx context.Context, callback *model.PlotAnalysisCallback) error
}

// CallbackConsumer 回调消费者
// 职责：
// 1. 从 lmstfy 回调队列拉取 worker 的分析结果
// 2. 解析消息并调用 CallbackService 处理
// 3. 确认消息（ACK）
type CallbackConsumer struct {
	source    framework.MessageSource
	handler   CallbackHandler
	queueName string
	logger    logger.Logger

	// 消费配置
	timeout      time.Duration // 拉取消息超时
	ttr          time.Duration // Time-To-Run
	pollInterval time.Duration
}

// Config 消费者配置
type Config struct {
	QueueName    string        // 队列名称
	Timeout      time.Duration // 拉取消息超时
	TTR          time.Duration // Time-To-Run
	PollInterval time.Duration // 出错后的等待间隔
}

// NewCallbackConsumer 创建回调消费者实例
func NewCallbackConsumer(
	source framework.MessageSource,
	handler CallbackHandler,
	config *Config,
	log logger.Logger,
) *CallbackConsumer {
	return &CallbackConsumer{
		source:       source,
		handler:      handler,
		queueName:    config.QueueName,
		timeout:      config.Timeout,
		ttr:          config.TTR,
		pollInterval: config.PollInterval,
		logger:       log,
	}
}

// Start 启动消费循环，ctx 取消后返回
func (c *CallbackConsumer) Start(ctx context.Context) error {
	c.logger.Info("Callback consumer started",
		"queue", c.queueName,
		"timeout", c.timeout.String(),
		"ttr", c.ttr.String(),
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Callback consumer stopped")
			return ctx.Err()
		default:
			if err := c.consumeOne(ctx); err != nil {
				c.logger.Error("Failed to consume message", "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(c.pollInterval):
				}
			}
		}
	}
}

// consumeOne 消费一条消息
func (c *CallbackConsumer) consumeOne(ctx context.Context) error {
	// 1. 从队列拉取消息
	msg, err := c.source.Consume(c.queueName, c.timeout, c.ttr)
	if err != nil {
		return fmt.Errorf("consume message failed: %w", err)
	}
	if msg == nil {
		return nil
	}

	// 2. 解析回调消息
	callback, err := parseCallback(msg.Data)
	if err != nil {
		c.logger.Error("Failed to parse message", "job_id", msg.ID, "error", err)
		// 解析失败直接 ACK，避免反复投递
		_ = c.source.Ack(c.queueName, msg.ID)
		return err
	}

	ctx = corelog.WithTraceID(ctx, callback.RequestID)
	c.logger.InfoContext(ctx, "Received callback message",
		"job_id", msg.ID,
		"action_type", callback.ActionType,
		"status", callback.Status,
	)

	// 3. 处理回调，失败不 ACK，由 TTR 到期后重新投递
	if err := c.handler.HandleCallback(ctx, callback); err != nil {
		c.logger.ErrorContext(ctx, "Failed to handle callback",
			"job_id", msg.ID,
			"plot_id", callback.PlotID,
			"error", err,
		)
		return err
	}

	// 4. 确认消息
	if err := c.source.Ack(c.queueName, msg.ID); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Callback message processed successfully", "job_id", msg.ID)
	return nil
}

// parseCallback 解析并校验回调消息
func parseCallback(data []byte) (*model.PlotAnalysisCallback, error) {
	var callback model.PlotAnalysisCallback
	if err := json.Unmarshal(data, &callback); err != nil {
		return nil, fmt.Errorf("unmarshal callback failed: %w", err)
	}

	if callback.RequestID == "" {
		return nil, fmt.Errorf("request_id is required")
	}
	if callback.Status == "" {
		return nil, fmt.Errorf("status is required")
	}
	return &callback, nil
}
