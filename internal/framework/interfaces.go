package framework

import (
	"context"
	"time"
)

// MessageSource 分析任务与回调的队列来源，由 pkg/lmstfy.Client 实现
type MessageSource interface {
	// Consume 阻塞至多 timeout；无任务时返回 (nil, nil)
	Consume(queue string, timeout time.Duration, ttr time.Duration) (*Message, error)
	Ack(queue string, jobID string) error
}

// Logger 框架使用的 printf 风格日志
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
}

// ProcessorFunc 分析前的校验步骤
type ProcessorFunc func(ctx context.Context) error
