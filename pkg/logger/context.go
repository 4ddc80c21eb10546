package logger

import "context"

type ctxKey string

// Context 中可被日志提取的字段
const (
	TraceIDKey    ctxKey = "trace_id"
	WorkerIDKey   ctxKey = "worker_id"
	ActionTypeKey ctxKey = "action_type"
	PlotIDKey     ctxKey = "plot_id"
	MessageIDKey  ctxKey = "message_id"
)

// WithTraceID 注入 trace_id（即 request_id）
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithWorkerID 注入 worker_id
func WithWorkerID(ctx context.Context, workerID int) context.Context {
	return context.WithValue(ctx, WorkerIDKey, workerID)
}

// WithActionType 注入 action_type
func WithActionType(ctx context.Context, actionType string) context.Context {
	return context.WithValue(ctx, ActionTypeKey, actionType)
}

// WithPlotID 注入 plot_id
func WithPlotID(ctx context.Context, plotID string) context.Context {
	return context.WithValue(ctx, PlotIDKey, plotID)
}

// WithMessageID 注入 message_id
func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, MessageIDKey, messageID)
}

// TraceID 读取 trace_id
func TraceID(ctx context.Context) string {
	v, _ := ctx.Value(TraceIDKey).(string)
	return v
}
