package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	corelog "cropwatch/pkg/logger"
)

// Logger 键值对风格的日志接口（apiserver / 回调消费者）
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})

	// Context 支持（用于链路追踪）
	InfoContext(ctx context.Context, msg string, fields ...interface{})
	ErrorContext(ctx context.Context, msg string, fields ...interface{})
	WarnContext(ctx context.Context, msg string, fields ...interface{})
	DebugContext(ctx context.Context, msg string, fields ...interface{})
}

// ZapLogger 基于 zap SugaredLogger 的实现
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger 创建 JSON 格式日志，level 取 debug/info/warn/error
func NewZapLogger(level string) (*ZapLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: l.Sugar()}, nil
}

// NewWithFile 同时输出到 stdout 和滚动日志文件，file 为空时等同 NewZapLogger
func NewWithFile(level, file string) (*ZapLogger, error) {
	if file == "" {
		return NewZapLogger(level)
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.NewMultiWriteSyncer(
		zapcore.Lock(zapcore.AddSync(os.Stdout)),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}),
	)
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, lvl)
	return NewFromZap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))), nil
}

// NewFromZap 包装已有的 zap.Logger
func NewFromZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: l.Sugar()}
}

// NewNop 丢弃所有日志
func NewNop() *ZapLogger {
	return NewFromZap(zap.NewNop())
}

// Zap 返回底层 zap.Logger（gin 中间件使用）
func (l *ZapLogger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

// Sync 刷新缓冲
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

func (l *ZapLogger) Info(msg string, fields ...interface{}) {
	l.sugar.Infow(msg, fields...)
}

func (l *ZapLogger) Error(msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, fields...)
}

func (l *ZapLogger) Warn(msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, fields...)
}

func (l *ZapLogger) Debug(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, fields...)
}

func (l *ZapLogger) InfoContext(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Infow(msg, withTrace(ctx, fields)...)
}

func (l *ZapLogger) ErrorContext(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, withTrace(ctx, fields)...)
}

func (l *ZapLogger) WarnContext(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, withTrace(ctx, fields)...)
}

func (l *ZapLogger) DebugContext(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, withTrace(ctx, fields)...)
}

// withTrace 追加 Context 中的 trace_id
func withTrace(ctx context.Context, fields []interface{}) []interface{} {
	if ctx == nil {
		return fields
	}
	if traceID := corelog.TraceID(ctx); traceID != "" {
		return append(fields, "trace_id", traceID)
	}
	return fields
}
