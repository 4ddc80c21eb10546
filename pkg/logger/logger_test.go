package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core)

	ctx := WithTraceID(context.Background(), "req-1")
	ctx = WithWorkerID(ctx, 2)
	ctx = WithActionType(ctx, "plot_analyze")
	ctx = WithPlotID(ctx, "7")

	log.Infof(ctx, "analyzed %d readings", 3)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "analyzed 3 readings", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["trace_id"])
	assert.Equal(t, int64(2), fields["worker_id"])
	assert.Equal(t, "plot_analyze", fields["action_type"])
	assert.Equal(t, "7", fields["plot_id"])
	assert.Equal(t, "req-1", TraceID(ctx))
}

func TestZapLogger_EmptyContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewWithCore(core)

	log.Debugf(context.Background(), "hidden")
	log.Warnf(context.Background(), "shown")

	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].Context)
}

func TestNew_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")
	log, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)
	log.Infof(context.Background(), "hello")
	_ = log.Sync()
	assert.FileExists(t, path)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}
