package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	corelog "cropwatch/pkg/logger"
)

func TestZapLogger_KeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	ctx := corelog.WithTraceID(context.Background(), "req-9")
	l.InfoContext(ctx, "callback handled", "plot_id", "3", "alerts", 2)
	l.Warn("notify failed", "error", "timeout")

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0].ContextMap()
	assert.Equal(t, "req-9", first["trace_id"])
	assert.Equal(t, "3", first["plot_id"])
	assert.Equal(t, int64(2), first["alerts"])
	assert.Equal(t, "timeout", logs.All()[1].ContextMap()["error"])
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	l, err := NewWithFile("debug", path)
	require.NoError(t, err)

	l.Info("plot created", "plot_id", 1)
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"plot created"`)
	assert.Contains(t, string(data), `"plot_id":1`)
}
