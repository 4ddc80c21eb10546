package svcallback

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etalert"
	"cropwatch/internal/app/domains/modules/mdalert"
	"cropwatch/internal/app/domains/repo/rpalert"
	"cropwatch/internal/app/infra/persistence/dbtest"
	"cropwatch/internal/app/pkg/logger"
)

type published struct {
	channel string
	body    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (n *fakeNotifier) PublishJSON(ctx context.Context, channel string, v interface{}) error {
	if n.err != nil {
		return n.err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, published{channel: channel, body: string(raw)})
	return nil
}

func (n *fakeNotifier) on(channel string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0)
	for _, m := range n.msgs {
		if m.channel == channel {
			out = append(out, m.body)
		}
	}
	return out
}

func counter() func() int64 {
	var n int64
	return func() int64 { n++; return n }
}

func successCallback() *model.PlotAnalysisCallback {
	hot := model.AnomalyAlert{
		PlotID: "3", Category: model.CategoryTemperature, Severity: model.SeverityCritical,
		Message: "Temperature is above optimal range: 41.00", CurrentValue: 41, ThresholdValue: 35,
		Timestamp: "2026-10-19T10:00:00Z", Recommendations: []string{"shade"},
	}
	dry := model.AnomalyAlert{
		PlotID: "4", Category: model.CategorySoilMoisture, Severity: model.SeverityCritical,
		Message: "Soil Moisture is below optimal range: 10.00", CurrentValue: 10, ThresholdValue: 30,
		Timestamp: "2026-10-19T10:00:00Z", Recommendations: []string{"irrigate"},
	}
	return &model.PlotAnalysisCallback{
		RequestID:  "req-1",
		ActionType: model.ActionFleetAnalyze,
		Status:     model.CallbackStatusSuccess,
		AnalysisResult: &model.AnalysisResultData{
			Plots: []model.PlotAnalysis{
				{PlotID: "3", Alerts: []model.AnomalyAlert{hot}},
				{PlotID: "4", Alerts: []model.AnomalyAlert{dry}},
			},
			Summary: model.AlertsSummary{Total: 2, CriticalCount: 2},
		},
	}
}

func TestHandleCallback_PersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	alerts := mdalert.NewAlertModule(rpalert.NewAlertRepository(dbtest.NewDB(t)))
	notifier := &fakeNotifier{}
	svc := NewCallbackService(alerts, notifier, counter(), logger.NewNop())

	require.NoError(t, svc.HandleCallback(ctx, successCallback()))

	stored, total, err := alerts.ListAlerts(ctx, etalert.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []int64{3, 4}, []int64{stored[0].PlotID, stored[1].PlotID})

	results := notifier.on("analysis:result:req-1")
	require.Len(t, results, 1)
	var n model.AnalysisNotification
	require.NoError(t, json.Unmarshal([]byte(results[0]), &n))
	assert.Equal(t, model.CallbackStatusSuccess, n.Status)
	assert.Len(t, n.Alerts, 2)
	assert.Equal(t, 2, n.Summary.CriticalCount)

	feed := notifier.on(FeedChannel)
	require.Len(t, feed, 2)
	var event model.AlertEvent
	require.NoError(t, json.Unmarshal([]byte(feed[0]), &event))
	assert.Equal(t, model.AlertEventType, event.Type)
	assert.Equal(t, "req-1", event.Payload.RequestID)
	assert.NotEmpty(t, event.Payload.AlertID)
}

func TestHandleCallback_RedeliveryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	alerts := mdalert.NewAlertModule(rpalert.NewAlertRepository(dbtest.NewDB(t)))
	notifier := &fakeNotifier{}
	svc := NewCallbackService(alerts, notifier, counter(), logger.NewNop())

	require.NoError(t, svc.HandleCallback(ctx, successCallback()))
	require.NoError(t, svc.HandleCallback(ctx, successCallback()))

	_, total, err := alerts.ListAlerts(ctx, etalert.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// 结果通知两次，告警推送只有首次
	assert.Len(t, notifier.on("analysis:result:req-1"), 2)
	assert.Len(t, notifier.on(FeedChannel), 2)
}

func TestHandleCallback_FailedCallback(t *testing.T) {
	ctx := context.Background()
	alerts := mdalert.NewAlertModule(rpalert.NewAlertRepository(dbtest.NewDB(t)))
	notifier := &fakeNotifier{}
	svc := NewCallbackService(alerts, notifier, counter(), logger.NewNop())

	require.NoError(t, svc.HandleCallback(ctx, &model.PlotAnalysisCallback{
		RequestID: "req-9",
		Status:    model.CallbackStatusFailed,
		Error:     "no plots to analyze",
	}))

	results := notifier.on("analysis:result:req-9")
	require.Len(t, results, 1)
	assert.Contains(t, results[0], `"status":"FAILED"`)
	assert.Contains(t, results[0], `"alerts":[]`)
	assert.Empty(t, notifier.on(FeedChannel))
}

func TestHandleCallback_NotifyFailureOnlyWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	alerts := mdalert.NewAlertModule(rpalert.NewAlertRepository(dbtest.NewDB(t)))
	svc := NewCallbackService(alerts, &fakeNotifier{err: errors.New("redis down")}, counter(), logger.NewFromZap(zap.New(core)))

	cb := successCallback()
	cb.AnalysisResult.Plots[1].Alerts[0].PlotID = "not-a-number"
	require.NoError(t, svc.HandleCallback(context.Background(), cb))

	_, total, err := alerts.ListAlerts(context.Background(), etalert.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	assert.Equal(t, 1, logs.FilterMessage("Skip invalid alert").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to publish Redis notification").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to publish alert event").Len())
}
