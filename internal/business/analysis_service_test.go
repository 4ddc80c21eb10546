package business

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropwatch/common/model"
	"cropwatch/internal/business/outlier"
	"cropwatch/pkg/config"
	"cropwatch/pkg/errorutil"
)

type fakePublisher struct {
	queue    string
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(queue string, data []byte, ttl, delay uint32) error {
	if p.err != nil {
		return p.err
	}
	p.queue = queue
	p.payloads = append(p.payloads, data)
	return nil
}

func (p *fakePublisher) lastCallback(t *testing.T) model.PlotAnalysisCallback {
	t.Helper()
	require.NotEmpty(t, p.payloads)
	var cb model.PlotAnalysisCallback
	require.NoError(t, json.Unmarshal(p.payloads[len(p.payloads)-1], &cb))
	return cb
}

func plotInput(plotID string, readings model.ReadingBatch) *AnalyzeInput {
	return &AnalyzeInput{
		RequestID:  "req-1",
		ActionType: model.ActionPlotAnalyze,
		Timestamp:  "2026-10-19T06:00:00Z",
		Plots:      []model.PlotReadings{{PlotID: plotID, Readings: readings}},
	}
}

func TestCompositeHandler_PlotAnalysis(t *testing.T) {
	h := NewCompositeHandler(nil, nil)

	result, err := h.Analyze(context.Background(), plotInput("4", model.ReadingBatch{
		{Name: "temperature", Value: 8},
		{Name: "humidity", Value: 60},
		{Name: "soil_moisture", Value: 29},
	}))
	require.NoError(t, err)

	require.Len(t, result.Plots, 1)
	plot := result.Plots[0]
	assert.Equal(t, "4", plot.PlotID)
	require.Len(t, plot.Alerts, 2)
	assert.Equal(t, model.CategoryTemperature, plot.Alerts[0].Category)
	assert.Equal(t, model.CategorySoilMoisture, plot.Alerts[1].Category)
	assert.Equal(t, 2, plot.Summary.Total)
	assert.Equal(t, 1, plot.Summary.CriticalCount)
	assert.Equal(t, plot.Summary, result.Summary)
	assert.Nil(t, result.Outliers)
	assert.Len(t, result.AllAlerts(), 2)
}

func TestCompositeHandler_RejectsBadInput(t *testing.T) {
	h := NewCompositeHandler(nil, nil)

	_, err := h.Analyze(context.Background(), &AnalyzeInput{})
	require.Error(t, err)
	assert.False(t, errorutil.IsRetryable(err))

	_, err = h.Analyze(context.Background(), plotInput("", model.ReadingBatch{}))
	assert.Error(t, err)

	_, err = h.Analyze(context.Background(), plotInput("1", nil))
	assert.Error(t, err)
}

func TestCompositeHandler_FleetWithOutliers(t *testing.T) {
	detector, err := outlier.NewDetector(outlier.DefaultConfig())
	require.NoError(t, err)
	h := NewCompositeHandler(nil, detector)

	plots := make([]model.PlotReadings, 0)
	for i := 0; i < 40; i++ {
		plots = append(plots, model.PlotReadings{
			PlotID: string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Readings: model.ReadingBatch{
				{Name: "soil_moisture", Value: 50 + float64(i%5)},
				{Name: "temperature", Value: 25 + float64(i%3)*0.5},
				{Name: "humidity", Value: 60 + float64(i%4)},
			},
		})
	}
	// 缺少特征的地块不参与离群检测
	plots = append(plots, model.PlotReadings{
		PlotID:   "partial",
		Readings: model.ReadingBatch{{Name: "ph_level", Value: 9}},
	})

	result, err := h.Analyze(context.Background(), &AnalyzeInput{
		RequestID:  "req-fleet",
		ActionType: model.ActionFleetAnalyze,
		Timestamp:  "t",
		Plots:      plots,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Outliers)
	assert.True(t, result.Outliers.Fitted)
	assert.Equal(t, 40, result.Outliers.Evaluated)
	assert.NotNil(t, result.Plots[0].Outlier)
	assert.Nil(t, result.Plots[40].Outlier)

	// 只有 partial 地块的 pH 告警
	assert.Equal(t, 1, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.CriticalCount)
	assert.Len(t, result.Plots, 41)
}

func TestCompositeHandler_OutlierNotFittedWithFewSamples(t *testing.T) {
	detector, err := outlier.NewDetector(outlier.DefaultConfig())
	require.NoError(t, err)
	h := NewCompositeHandler(nil, detector)

	result, err := h.Analyze(context.Background(), plotInput("1", model.ReadingBatch{
		{Name: "soil_moisture", Value: 50},
		{Name: "temperature", Value: 25},
		{Name: "humidity", Value: 60},
	}))
	require.NoError(t, err)
	require.NotNil(t, result.Outliers)
	assert.False(t, result.Outliers.Fitted)
	assert.Nil(t, result.Plots[0].Outlier)
}

func TestAnalysisService_PublishesSuccessCallback(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewAnalysisService(NewCompositeHandler(nil, nil), pub, "analysis_callback")

	result, err := svc.ExecuteAnalysis(context.Background(), plotInput("9", model.ReadingBatch{
		{Name: "light_intensity", Value: 1300},
	}))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "analysis_callback", pub.queue)
	cb := pub.lastCallback(t)
	assert.Equal(t, "req-1", cb.RequestID)
	assert.Equal(t, "9", cb.PlotID)
	assert.Equal(t, model.CallbackStatusSuccess, cb.Status)
	require.NotNil(t, cb.AnalysisResult)
	alerts := cb.AnalysisResult.AllAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, model.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, 1000.0, alerts[0].ThresholdValue)
}

func TestAnalysisService_AnalyzeFailureStillCallsBack(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewAnalysisService(NewCompositeHandler(nil, nil), pub, "cb")

	_, err := svc.ExecuteAnalysis(context.Background(), plotInput("", model.ReadingBatch{}))
	require.Error(t, err)
	assert.False(t, errorutil.IsRetryable(err))

	cb := pub.lastCallback(t)
	assert.Equal(t, model.CallbackStatusFailed, cb.Status)
	assert.NotEmpty(t, cb.Error)
	assert.Nil(t, cb.AnalysisResult)
}

func TestAnalysisService_PublishFailureIsRetryable(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	svc := NewAnalysisService(NewCompositeHandler(nil, nil), pub, "cb")

	_, err := svc.ExecuteAnalysis(context.Background(), plotInput("1", model.ReadingBatch{}))
	require.Error(t, err)
	assert.True(t, errorutil.IsRetryable(err))
}

func TestNewCompositeHandlerFromConfig(t *testing.T) {
	lowered := 30.0
	cfg := &config.Config{
		Rules: map[string]config.RuleConfig{"temperature": {Max: &lowered}},
		Outlier: config.OutlierConfig{
			Enabled: true, Trees: 10, SampleSize: 32, MaxDepth: 6, MinSamples: 5, Threshold: 0.6, Seed: 1,
		},
	}
	h, err := NewCompositeHandlerFromConfig(cfg)
	require.NoError(t, err)
	require.NotNil(t, h.detector)

	result, err := h.Analyze(context.Background(), plotInput("1", model.ReadingBatch{{Name: "temperature", Value: 31}}))
	require.NoError(t, err)
	require.Len(t, result.Plots[0].Alerts, 1)
	assert.Equal(t, model.SeverityHigh, result.Plots[0].Alerts[0].Severity)

	bad := -1.0
	_, err = NewCompositeHandlerFromConfig(&config.Config{
		Rules: map[string]config.RuleConfig{"humidity": {Max: &bad}},
	})
	assert.Error(t, err)

	h, err = NewCompositeHandlerFromConfig(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, h.detector)
}
