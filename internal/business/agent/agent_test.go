package agent

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropwatch/common/model"
)

func batch(t *testing.T, raw string) model.ReadingBatch {
	t.Helper()
	var b model.ReadingBatch
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	return b
}

func TestAnalyze_TemperatureExamples(t *testing.T) {
	a := New(nil)

	tests := []struct {
		name      string
		value     float64
		severity  model.Severity
		boundary  float64
		message   string
		direction Direction
	}{
		{"critical low", 8, model.SeverityCritical, 15, "Temperature is below optimal range: 8.00", DirectionLow},
		{"high low", 13, model.SeverityHigh, 15, "Temperature is below optimal range: 13.00", DirectionLow},
		{"medium high", 33, model.SeverityMedium, 35, "Temperature is below optimal range: 33.00", DirectionLow},
		{"critical high", 41.5, model.SeverityCritical, 35, "Temperature is above optimal range: 41.50", DirectionHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readings := model.ReadingBatch{{Name: "temperature", Value: tt.value}}
			alerts := a.Analyze(readings, "plot-1", "2026-10-19T08:00:00Z")
			require.Len(t, alerts, 1)

			alert := alerts[0]
			assert.Equal(t, "plot-1", alert.PlotID)
			assert.Equal(t, model.CategoryTemperature, alert.Category)
			assert.Equal(t, tt.severity, alert.Severity)
			assert.Equal(t, tt.boundary, alert.ThresholdValue)
			assert.Equal(t, tt.value, alert.CurrentValue)
			assert.Equal(t, tt.message, alert.Message)
			assert.Equal(t, "2026-10-19T08:00:00Z", alert.Timestamp)
			assert.Equal(t, tt.direction, DirectionOf(tt.value, tt.boundary))
			assert.Equal(t, Recommend(model.CategoryTemperature, tt.value, tt.boundary), alert.Recommendations)
			assert.Len(t, alert.Recommendations, 4)
		})
	}
}

func TestAnalyze_CriticalLowUsesLowTemperatureSet(t *testing.T) {
	alerts := New(nil).Analyze(model.ReadingBatch{{Name: "temperature", Value: 8}}, "1", "t")
	require.Len(t, alerts, 1)
	assert.Equal(t, "Increase greenhouse heating system to raise ambient temperature", alerts[0].Recommendations[0])
}

func TestAnalyze_NominalBatchIsEmpty(t *testing.T) {
	alerts := New(nil).Analyze(batch(t, `{"temperature": 25, "humidity": 50}`), "1", "t")
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)

	summary := Summarize(alerts)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.CriticalCount)
	assert.Empty(t, summary.BySeverity)
}

func TestAnalyze_PreservesInputOrderAndSkipsUnknown(t *testing.T) {
	readings := batch(t, `{
		"soil_moisture": 10,
		"wind_speed": 99,
		"temperature": 45,
		"PH_LEVEL": 5.8,
		"light_intensity": 500,
		"humidity": 81
	}`)

	alerts := New(nil).Analyze(readings, "7", "t")
	require.Len(t, alerts, 4)

	got := make([]model.SensorCategory, 0, len(alerts))
	for _, a := range alerts {
		got = append(got, a.Category)
	}
	assert.Equal(t, []model.SensorCategory{
		model.CategorySoilMoisture,
		model.CategoryTemperature,
		model.CategoryPhLevel,
		model.CategoryHumidity,
	}, got)

	assert.Equal(t, model.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, model.SeverityCritical, alerts[1].Severity)
	assert.Equal(t, model.SeverityHigh, alerts[2].Severity)
	assert.Equal(t, "Ph Level is below optimal range: 5.80", alerts[2].Message)
	assert.Equal(t, model.SeverityHigh, alerts[3].Severity)
	assert.Equal(t, "Humidity is above optimal range: 81.00", alerts[3].Message)
}

func TestAnalyze_EmptyAndNilBatch(t *testing.T) {
	a := New(nil)
	assert.Empty(t, a.Analyze(nil, "1", "t"))
	assert.Empty(t, a.Analyze(model.ReadingBatch{}, "1", "t"))
}

func TestAnalyze_MissingRuleMeansNoAnomaly(t *testing.T) {
	table, err := NewRuleTable(map[model.SensorCategory]ThresholdRule{
		model.CategoryHumidity: {Min: 40, Max: 80, CriticalMin: 20, CriticalMax: 95},
	})
	require.NoError(t, err)

	alerts := New(table).Analyze(model.ReadingBatch{
		{Name: "temperature", Value: -50},
		{Name: "humidity", Value: 10},
	}, "1", "t")
	require.Len(t, alerts, 1)
	assert.Equal(t, model.CategoryHumidity, alerts[0].Category)
}

func TestSummarize(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		s := Summarize(nil)
		assert.Equal(t, 0, s.Total)
		assert.Equal(t, 0, s.CriticalCount)
		assert.NotNil(t, s.BySeverity)
		assert.Empty(t, s.BySeverity)
	})

	t.Run("counts", func(t *testing.T) {
		alerts := New(nil).Analyze(model.ReadingBatch{
			{Name: "temperature", Value: 5},
			{Name: "humidity", Value: 96},
			{Name: "soil_moisture", Value: 25},
			{Name: "ph_level", Value: 7.4},
		}, "1", "t")
		require.Len(t, alerts, 4)

		s := Summarize(alerts)
		assert.Equal(t, 4, s.Total)
		assert.Equal(t, 2, s.CriticalCount)
		assert.Equal(t, map[model.Severity]int{
			model.SeverityLow:      0,
			model.SeverityMedium:   1,
			model.SeverityHigh:     1,
			model.SeverityCritical: 2,
		}, s.BySeverity)
		assert.Equal(t, 1, s.ByCategory[model.CategoryTemperature])
		assert.Equal(t, 0, s.ByCategory[model.CategoryLightIntensity])
	})
}

func TestSummarize_JSONShape(t *testing.T) {
	alerts := New(nil).Analyze(model.ReadingBatch{{Name: "temperature", Value: 5}}, "1", "t")
	data, err := json.Marshal(Summarize(alerts))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1), decoded["total"])
	assert.Equal(t, float64(1), decoded["critical_count"])
	bySeverity := decoded["by_severity"].(map[string]interface{})
	assert.Equal(t, float64(1), bySeverity["critical"])
	assert.Equal(t, float64(0), bySeverity["low"])
}

func TestAnalyze_ConcurrentCallers(t *testing.T) {
	a := New(nil)
	readings := model.ReadingBatch{
		{Name: "temperature", Value: 8},
		{Name: "light_intensity", Value: 1100},
	}
	want := a.Analyze(readings, "p", "t")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got := a.Analyze(readings, "p", "t")
			assert.Equal(t, want, got, fmt.Sprintf("caller %d", i))
		}(i)
	}
	wg.Wait()
}
