package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropwatch/common/model"
)

func ptr(v float64) *float64 { return &v }

func TestDefaultRuleTable(t *testing.T) {
	table := DefaultRuleTable()

	for _, c := range model.Categories {
		rule, ok := table.Rule(c)
		require.True(t, ok, c.String())
		assert.NoError(t, rule.Validate())
	}

	rule, _ := table.Rule(model.CategoryLightIntensity)
	assert.Equal(t, ThresholdRule{Min: 200, Max: 1000, CriticalMin: 100, CriticalMax: 1200}, rule)

	_, ok := table.Rule(model.CategoryUnknown)
	assert.False(t, ok)
	_, ok = table.Rule(model.SensorCategory(-1))
	assert.False(t, ok)

	var nilTable *RuleTable
	_, ok = nilTable.Rule(model.CategoryTemperature)
	assert.False(t, ok)
}

func TestThresholdRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    ThresholdRule
		wantErr bool
	}{
		{"valid", ThresholdRule{Min: 1, Max: 2, CriticalMin: 0, CriticalMax: 3}, false},
		{"min equals critical min", ThresholdRule{Min: 1, Max: 2, CriticalMin: 1, CriticalMax: 3}, true},
		{"min above max", ThresholdRule{Min: 3, Max: 2, CriticalMin: 0, CriticalMax: 4}, true},
		{"max equals critical max", ThresholdRule{Min: 1, Max: 3, CriticalMin: 0, CriticalMax: 3}, true},
		{"zero", ThresholdRule{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewRuleTable_RejectsUnknownCategory(t *testing.T) {
	_, err := NewRuleTable(map[model.SensorCategory]ThresholdRule{
		model.CategoryUnknown: {Min: 1, Max: 2, CriticalMin: 0, CriticalMax: 3},
	})
	assert.Error(t, err)
}

func TestNewRuleTableWithOverrides(t *testing.T) {
	t.Run("partial override keeps other fields", func(t *testing.T) {
		table, err := NewRuleTableWithOverrides(map[string]RuleOverride{
			"Temperature": {Max: ptr(30)},
		})
		require.NoError(t, err)

		rule, ok := table.Rule(model.CategoryTemperature)
		require.True(t, ok)
		assert.Equal(t, ThresholdRule{Min: 15, Max: 30, CriticalMin: 10, CriticalMax: 40}, rule)

		humidity, _ := table.Rule(model.CategoryHumidity)
		assert.Equal(t, DefaultRules()[model.CategoryHumidity], humidity)
	})

	t.Run("invalid order fails", func(t *testing.T) {
		_, err := NewRuleTableWithOverrides(map[string]RuleOverride{
			"ph_level": {Min: ptr(9)},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ph_level")
	})

	t.Run("unknown category fails", func(t *testing.T) {
		_, err := NewRuleTableWithOverrides(map[string]RuleOverride{
			"co2": {Min: ptr(1)},
		})
		assert.Error(t, err)
	})

	t.Run("nil overrides", func(t *testing.T) {
		table, err := NewRuleTableWithOverrides(nil)
		require.NoError(t, err)
		rule, _ := table.Rule(model.CategorySoilMoisture)
		assert.Equal(t, 30.0, rule.Min)
	})
}
