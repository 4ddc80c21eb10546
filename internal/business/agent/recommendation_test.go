package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cropwatch/common/model"
)

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, DirectionLow, DirectionOf(8, 15))
	assert.Equal(t, DirectionHigh, DirectionOf(15, 15))
	assert.Equal(t, DirectionHigh, DirectionOf(41, 35))
	assert.Equal(t, "low", DirectionLow.String())
	assert.Equal(t, "high", DirectionHigh.String())
}

func TestRecommend_FourDistinctEntriesPerPair(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range model.Categories {
		low := Recommend(c, 0, 1)
		high := Recommend(c, 1, 0)

		assert.Len(t, low, 4, c.String())
		assert.Len(t, high, 4, c.String())
		assert.NotEqual(t, low, high, c.String())

		for _, r := range append(low, high...) {
			assert.False(t, seen[r], "duplicate recommendation %q", r)
			seen[r] = true
		}
	}
	assert.Len(t, seen, 40)
}

func TestRecommend_Deterministic(t *testing.T) {
	first := Recommend(model.CategorySoilMoisture, 95, 80)
	second := Recommend(model.CategorySoilMoisture, 95, 80)
	assert.Equal(t, first, second)
	assert.Equal(t, "Reduce irrigation frequency to prevent root rot", first[0])
}

func TestRecommend_CallerCannotMutateTable(t *testing.T) {
	got := Recommend(model.CategoryHumidity, 10, 40)
	got[0] = "overwritten"

	again := Recommend(model.CategoryHumidity, 10, 40)
	assert.Equal(t, "Install misting systems to increase humidity levels", again[0])
}

func TestRecommend_Fallback(t *testing.T) {
	assert.Equal(t, []string{FallbackRecommendation}, Recommend(model.CategoryUnknown, 1, 2))
	assert.Equal(t, []string{FallbackRecommendation}, Recommend(model.SensorCategory(99), 1, 2))
	assert.Equal(t, []string{FallbackRecommendation}, Recommend(model.SensorCategory(-3), 1, 2))
}
