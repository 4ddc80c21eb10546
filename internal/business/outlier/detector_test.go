package outlier

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropwatch/common/model"
)

func normalVectors(n int) [][]float64 {
	rng := rand.New(rand.NewSource(7))
	out := make([][]float64, n)
	for i := range out {
		out[i] = []float64{
			50 + rng.Float64()*10 - 5,
			25 + rng.Float64()*4 - 2,
			60 + rng.Float64()*10 - 5,
		}
	}
	return out
}

func TestFeatureVector(t *testing.T) {
	v, ok := FeatureVector(model.ReadingBatch{
		{Name: "humidity", Value: 61},
		{Name: "ph_level", Value: 6.5},
		{Name: "Temperature", Value: 24},
		{Name: "soil_moisture", Value: 48},
	})
	require.True(t, ok)
	assert.Equal(t, []float64{48, 24, 61}, v)

	_, ok = FeatureVector(model.ReadingBatch{{Name: "temperature", Value: 24}})
	assert.False(t, ok)
}

func TestNewDetector_Validation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trees = 0
	_, err := NewDetector(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Threshold = 1.2
	_, err = NewDetector(cfg)
	assert.Error(t, err)

	_, err = NewDetector(DefaultConfig())
	assert.NoError(t, err)
}

func TestDetector_SeparatesOutliers(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, d.Fit(normalVectors(128)))
	require.True(t, d.Fitted())

	results, ok := d.Detect([][]float64{
		{50, 25, 60},
		{5, 45, 5},
		{51, 24.5, 59},
	})
	require.True(t, ok)
	require.Len(t, results, 3)

	assert.Equal(t, model.OutlierNormal, results[0].Label)
	assert.Equal(t, model.OutlierAnomalous, results[1].Label)
	assert.Equal(t, model.OutlierNormal, results[2].Label)
	assert.Greater(t, results[1].Score, results[0].Score)
	assert.Greater(t, results[1].Score, results[2].Score)
}

func TestDetector_LazyFit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSamples = 10
	d, err := NewDetector(cfg)
	require.NoError(t, err)

	// 样本不足时不训练
	results, ok := d.Detect(normalVectors(3))
	assert.False(t, ok)
	assert.Nil(t, results)
	assert.False(t, d.Fitted())

	results, ok = d.Detect(normalVectors(20))
	require.True(t, ok)
	assert.Len(t, results, 20)
	assert.True(t, d.Fitted())

	// 训练后小批量也能预测
	results, ok = d.Detect(normalVectors(1))
	require.True(t, ok)
	assert.Len(t, results, 1)
}

func TestDetector_FitRequiresMinSamples(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	assert.Error(t, d.Fit(normalVectors(2)))
	assert.False(t, d.Fitted())
}

func TestDetector_ConcurrentDetect(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)

	vectors := normalVectors(32)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, ok := d.Detect(vectors)
			assert.True(t, ok)
			assert.Len(t, results, len(vectors))
		}()
	}
	wg.Wait()
}

func TestForest_Untrained(t *testing.T) {
	f := NewForest(10, 16, 8, 1)
	assert.False(t, f.Trained())
	assert.Equal(t, 0.5, f.Score([]float64{1, 2, 3}))

	f.Fit(nil)
	assert.False(t, f.Trained())
}

func TestForest_IdenticalPoints(t *testing.T) {
	f := NewForest(20, 8, 8, 1)
	f.Fit([][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}})
	require.True(t, f.Trained())

	// 所有树都是单叶节点，分数相同
	assert.Equal(t, f.Score([]float64{1, 1}), f.Score([]float64{9, 9}))
}

func TestAveragePathLength(t *testing.T) {
	assert.Equal(t, 0.0, averagePathLength(1))
	assert.Equal(t, 1.0, averagePathLength(2))
	assert.InDelta(t, 3.75, averagePathLength(10), 0.1)
}
