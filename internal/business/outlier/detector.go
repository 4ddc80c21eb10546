// Package outlier 基于隔离森林的多传感器离群检测
package outlier

import (
	"fmt"
	"sync"

	"cropwatch/common/model"
)

// FeatureOrder 特征向量的固定顺序
var FeatureOrder = []model.SensorCategory{
	model.CategorySoilMoisture,
	model.CategoryTemperature,
	model.CategoryHumidity,
}

// Config 检测器参数
type Config struct {
	Trees      int
	SampleSize int
	MaxDepth   int
	MinSamples int     // 首次训练所需的最少完整向量数
	Threshold  float64 // 分数超过阈值判为异常
	Seed       int64
}

// DefaultConfig 默认参数
func DefaultConfig() Config {
	return Config{
		Trees:      100,
		SampleSize: 256,
		MaxDepth:   10,
		MinSamples: 5,
		Threshold:  0.6,
		Seed:       42,
	}
}

// Result 单个向量的检测结果
type Result struct {
	Label model.OutlierLabel
	Score float64
}

// Detector 离群检测器
// 首次收到足够样本时惰性训练，之后只做预测
type Detector struct {
	cfg    Config
	mu     sync.RWMutex
	forest *Forest
}

// NewDetector 创建检测器
func NewDetector(cfg Config) (*Detector, error) {
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("outlier trees must be positive, got %d", cfg.Trees)
	}
	if cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("outlier max_depth must be positive, got %d", cfg.MaxDepth)
	}
	if cfg.Threshold <= 0 || cfg.Threshold >= 1 {
		return nil, fmt.Errorf("outlier threshold must be in (0,1), got %v", cfg.Threshold)
	}
	if cfg.MinSamples < 2 {
		cfg.MinSamples = 2
	}
	return &Detector{cfg: cfg}, nil
}

// FeatureVector 从读数中按固定顺序提取特征，缺任一特征返回 false
func FeatureVector(readings model.ReadingBatch) ([]float64, bool) {
	vector := make([]float64, len(FeatureOrder))
	for i, c := range FeatureOrder {
		found := false
		for _, r := range readings {
			if parsed, ok := model.ParseSensorCategory(r.Name); ok && parsed == c {
				vector[i] = r.Value
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return vector, true
}

// Fitted 是否已训练
func (d *Detector) Fitted() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.forest != nil
}

// Fit 显式训练（覆盖已有模型）
func (d *Detector) Fit(vectors [][]float64) error {
	if len(vectors) < d.cfg.MinSamples {
		return fmt.Errorf("need at least %d samples, got %d", d.cfg.MinSamples, len(vectors))
	}
	forest := NewForest(d.cfg.Trees, d.cfg.SampleSize, d.cfg.MaxDepth, d.cfg.Seed)
	forest.Fit(vectors)

	d.mu.Lock()
	d.forest = forest
	d.mu.Unlock()
	return nil
}

// Detect 对每个向量给出结论，顺序与输入一致
// 尚未训练且样本不足时返回 false 且不给结论
func (d *Detector) Detect(vectors [][]float64) ([]Result, bool) {
	forest := d.ensureFitted(vectors)
	if forest == nil {
		return nil, false
	}

	results := make([]Result, len(vectors))
	for i, v := range vectors {
		score := forest.Score(v)
		label := model.OutlierNormal
		if score > d.cfg.Threshold {
			label = model.OutlierAnomalous
		}
		results[i] = Result{Label: label, Score: score}
	}
	return results, true
}

func (d *Detector) ensureFitted(vectors [][]float64) *Forest {
	d.mu.RLock()
	forest := d.forest
	d.mu.RUnlock()
	if forest != nil {
		return forest
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.forest != nil {
		return d.forest
	}
	if len(vectors) < d.cfg.MinSamples {
		return nil
	}
	forest = NewForest(d.cfg.Trees, d.cfg.SampleSize, d.cfg.MaxDepth, d.cfg.Seed)
	forest.Fit(vectors)
	d.forest = forest
	return forest
}
