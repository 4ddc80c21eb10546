package business

import (
	"fmt"

	"cropwatch/internal/business/agent"
	"cropwatch/internal/business/outlier"
	"cropwatch/pkg/config"
)

// NewAgentFromConfig 由 rules 配置构建规则表
// 覆盖后违反阈值顺序的配置直接启动失败
func NewAgentFromConfig(rules map[string]config.RuleConfig) (*agent.Agent, error) {
	overrides := make(map[string]agent.RuleOverride, len(rules))
	for name, r := range rules {
		overrides[name] = agent.RuleOverride{
			Min:         r.Min,
			Max:         r.Max,
			CriticalMin: r.CriticalMin,
			CriticalMax: r.CriticalMax,
		}
	}

	table, err := agent.NewRuleTableWithOverrides(overrides)
	if err != nil {
		return nil, fmt.Errorf("build rule table: %w", err)
	}
	return agent.New(table), nil
}

// NewDetectorFromConfig 未启用时返回 nil
func NewDetectorFromConfig(cfg config.OutlierConfig) (*outlier.Detector, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return outlier.NewDetector(outlier.Config{
		Trees:      cfg.Trees,
		SampleSize: cfg.SampleSize,
		MaxDepth:   cfg.MaxDepth,
		MinSamples: cfg.MinSamples,
		Threshold:  cfg.Threshold,
		Seed:       cfg.Seed,
	})
}

// NewCompositeHandlerFromConfig 组装规则引擎和离群检测
func NewCompositeHandlerFromConfig(cfg *config.Config) (*CompositeHandler, error) {
	a, err := NewAgentFromConfig(cfg.Rules)
	if err != nil {
		return nil, err
	}
	detector, err := NewDetectorFromConfig(cfg.Outlier)
	if err != nil {
		return nil, fmt.Errorf("build outlier detector: %w", err)
	}
	return NewCompositeHandler(a, detector), nil
}
