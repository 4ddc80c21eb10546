package agent

import (
	"fmt"

	"cropwatch/common/model"
)

// ThresholdRule 单个类别的阈值规则
// 不变量：CriticalMin < Min < Max < CriticalMax
type ThresholdRule struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	CriticalMin float64 `json:"critical_min"`
	CriticalMax float64 `json:"critical_max"`
}

// Validate 校验阈值顺序
func (r ThresholdRule) Validate() error {
	if !(r.CriticalMin < r.Min && r.Min < r.Max && r.Max < r.CriticalMax) {
		return fmt.Errorf("invalid rule: need critical_min < min < max < critical_max, got %v < %v < %v < %v",
			r.CriticalMin, r.Min, r.Max, r.CriticalMax)
	}
	return nil
}

// RuleOverride 配置覆盖项，nil 字段沿用默认值
type RuleOverride struct {
	Min         *float64
	Max         *float64
	CriticalMin *float64
	CriticalMax *float64
}

func (o RuleOverride) apply(r ThresholdRule) ThresholdRule {
	if o.Min != nil {
		r.Min = *o.Min
	}
	if o.Max != nil {
		r.Max = *o.Max
	}
	if o.CriticalMin != nil {
		r.CriticalMin = *o.CriticalMin
	}
	if o.CriticalMax != nil {
		r.CriticalMax = *o.CriticalMax
	}
	return r
}

type ruleSlot struct {
	rule ThresholdRule
	set  bool
}

// RuleTable 阈值规则表，按 SensorCategory 下标索引
// 构建后只读，可并发读取
type RuleTable struct {
	slots [len(model.Categories) + 1]ruleSlot
}

// DefaultRules 参考规则
func DefaultRules() map[model.SensorCategory]ThresholdRule {
	return map[model.SensorCategory]ThresholdRule{
		model.CategoryTemperature:    {Min: 15, Max: 35, CriticalMin: 10, CriticalMax: 40},
		model.CategoryHumidity:       {Min: 40, Max: 80, CriticalMin: 20, CriticalMax: 95},
		model.CategorySoilMoisture:   {Min: 30, Max: 80, CriticalMin: 15, CriticalMax: 90},
		model.CategoryPhLevel:        {Min: 6.0, Max: 7.5, CriticalMin: 5.5, CriticalMax: 8.0},
		model.CategoryLightIntensity: {Min: 200, Max: 1000, CriticalMin: 100, CriticalMax: 1200},
	}
}

// NewRuleTable 由规则集合构建规则表
// 任一规则违反阈值顺序则返回错误；未提供的类别视为无规则
func NewRuleTable(rules map[model.SensorCategory]ThresholdRule) (*RuleTable, error) {
	t := &RuleTable{}
	for c, r := range rules {
		if !c.Known() {
			return nil, fmt.Errorf("rule for unknown category %d", int(c))
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		t.slots[c] = ruleSlot{rule: r, set: true}
	}
	return t, nil
}

// DefaultRuleTable 参考规则表
func DefaultRuleTable() *RuleTable {
	t, err := NewRuleTable(DefaultRules())
	if err != nil {
		panic(err)
	}
	return t
}

// NewRuleTableWithOverrides 在参考规则基础上应用配置覆盖
// key 为类别线上名称（如 soil_moisture）
func NewRuleTableWithOverrides(overrides map[string]RuleOverride) (*RuleTable, error) {
	rules := DefaultRules()
	for name, o := range overrides {
		c, ok := model.ParseSensorCategory(name)
		if !ok {
			return nil, fmt.Errorf("rules.%s: unknown sensor category", name)
		}
		rules[c] = o.apply(rules[c])
	}
	return NewRuleTable(rules)
}

// Rule 查询类别的规则，不存在返回 false
func (t *RuleTable) Rule(c model.SensorCategory) (ThresholdRule, bool) {
	if t == nil || c < 0 || int(c) >= len(t.slots) {
		return ThresholdRule{}, false
	}
	slot := t.slots[c]
	return slot.rule, slot.set
}
