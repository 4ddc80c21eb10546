package agent

import (
	"math"

	"cropwatch/common/model"
)

// mediumMargin 靠近可接受区间边缘的绝对距离（与单位无关）
const mediumMargin = 3.0

// Classification 分级结果
// Boundary 为用于方向判断和消息展示的可接受区间边缘
type Classification struct {
	Severity model.Severity
	Boundary float64
}

// Classify 按规则对单个读数分级，第一个命中的条件生效
// 只使用严格比较，等于边缘的值落在内侧
func Classify(rule ThresholdRule, v float64) (Classification, bool) {
	// 1. 超出临界区间；边界仍报告可接受区间边缘
	if v < rule.CriticalMin || v > rule.CriticalMax {
		boundary := rule.Max
		if v < rule.Min {
			boundary = rule.Min
		}
		return Classification{Severity: model.SeverityCritical, Boundary: boundary}, true
	}

	// 2. 超出可接受区间
	if v < rule.Min {
		return Classification{Severity: model.SeverityHigh, Boundary: rule.Min}, true
	}
	if v > rule.Max {
		return Classification{Severity: model.SeverityHigh, Boundary: rule.Max}, true
	}

	// 3. 接近边缘
	nearLow := v < rule.Min+mediumMargin
	nearHigh := v > rule.Max-mediumMargin
	switch {
	case nearLow && nearHigh:
		// 区间窄于两倍 margin 时两侧同时命中，取更近的一侧
		if math.Abs(v-rule.Min) <= math.Abs(rule.Max-v) {
			return Classification{Severity: model.SeverityMedium, Boundary: rule.Min}, true
		}
		return Classification{Severity: model.SeverityMedium, Boundary: rule.Max}, true
	case nearLow:
		return Classification{Severity: model.SeverityMedium, Boundary: rule.Min}, true
	case nearHigh:
		return Classification{Severity: model.SeverityMedium, Boundary: rule.Max}, true
	}

	return Classification{}, false
}
