// Package agent 传感器读数异常分级与处置建议
// 纯函数、无 I/O，可被任意数量的调用方并发使用
package agent

import (
	"fmt"

	"cropwatch/common/model"
)

// Agent 分析编排器
type Agent struct {
	rules *RuleTable
}

// New 创建 Agent，rules 为 nil 时使用参考规则表
func New(rules *RuleTable) *Agent {
	if rules == nil {
		rules = DefaultRuleTable()
	}
	return &Agent{rules: rules}
}

// Rules 当前规则表
func (a *Agent) Rules() *RuleTable {
	return a.rules
}

// Classify 按类别分级；无规则或未知类别返回 false
func (a *Agent) Classify(c model.SensorCategory, v float64) (Classification, bool) {
	rule, ok := a.rules.Rule(c)
	if !ok {
		return Classification{}, false
	}
	return Classify(rule, v)
}

// Analyze 按输入顺序分析一批读数，返回告警（顺序与输入一致）
// 未知类别和正常读数直接跳过
func (a *Agent) Analyze(readings model.ReadingBatch, plotID, timestamp string) []model.AnomalyAlert {
	alerts := make([]model.AnomalyAlert, 0)

	for _, r := range readings {
		// 1. 解析类别
		category, ok := model.ParseSensorCategory(r.Name)
		if !ok {
			continue
		}

		// 2. 分级
		cls, ok := a.Classify(category, r.Value)
		if !ok {
			continue
		}

		// 3. 建议 + 消息
		alerts = append(alerts, model.AnomalyAlert{
			PlotID:          plotID,
			Category:        category,
			Severity:        cls.Severity,
			Message:         buildMessage(category, r.Value, cls.Boundary),
			CurrentValue:    r.Value,
			ThresholdValue:  cls.Boundary,
			Timestamp:       timestamp,
			Recommendations: Recommend(category, r.Value, cls.Boundary),
		})
	}

	return alerts
}

func buildMessage(c model.SensorCategory, value, boundary float64) string {
	side := "above"
	if value < boundary {
		side = "below"
	}
	return fmt.Sprintf("%s is %s optimal range: %.2f", c.DisplayName(), side, value)
}

// Summarize 汇总告警
// 空输入返回空的 BySeverity；非空时四个级别都有计数
func Summarize(alerts []model.AnomalyAlert) model.AlertsSummary {
	summary := model.AlertsSummary{
		Total:      len(alerts),
		BySeverity: make(map[model.Severity]int),
		ByCategory: make(map[model.SensorCategory]int),
	}
	if len(alerts) == 0 {
		return summary
	}

	for _, s := range model.Severities {
		summary.BySeverity[s] = 0
	}
	for _, alert := range alerts {
		summary.BySeverity[alert.Severity]++
		summary.ByCategory[alert.Category]++
		if alert.Severity == model.SeverityCritical {
			summary.CriticalCount++
		}
	}

	return summary
}
