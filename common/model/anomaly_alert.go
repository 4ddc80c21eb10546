package model

import (
	"fmt"
	"strings"
)

// Severity 异常级别，Low < Medium < High < Critical
// 顺序仅用于报表分组
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Severities 全部级别（升序）
var Severities = [...]Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// String 返回线上名称
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity 按名称解析级别（大小写不敏感）
func ParseSeverity(name string) (Severity, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, s := range Severities {
		if s.String() == key {
			return s, true
		}
	}
	return 0, false
}

// MarshalText 实现 encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity: %q", string(text))
	}
	*s = parsed
	return nil
}

// AnomalyAlert 单条读数产生的异常告警
type AnomalyAlert struct {
	PlotID          string         `json:"plot_id"`
	Category        SensorCategory `json:"alert_type"`
	Severity        Severity       `json:"severity"`
	Message         string         `json:"message"`
	CurrentValue    float64        `json:"current_value"`
	ThresholdValue  float64        `json:"threshold_value"`
	Timestamp       string         `json:"timestamp"`
	Recommendations []string       `json:"recommendations"`
}

// AlertsSummary 告警汇总（按需计算，不缓存）
// 空输入时 BySeverity 为空 map；非空时四个级别都有 key（计数可为 0）
type AlertsSummary struct {
	Total         int                    `json:"total"`
	BySeverity    map[Severity]int       `json:"by_severity"`
	ByCategory    map[SensorCategory]int `json:"by_type,omitempty"`
	CriticalCount int                    `json:"critical_count"`
}
