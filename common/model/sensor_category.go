package model

import (
	"fmt"
	"strings"
)

// SensorCategory 传感器类别（封闭枚举）
// CategoryUnknown 用于承接外部输入中无法识别的类别名
type SensorCategory int

const (
	CategoryUnknown SensorCategory = iota
	CategoryTemperature
	CategoryHumidity
	CategorySoilMoisture
	CategoryPhLevel
	CategoryLightIntensity

	categoryCount
)

// Categories 全部已知类别，按固定顺序
var Categories = [...]SensorCategory{
	CategoryTemperature,
	CategoryHumidity,
	CategorySoilMoisture,
	CategoryPhLevel,
	CategoryLightIntensity,
}

var categoryNames = [categoryCount]string{
	CategoryUnknown:        "unknown",
	CategoryTemperature:    "temperature",
	CategoryHumidity:       "humidity",
	CategorySoilMoisture:   "soil_moisture",
	CategoryPhLevel:        "ph_level",
	CategoryLightIntensity: "light_intensity",
}

var categoryDisplayNames = [categoryCount]string{
	CategoryUnknown:        "Unknown",
	CategoryTemperature:    "Temperature",
	CategoryHumidity:       "Humidity",
	CategorySoilMoisture:   "Soil Moisture",
	CategoryPhLevel:        "Ph Level",
	CategoryLightIntensity: "Light Intensity",
}

// ParseSensorCategory 按名称解析类别（大小写不敏感）
// 无法识别时返回 CategoryUnknown 和 false
func ParseSensorCategory(name string) (SensorCategory, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories {
		if categoryNames[c] == key {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// sensorAliases 设备端常见的简写名
var sensorAliases = map[string]SensorCategory{
	"moisture":        CategorySoilMoisture,
	"temp":            CategoryTemperature,
	"air_temperature": CategoryTemperature,
	"hum":             CategoryHumidity,
	"ph":              CategoryPhLevel,
}

// ParseSensorAlias 在 ParseSensorCategory 基础上接受设备简写名，仅用于读数接入
func ParseSensorAlias(name string) (SensorCategory, bool) {
	if c, ok := ParseSensorCategory(name); ok {
		return c, true
	}
	c, ok := sensorAliases[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Known 是否属于封闭枚举
func (c SensorCategory) Known() bool {
	return c > CategoryUnknown && c < categoryCount
}

// String 返回线上名称，如 soil_moisture
func (c SensorCategory) String() string {
	if c < 0 || c >= categoryCount {
		return categoryNames[CategoryUnknown]
	}
	return categoryNames[c]
}

// DisplayName 返回展示名称，如 Soil Moisture
func (c SensorCategory) DisplayName() string {
	if c < 0 || c >= categoryCount {
		return categoryDisplayNames[CategoryUnknown]
	}
	return categoryDisplayNames[c]
}

// MarshalText 实现 encoding.TextMarshaler
func (c SensorCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (c *SensorCategory) UnmarshalText(text []byte) error {
	parsed, ok := ParseSensorCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown sensor category: %q", string(text))
	}
	*c = parsed
	return nil
}
