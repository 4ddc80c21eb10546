package etreading

import (
	"errors"
	"math"
	"time"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etprimitive"
)

// 错误定义
var (
	ErrInvalidPlotID     = errors.New("invalid plot ID")
	ErrUnknownSensorType = errors.New("unknown sensor type")
	ErrInvalidValue      = errors.New("reading value must be a finite number")
)

// 读数来源
const (
	SourceAPI  = "api"
	SourceMQTT = "mqtt"
)

// defaultUnits 各类别的默认单位
var defaultUnits = [...]string{
	model.CategoryTemperature:    "°C",
	model.CategoryHumidity:       "%",
	model.CategorySoilMoisture:   "%",
	model.CategoryPhLevel:        "pH",
	model.CategoryLightIntensity: "lux",
}

// Reading 传感器读数（领域对象）
type Reading struct {
	ID        int64
	PlotID    int64
	Category  model.SensorCategory
	Value     float64
	Unit      string
	Source    string
	Timestamp time.Time
}

// NewReading 创建读数，unit 为空时取类别默认单位，ts 为零值时取当前时间
func NewReading(plotID int64, sensorType string, value float64, unit, source string, ts time.Time) (*Reading, error) {
	if plotID <= 0 {
		return nil, ErrInvalidPlotID
	}
	category, ok := model.ParseSensorAlias(sensorType)
	if !ok {
		return nil, ErrUnknownSensorType
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, ErrInvalidValue
	}
	if unit == "" {
		unit = DefaultUnit(category)
	}
	if source == "" {
		source = SourceAPI
	}
	if ts.IsZero() {
		ts = time.Now()
	}

	return &Reading{
		PlotID:    plotID,
		Category:  category,
		Value:     value,
		Unit:      unit,
		Source:    source,
		Timestamp: ts.UTC(),
	}, nil
}

// DefaultUnit 类别默认单位
func DefaultUnit(c model.SensorCategory) string {
	if !c.Known() {
		return ""
	}
	return defaultUnits[c]
}

// ToBatch 将每类最新读数组装成分析输入（按类别固定顺序）
func ToBatch(latest []*Reading) model.ReadingBatch {
	batch := make(model.ReadingBatch, 0, len(latest))
	for _, c := range model.Categories {
		for _, r := range latest {
			if r.Category == c {
				batch.Add(c.String(), r.Value)
				break
			}
		}
	}
	return batch
}

// 读数历史排序
const (
	OrderTimestampDesc = "-timestamp"
	OrderTimestampAsc  = "timestamp"
	OrderValueDesc     = "-value"
	OrderValueAsc      = "value"
)

// Filter 读数历史查询条件，Category 为 CategoryUnknown 表示不限类别
type Filter struct {
	PlotID     int64
	Category   model.SensorCategory
	Ordering   string // 为空时按时间倒序
	Pagination etprimitive.Pagination
}
