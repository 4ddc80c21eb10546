package etplot

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// 错误定义
var (
	ErrInvalidName     = errors.New("plot name cannot be empty")
	ErrInvalidLocation = errors.New("plot location cannot be empty")
	ErrInvalidCropType = errors.New("crop type cannot be empty")
	ErrInvalidSize     = errors.New("plot size must be positive")
)

// PlotStatus 地块状态
type PlotStatus string

const (
	PlotStatusActive   PlotStatus = "active"
	PlotStatusInactive PlotStatus = "inactive"
	PlotStatusArchived PlotStatus = "archived"
)

// Plot 地块聚合根（领域对象）
type Plot struct {
	ID          int64      // 地块ID（数据库自增）
	Name        string     // 名称
	Description string     // 描述
	Location    string     // 位置
	CropType    string     // 作物
	Size        float64    // 面积（公顷）
	Status      PlotStatus // 状态
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlot 创建地块（工厂方法）
func NewPlot(name, location, cropType string, size float64, description string) (*Plot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if strings.TrimSpace(location) == "" {
		return nil, ErrInvalidLocation
	}
	if strings.TrimSpace(cropType) == "" {
		return nil, ErrInvalidCropType
	}
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	now := time.Now()
	return &Plot{
		Name:        name,
		Description: description,
		Location:    location,
		CropType:    cropType,
		Size:        size,
		Status:      PlotStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IDString 地块 ID 的字符串形式（分析任务与告警中使用）
func (p *Plot) IDString() string {
	return strconv.FormatInt(p.ID, 10)
}

// ParseID 解析字符串形式的地块 ID
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
