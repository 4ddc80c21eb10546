package entity

import "time"

// Plot 地块实体
type Plot struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;type:varchar(100);not null"`
	Description string    `gorm:"column:description;type:text"`
	Location    string    `gorm:"column:location;type:varchar(255);not null"`
	CropType    string    `gorm:"column:crop_type;type:varchar(100);not null"`
	Size        float64   `gorm:"column:size;not null"` // 公顷
	Status      string    `gorm:"column:status;type:varchar(20);not null;default:'active'"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index:idx_plot_created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Plot) TableName() string {
	return "plots"
}

// 地块状态常量
const (
	PlotStatusActive   = "active"
	PlotStatusInactive = "inactive"
	PlotStatusArchived = "archived"
)
