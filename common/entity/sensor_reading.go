package entity

import "time"

// SensorReading 传感器读数实体
type SensorReading struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	PlotID     int64     `gorm:"column:plot_id;not null;index:idx_plot_sensor_time,priority:1"`
	SensorType string    `gorm:"column:sensor_type;type:varchar(50);not null;index:idx_plot_sensor_time,priority:2"`
	Value      float64   `gorm:"column:value;not null"`
	Unit       string    `gorm:"column:unit;type:varchar(20)"`
	Source     string    `gorm:"column:source;type:varchar(16);not null;default:'api'"` // api / mqtt
	Timestamp  time.Time `gorm:"column:timestamp;not null;index:idx_plot_sensor_time,priority:3,sort:desc"`
}

// TableName 指定表名
func (SensorReading) TableName() string {
	return "sensor_readings"
}
