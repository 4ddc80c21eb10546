package response

import "time"

// PlotResponse 地块响应（DTO）
type PlotResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location"`
	CropType    string    `json:"crop_type"`
	Size        float64   `json:"size"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReadingValue 读数（DTO）
type ReadingValue struct {
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadingResponse 读数历史条目
type ReadingResponse struct {
	ID         string    `json:"id"`
	PlotID     string    `json:"plot_id"`
	SensorType string    `json:"sensor_type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
}

// IngestResponse 读数上报响应
type IngestResponse struct {
	PlotID string `json:"plot_id"`
	Stored int    `json:"stored"`
}

// ListResponse 分页列表响应
type ListResponse struct {
	Items interface{} `json:"items"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int64       `json:"total"`
}

// LatestReadingsResponse 地块最新读数，缺失类别为 null
type LatestReadingsResponse struct {
	PlotID   string                   `json:"plot_id"`
	Readings map[string]*ReadingValue `json:"readings"`
}
