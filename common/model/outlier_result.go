package model

// OutlierLabel 离群检测结论
type OutlierLabel string

const (
	OutlierNormal    OutlierLabel = "normal"
	OutlierAnomalous OutlierLabel = "anomalous"
)

// OutlierVerdict 单个地块的离群检测结论
type OutlierVerdict struct {
	Label OutlierLabel `json:"label"`
	Score float64      `json:"score"`
}

// OutlierReport 批量离群检测结果
// Fitted=false 表示模型样本不足，尚未训练，本次没有结论
type OutlierReport struct {
	Fitted         bool     `json:"fitted"`
	Evaluated      int      `json:"evaluated"`
	AnomalousPlots []string `json:"anomalous_plots"`
}
