package model

// PlotAnalysisCallback 分析回调消息（标准化）
// 用于 worker → apiserver callback consumer 的消息传递
type PlotAnalysisCallback struct {
	RequestID      string              `json:"request_id"`                // 对应请求的 request_id（链路追踪）
	ActionType     string              `json:"action_type"`               // plot_analyze / fleet_analyze
	PlotID         string              `json:"plot_id,omitempty"`         // 单地块任务的地块 ID
	Status         string              `json:"status"`                    // 回调状态: SUCCESS / FAILED
	AnalysisResult *AnalysisResultData `json:"analysis_result,omitempty"` // 分析结果（成功时返回）
	Error          string              `json:"error,omitempty"`           // 错误信息（失败时返回）
	ProcessedAt    int64               `json:"processed_at"`              // 处理时间戳（Unix timestamp）
}

// 回调状态常量
const (
	CallbackStatusSuccess = "SUCCESS"
	CallbackStatusFailed  = "FAILED"
)
