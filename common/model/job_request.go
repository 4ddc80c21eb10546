package model

// 动作类型（worker 路由键）
const (
	ActionPlotAnalyze  = "plot_analyze"
	ActionFleetAnalyze = "fleet_analyze"
)

// AnalysisJob 分析任务消息（标准化）
// 用于 apiserver → worker 的消息传递
type AnalysisJob struct {
	Payload AnalysisPayload `json:"payload"`
}

// AnalysisPayload Job 负载
type AnalysisPayload struct {
	Data AnalysisJobData `json:"data"`
}

// AnalysisJobData Job 数据层
type AnalysisJobData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID（固定为 "0"）
	ActionType string `json:"action_type"` // plot_analyze / fleet_analyze
	ID         string `json:"id"`          // 地块 ID，fleet 任务为空

	// 业务数据：PlotAnalyzeData 或 FleetAnalyzeData
	Data interface{} `json:"data"`
}

// PlotAnalyzeData 单地块分析数据
// 包含 worker 执行分析所需的全部读数（worker 不查 DB）
type PlotAnalyzeData struct {
	PlotID    string       `json:"plot_id"`
	Timestamp string       `json:"timestamp"`
	Readings  ReadingBatch `json:"readings"`
}

// FleetAnalyzeData 多地块批量分析数据
type FleetAnalyzeData struct {
	Timestamp string         `json:"timestamp"`
	Plots     []PlotReadings `json:"plots"`
}

// PlotReadings 单个地块的读数
type PlotReadings struct {
	PlotID   string       `json:"plot_id"`
	Readings ReadingBatch `json:"readings"`
}
