package request

// ListAlertsQuery 告警查询参数
type ListAlertsQuery struct {
	PlotID     int64  `form:"plot_id" binding:"omitempty,min=1" example:"3"`
	Severity   string `form:"severity" binding:"omitempty,severity" example:"critical"`
	Unresolved bool   `form:"unresolved" example:"true"`
	Hours      int    `form:"hours" binding:"omitempty,min=1" example:"24"` // 最近 N 小时
	PageQuery
}

// SummaryQuery 告警汇总参数
type SummaryQuery struct {
	PlotID     int64 `form:"plot_id" binding:"omitempty,min=1" example:"3"`
	Unresolved bool  `form:"unresolved" example:"false"`
}

// AlertActionRequest 解决/确认告警请求
type AlertActionRequest struct {
	Notes string `json:"notes" binding:"max=1000" example:"irrigation restored"`
}

// AnalyzeQuery 分析参数
type AnalyzeQuery struct {
	Wait int `form:"wait" binding:"omitempty,min=0" example:"10"` // Smart Wait 秒数
}
