package response

import (
	"cropwatch/common/model"
	"cropwatch/internal/framework"
	"cropwatch/pkg/errorutil"
)

const (
	AnalysisStatusSuccess = "SUCCESS"
	AnalysisStatusFailed  = "FAILED"
)

// AnalysisResult 分析任务结果（实现 ResultI 接口）
// 只保留日志所需的摘要，完整结果已经通过回调队列送达 apiserver
type AnalysisResult struct {
	ID        string               `json:"id"`
	RequestID string               `json:"request_id"`
	Status    string               `json:"status"`
	Plots     int                  `json:"plots"`
	Summary   *model.AlertsSummary `json:"summary,omitempty"`
	Error     *errorutil.Error     `json:"error,omitempty"`
}

// NewAnalysisResult 创建分析结果
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{}
}

// Fill 记录分析产出
func (r *AnalysisResult) Fill(data *model.AnalysisResultData) {
	if data == nil {
		return
	}
	summary := data.Summary
	r.Plots = len(data.Plots)
	r.Summary = &summary
}

// Set 实现 ResultI 接口
func (r *AnalysisResult) Set(meta *framework.JobMeta, err error) {
	if meta != nil {
		r.ID = meta.ID
		r.RequestID = meta.RequestID
	}
	if err != nil {
		r.Status = AnalysisStatusFailed
		r.Error = errorutil.Wrap(err)
	} else {
		r.Status = AnalysisStatusSuccess
	}
}

// GetStatus 实现 ResultI 接口
func (r *AnalysisResult) GetStatus() string {
	return r.Status
}
