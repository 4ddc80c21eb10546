package response

import (
	"cropwatch/internal/framework"
	"cropwatch/pkg/errorutil"
)

// ResultI 业务结果接口
type ResultI interface {
	// Set 设置元数据和错误
	Set(meta *framework.JobMeta, err error)

	// GetStatus 获取状态
	GetStatus() string
}

// Response 统一响应结构
type Response struct {
	Error     *errorutil.Error   `json:"error"`
	Result    ResultI            `json:"result"`
	Processed bool               `json:"processed"`
	Meta      *framework.JobMeta `json:"meta"`
}

// WrapResponse 包装响应
func (r *Response) WrapResponse(result ResultI, meta *framework.JobMeta, err error) {
	result.Set(meta, err)

	r.Processed = err == nil
	r.Meta = meta
	r.Error = errorutil.Wrap(err)
	r.Result = result
}

// Retryable 是否需要 lmstfy 重新投递
func (r *Response) Retryable() bool {
	return !r.Processed && r.Error.IsRetryable()
}
