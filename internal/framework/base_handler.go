package framework

import (
	"context"
	"encoding/json"
	"fmt"
)

// BaseHandler 各 action_type 处理器共用的任务解析与输出存取
type BaseHandler struct {
	meta       *JobMeta
	rawData    []byte
	bizPayload json.RawMessage // 保持原始字节，ReadingBatch 依赖 key 顺序
	output     interface{}
}

// Job apiserver 投递的任务信封 {"payload":{"data":{...}}}
type Job struct {
	Payload *JobPayload `json:"payload"`
}

type JobPayload struct {
	Data *JobPayloadData `json:"data"`
}

type JobPayloadData struct {
	RequestID  string          `json:"request_id"`
	ActionType string          `json:"action_type"`
	OrgID      string          `json:"org_id"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
}

// JobMeta 信封中除业务数据外的字段，fleet 任务的 ID 为空
type JobMeta struct {
	RequestID  string `json:"request_id"`
	ActionType string `json:"action_type"`
	OrgID      string `json:"org_id"`
	ID         string `json:"id"`
}

// ParseJob 解析任务信封，action_type 为空视为结构错误
func (b *BaseHandler) ParseJob(ctx context.Context, rawData []byte) error {
	b.rawData = rawData

	var job Job
	if err := json.Unmarshal(rawData, &job); err != nil {
		return b.WrapError(err, "unmarshal job failed")
	}

	if job.Payload == nil || job.Payload.Data == nil {
		return b.WrapError(nil, "invalid job structure: payload.data is nil")
	}

	data := job.Payload.Data
	if data.ActionType == "" {
		return b.WrapError(nil, "invalid job structure: action_type is empty")
	}

	b.meta = &JobMeta{
		RequestID:  data.RequestID,
		ActionType: data.ActionType,
		OrgID:      data.OrgID,
		ID:         data.ID,
	}

	b.bizPayload = data.Data

	return nil
}

// DecodePayload 将业务数据解码到 dst
func (b *BaseHandler) DecodePayload(dst interface{}) error {
	if len(b.bizPayload) == 0 || string(b.bizPayload) == "null" {
		return b.WrapError(nil, "job data is empty")
	}
	if err := json.Unmarshal(b.bizPayload, dst); err != nil {
		return b.WrapError(err, "unmarshal job data failed")
	}
	return nil
}

// WrapError 统一包装错误
func (b *BaseHandler) WrapError(err error, msg string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// GetMeta 获取 meta
func (b *BaseHandler) GetMeta() *JobMeta {
	return b.meta
}

// SetMeta 设置 meta（RequestID 为空时由调用方补齐）
func (b *BaseHandler) SetMeta(meta *JobMeta) {
	b.meta = meta
}

// GetRawData 获取原始数据
func (b *BaseHandler) GetRawData() []byte {
	return b.rawData
}

// GetBizPayload 获取业务数据
func (b *BaseHandler) GetBizPayload() json.RawMessage {
	return b.bizPayload
}

// SetOutput 设置输出
func (b *BaseHandler) SetOutput(output interface{}) {
	b.output = output
}

// GetOutput 获取输出
func (b *BaseHandler) GetOutput() interface{} {
	return b.output
}
