package errorutil

import (
	"context"
	"errors"
	"fmt"
)

// Kind 分析任务失败类别，决定任务是 bury 还是等待重新投递
type Kind string

const (
	KindInvalidJob Kind = "invalid_job" // 任务数据非法，重投无意义
	KindTransient  Kind = "transient"   // 队列、网络或超时，重投可恢复
	KindInternal   Kind = "internal"
)

// Error 写入 Response 与回调的任务错误
type Error struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
}

func (e *Error) Error() string {
	if e.DevDetails != "" {
		return e.Message + ": " + e.DevDetails
	}
	return e.Message
}

// IsRetryable nil 安全
func (e *Error) IsRetryable() bool {
	return e != nil && e.Retryable
}

// Retriable 队列或网络故障
func Retriable(message string) *Error {
	return &Error{Kind: KindTransient, Message: message, Retryable: true}
}

// RetriableWithDetails 同 Retriable，details 为底层错误
func RetriableWithDetails(message string, details string) *Error {
	e := Retriable(message)
	e.DevDetails = details
	return e
}

// NonRetriable 任务数据错误，如缺少 plot_id 或读数
func NonRetriable(message string) *Error {
	return &Error{Kind: KindInvalidJob, Message: message}
}

// NonRetriableWithDetails 同 NonRetriable，details 为底层错误
func NonRetriableWithDetails(message string, details string) *Error {
	e := NonRetriable(message)
	e.DevDetails = details
	return e
}

// Wrap 沿错误链查找 *Error；处理超时或被取消视为可重试，其余为 internal
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return RetriableWithDetails("analysis interrupted", err.Error())
	}
	return &Error{
		Kind:       KindInternal,
		Message:    err.Error(),
		DevDetails: fmt.Sprintf("%+v", err),
	}
}

// IsRetryable 按 Wrap 的分类判断
func IsRetryable(err error) bool {
	return Wrap(err).IsRetryable()
}
