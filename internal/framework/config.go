package framework

import "time"

// SubscriberConfig 对应 workers[].subscriber
type SubscriberConfig struct {
	QueueName    string
	Concurrency  int
	Timeout      time.Duration // 单次 Consume 的阻塞上限
	TTR          time.Duration // 未 ACK 时重新投递的间隔
	Rate         time.Duration // 两次成功拉取之间的间隔
	ErrorBackoff time.Duration
}

// ProcessorConfig 对应 workers[].processor
type ProcessorConfig struct {
	Concurrency int
	BufferSize  int           // Subscriber 与 Processor 之间的通道容量
	Timeout     time.Duration // 单个分析任务的处理上限
}
