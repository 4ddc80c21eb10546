package worker

import (
	"context"

	"cropwatch/internal/framework"
	"cropwatch/pkg/lmstfyx"
	"cropwatch/pkg/logger"
)

// Worker 单个队列的拉取-处理单元
type Worker interface {
	Start()
	Shutdown()
	GetName() string
}

// WorkerInstance Subscriber 与 Processor 通过有缓冲通道连接
type WorkerInstance struct {
	ctx     context.Context
	name    string
	sub     *framework.Subscriber
	proc    *framework.Processor
	jobs    chan *framework.Message
	stopped chan struct{}
	logger  logger.Logger
}

// NewWorkerInstance proc 通常为 domains.GetProcess 返回的分发函数
func NewWorkerInstance(
	ctx context.Context,
	name string,
	subscriberCfg *framework.SubscriberConfig,
	processorCfg *framework.ProcessorConfig,
	source framework.MessageSource,
	proc lmstfyx.Proc,
	log logger.Logger,
) (Worker, error) {
	return &WorkerInstance{
		ctx:     ctx,
		name:    name,
		sub:     framework.NewSubscriber(subscriberCfg, source, log),
		proc:    framework.NewProcessor(processorCfg, proc, source, log),
		jobs:    make(chan *framework.Message, processorCfg.BufferSize),
		stopped: make(chan struct{}),
		logger:  log,
	}, nil
}

// Start 启动后阻塞到 Shutdown 完成
func (w *WorkerInstance) Start() {
	_ = w.proc.Start(w.ctx, w.jobs)
	_ = w.sub.Start(w.ctx, w.jobs)
	w.logger.Infof(w.ctx, "[Worker] %s running", w.name)
	<-w.stopped
}

// Shutdown 先停拉取，再排空已拉到的任务
func (w *WorkerInstance) Shutdown() {
	w.logger.Infof(w.ctx, "[Worker] %s stopping", w.name)
	w.sub.Stop()
	w.sub.Wait()
	w.proc.SignalShutdown()
	w.proc.Wait()
	close(w.stopped)
	w.logger.Infof(w.ctx, "[Worker] %s stopped", w.name)
}

// GetName 返回配置中的 worker 名称
func (w *WorkerInstance) GetName() string {
	return w.name
}
