package framework

import (
	"context"
	"sync"
	"time"

	"github.com/bitleak/lmstfy/client"

	"cropwatch/pkg/lmstfyx"
	"cropwatch/pkg/logger"
)

// Processor 并发执行分析任务，并按结果 ACK
type Processor struct {
	cfg    *ProcessorConfig
	proc   lmstfyx.Proc
	source MessageSource
	log    Logger
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewProcessor 创建处理器
func NewProcessor(cfg *ProcessorConfig, proc lmstfyx.Proc, source MessageSource, log Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		proc:   proc,
		source: source,
		log:    log,
		done:   make(chan struct{}),
	}
}

// Start 启动 cfg.Concurrency 个处理协程
func (p *Processor) Start(ctx context.Context, in <-chan *Message) error {
	p.log.Infof(ctx, "[Processor] handlers=%d timeout=%v", p.cfg.Concurrency, p.cfg.Timeout)
	for i := 0; i < p.cfg.Concurrency; i++ {
		p.wg.Add(1)
		go p.run(ctx, i, in)
	}
	return nil
}

// SignalShutdown 处理完通道中剩余任务后退出
func (p *Processor) SignalShutdown() {
	close(p.done)
}

// Wait 等待处理协程全部退出
func (p *Processor) Wait() {
	p.wg.Wait()
	p.log.Infof(context.Background(), "[Processor] handlers stopped")
}

func (p *Processor) run(ctx context.Context, id int, in <-chan *Message) {
	defer p.wg.Done()

	for {
		select {
		case msg := <-in:
			p.handle(ctx, id, msg)
		case <-p.done:
			drained := 0
			for {
				select {
				case msg := <-in:
					p.handle(ctx, id, msg)
					drained++
				default:
					if drained > 0 {
						p.log.Infof(ctx, "[Processor-%d] drained %d jobs", id, drained)
					}
					return
				}
			}
		}
	}
}

func (p *Processor) handle(ctx context.Context, id int, msg *Message) {
	if msg == nil {
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()
	jobCtx = logger.WithMessageID(logger.WithWorkerID(jobCtx, id), msg.ID)

	start := time.Now()
	resp := p.proc(jobCtx, &client.Job{ID: msg.ID, Queue: msg.Queue, Data: msg.Data})
	if resp == nil {
		resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
	}
	p.log.Infof(jobCtx, "[Processor-%d] job %s finished action=%s in %v", id, msg.ID, resp.Action, time.Since(start))

	switch resp.Action {
	case lmstfyx.JobRespStatusRelease:
		// 不 ACK，TTR 到期后 lmstfy 重新投递，超过 tries 进入死信
		p.log.Warnf(jobCtx, "[Processor-%d] job %s released for retry", id, msg.ID)
		return
	case lmstfyx.JobRespStatusBury:
		p.log.Errorf(jobCtx, "[Processor-%d] job %s buried", id, msg.ID)
	}
	if err := p.source.Ack(msg.Queue, msg.ID); err != nil {
		p.log.Errorf(jobCtx, "[Processor-%d] ack job %s failed: %v", id, msg.ID, err)
	}
}
