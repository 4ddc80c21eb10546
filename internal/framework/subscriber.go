package framework

import (
	"context"
	"sync"
	"time"

	"cropwatch/internal/metrics"
)

// Subscriber 从队列拉取分析任务并投递给 Processor
type Subscriber struct {
	cfg    *SubscriberConfig
	source MessageSource
	logger Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSubscriber 创建订阅者
func NewSubscriber(cfg *SubscriberConfig, source MessageSource, logger Logger) *Subscriber {
	return &Subscriber{cfg: cfg, source: source, logger: logger}
}

// Start 启动 cfg.Concurrency 个拉取协程，立即返回
func (s *Subscriber) Start(parentCtx context.Context, out chan<- *Message) error {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	s.logger.Infof(ctx, "[Subscriber] queue=%s pollers=%d", s.cfg.QueueName, s.cfg.Concurrency)
	for i := 0; i < s.cfg.Concurrency; i++ {
		s.wg.Add(1)
		go s.poll(ctx, i, out)
	}
	return nil
}

// Stop 停止拉取新任务
func (s *Subscriber) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait 等待拉取协程全部退出
func (s *Subscriber) Wait() {
	s.wg.Wait()
	s.logger.Infof(context.Background(), "[Subscriber] queue=%s pollers stopped", s.cfg.QueueName)
}

func (s *Subscriber) poll(ctx context.Context, id int, out chan<- *Message) {
	defer s.wg.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		msg, err := s.source.Consume(s.cfg.QueueName, s.cfg.Timeout, s.cfg.TTR)
		switch {
		case err != nil:
			metrics.QueuePolls.WithLabelValues(s.cfg.QueueName, "error").Inc()
			s.logger.Warnf(ctx, "[Subscriber-%d] consume %s failed: %v", id, s.cfg.QueueName, err)
			if !sleep(ctx, timer, s.cfg.ErrorBackoff) {
				return
			}
			continue
		case msg == nil:
			metrics.QueuePolls.WithLabelValues(s.cfg.QueueName, "empty").Inc()
			if ctx.Err() != nil {
				return
			}
			continue
		}

		metrics.QueuePolls.WithLabelValues(s.cfg.QueueName, "job").Inc()
		select {
		case out <- msg:
			s.logger.Debugf(ctx, "[Subscriber-%d] job %s dispatched", id, msg.ID)
		case <-ctx.Done():
			// 未 ACK 的任务在 TTR 到期后由 lmstfy 重新投递
			s.logger.Warnf(ctx, "[Subscriber-%d] job %s left for redelivery", id, msg.ID)
			return
		}

		if !sleep(ctx, timer, s.cfg.Rate) {
			return
		}
	}
}

// sleep 等待 d，ctx 取消时返回 false
func sleep(ctx context.Context, timer *time.Timer, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer.Reset(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return false
	case <-timer.C:
		return true
	}
}
