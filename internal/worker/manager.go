package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"cropwatch/internal/business"
	"cropwatch/internal/domains"
	"cropwatch/internal/framework"
	"cropwatch/pkg/config"
	"cropwatch/pkg/lmstfy"
	"cropwatch/pkg/logger"
)

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance Manager 实例
type ManagerInstance struct {
	ctx          context.Context
	cfg          *config.Config
	lmstfyClient *lmstfy.Client
	composite    *business.CompositeHandler // 所有 Worker 共享（离群检测器只拟合一次）
	workers      []Worker
	closing      *atomic.Bool
	shutdownCh   chan struct{}
	wg           sync.WaitGroup
	logger       logger.Logger
}

// NewManagerInstance 创建 Manager
func NewManagerInstance(cfg *config.Config, log logger.Logger) (Manager, error) {
	ctx := context.Background()

	// 初始化 lmstfy 客户端
	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
	}

	for i, w := range cfg.Workers {
		if w.CallbackQueue == "" {
			return nil, fmt.Errorf("workers[%d].callback_queue is required", i)
		}
	}

	composite, err := business.NewCompositeHandlerFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis pipeline: %w", err)
	}

	log.Infof(ctx, "[Manager] Initialized with %d workers, outlier_enabled: %v", len(cfg.Workers), cfg.Outlier.Enabled)

	return &ManagerInstance{
		ctx:          ctx,
		cfg:          cfg,
		lmstfyClient: lmstfyClient,
		composite:    composite,
		closing:      atomic.NewBool(false),
		shutdownCh:   make(chan struct{}),
		workers:      make([]Worker, 0, len(cfg.Workers)),
		logger:       log,
	}, nil
}

// Start 启动 Manager
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	// 1. 加载所有 Worker
	if err := m.loadWorkers(); err != nil {
		return fmt.Errorf("failed to load workers: %w", err)
	}

	m.logger.Infof(m.ctx, "[Manager] All workers loaded, count: %d", len(m.workers))

	// 2. 启动所有 Worker（每个 Worker 在独立 goroutine）
	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	m.logger.Infof(m.ctx, "[Manager] Start success")

	// 3. 阻塞等待退出信号
	<-m.shutdownCh

	return nil
}

// Shutdown 优雅退出
func (m *ManagerInstance) Shutdown() {
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	if m.closing.CAS(false, true) {
		// 1. 所有 Worker 安全退出
		for _, worker := range m.workers {
			m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
			worker.Shutdown()
		}

		// 2. 等待所有 Worker 退出
		m.wg.Wait()

		// 3. 关闭信号通道
		close(m.shutdownCh)

		m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
	}
}

// loadWorkers 加载所有 Worker
// 每个 Worker 消费自己的任务队列，并回调到自己的 callback_queue
func (m *ManagerInstance) loadWorkers() error {
	for _, workerCfg := range m.cfg.Workers {
		subCfg, procCfg := frameworkConfigs(workerCfg)

		svc := business.NewAnalysisService(m.composite, m.lmstfyClient, workerCfg.CallbackQueue)

		worker, err := NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.lmstfyClient,                    // MessageSource
			domains.GetProcess(m.logger, svc), // lmstfyx.Proc
			m.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create worker %s: %w", workerCfg.Name, err)
		}

		m.workers = append(m.workers, worker)
	}

	return nil
}

// frameworkConfigs 将配置文件转换为框架配置
func frameworkConfigs(workerCfg config.WorkerConfig) (*framework.SubscriberConfig, *framework.ProcessorConfig) {
	subCfg := &framework.SubscriberConfig{
		QueueName:    workerCfg.QueueName,
		Concurrency:  workerCfg.Subscriber.Threads,
		Rate:         workerCfg.Subscriber.Rate,
		Timeout:      workerCfg.Subscriber.Timeout,
		TTR:          workerCfg.Subscriber.TTR,
		ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
	}

	procCfg := &framework.ProcessorConfig{
		Concurrency: workerCfg.Processor.Threads,
		BufferSize:  workerCfg.Processor.BufferSize,
		Timeout:     workerCfg.Processor.Timeout,
	}

	return subCfg, procCfg
}
