package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cropwatch/internal/app/config"
	"cropwatch/internal/app/consumer"
	"cropwatch/internal/app/domains/modules/mdalert"
	"cropwatch/internal/app/domains/repo/rpalert"
	"cropwatch/internal/app/domains/services/svcallback"
	"cropwatch/internal/app/infra/persistence/mysql"
	"cropwatch/internal/app/infra/persistence/redis"
	"cropwatch/internal/app/pkg/idgen"
	"cropwatch/internal/app/pkg/logger"
	"cropwatch/pkg/lmstfy"
)

var configPath = flag.String("config", "config/config.yaml", "配置文件路径")

// 独立部署的回调消费者，apiserver 配置 callback.embedded=false 时使用
func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化日志
	appLogger, err := logger.NewWithFile(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLogger.Sync()
	appLogger.Info("Starting callback consumer...")

	// 3. 初始化基础设施组件
	db, err := mysql.Open(cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer mysql.Close(db)
	appLogger.Info("Database connected")

	redisClient, err := redis.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	appLogger.Info("Redis connected")

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		log.Fatalf("Failed to init lmstfy client: %v", err)
	}

	// 4. 组装回调处理链路
	alertModule := mdalert.NewAlertModule(rpalert.NewAlertRepository(db))
	callbackService := svcallback.NewCallbackService(alertModule, redisClient, idgen.GenerateID, appLogger)
	callbackConsumer := consumer.NewCallbackConsumer(lmstfyClient, callbackService, &consumer.Config{
		QueueName:    cfg.Lmstfy.CallbackQueue,
		Timeout:      cfg.Callback.PollTimeout,
		TTR:          cfg.Callback.TTR,
		PollInterval: cfg.Callback.PollInterval,
	}, appLogger)

	// 5. 启动并等待退出信号
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- callbackConsumer.Start(ctx) }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLogger.Info("Received signal, shutting down", "signal", sig.String())
		cancel()
		<-errChan
	case err := <-errChan:
		cancel()
		if err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Error("Callback consumer exited", "error", err)
		}
	}

	appLogger.Info("Callback consumer stopped")
}
