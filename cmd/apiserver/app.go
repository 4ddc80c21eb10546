package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"cropwatch/internal/app/config"
	"cropwatch/internal/app/consumer"
	"cropwatch/internal/app/domains/modules/mdalert"
	"cropwatch/internal/app/domains/modules/mdanalysis"
	"cropwatch/internal/app/domains/modules/mdplot"
	"cropwatch/internal/app/domains/repo/rpalert"
	"cropwatch/internal/app/domains/repo/rpplot"
	"cropwatch/internal/app/domains/repo/rpreading"
	"cropwatch/internal/app/domains/services/svalert"
	"cropwatch/internal/app/domains/services/svanalysis"
	"cropwatch/internal/app/domains/services/svcallback"
	"cropwatch/internal/app/domains/services/svplot"
	"cropwatch/internal/app/infra/persistence/mysql"
	"cropwatch/internal/app/infra/persistence/redis"
	"cropwatch/internal/app/pkg/idgen"
	"cropwatch/internal/app/pkg/logger"
	"cropwatch/internal/app/server/handlers/alert"
	"cropwatch/internal/app/server/handlers/analysis"
	"cropwatch/internal/app/server/handlers/plot"
	"cropwatch/internal/app/server/handlers/reading"
	"cropwatch/internal/app/server/routers"
	"cropwatch/internal/app/server/ws"
	"cropwatch/pkg/lmstfy"
)

// App 应用实例
type App struct {
	Engine           *gin.Engine
	Logger           *logger.ZapLogger
	Hub              *ws.Hub
	Feed             ws.FeedListener
	CallbackConsumer *consumer.CallbackConsumer // callback.embedded 为 false 时为 nil
	MQTTIngestor     *consumer.MQTTIngestor     // mqtt.broker 为空时为 nil
}

// RunBackground 启动后台任务，ctx 取消后全部退出
func (a *App) RunBackground(ctx context.Context) <-chan error {
	errCh := make(chan error, 4)

	go a.Hub.Run(ctx)
	go func() { errCh <- a.named("alert feed", ws.RunFeed(ctx, a.Feed, a.Hub, a.Logger)) }()
	if a.CallbackConsumer != nil {
		go func() { errCh <- a.named("callback consumer", a.CallbackConsumer.Start(ctx)) }()
	}
	if a.MQTTIngestor != nil {
		go func() { errCh <- a.named("mqtt ingestor", a.MQTTIngestor.Start(ctx)) }()
	}
	return errCh
}

func (a *App) named(name string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// InitializeApp 按依赖顺序组装应用
// infra → repo → module → service → handler → router
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	appLogger, err := logger.NewWithFile(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger failed: %w", err)
	}

	// 1. 基础设施
	db, err := mysql.Open(cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	if cfg.MySQL.AutoMigrate {
		if err := mysql.AutoMigrate(db); err != nil {
			_ = mysql.Close(db)
			return nil, nil, err
		}
	}
	appLogger.Info("Database connected", "auto_migrate", cfg.MySQL.AutoMigrate)

	redisClient, err := redis.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = mysql.Close(db)
		return nil, nil, fmt.Errorf("connect redis failed: %w", err)
	}
	appLogger.Info("Redis connected", "addr", cfg.Redis.Addr)

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		_ = redisClient.Close()
		_ = mysql.Close(db)
		return nil, nil, err
	}

	cleanup := func() {
		_ = redisClient.Close()
		_ = mysql.Close(db)
		_ = appLogger.Sync()
	}

	// 2. 仓储与模块
	plotModule := mdplot.NewPlotModule(rpplot.NewPlotRepository(db), rpreading.NewReadingRepository(db))
	alertModule := mdalert.NewAlertModule(rpalert.NewAlertRepository(db))
	analysisModule := mdanalysis.NewAnalysisModule(lmstfyClient, redisClient, cfg.Lmstfy.Queue, cfg.Analysis.JobTTL)

	// 3. 服务
	plotService := svplot.NewPlotService(plotModule)
	analysisService := svanalysis.NewAnalysisService(plotModule, analysisModule, cfg.Analysis.MaxWait, appLogger)
	alertService := svalert.NewAlertService(alertModule, plotModule, appLogger)

	// 4. HTTP
	hub := ws.NewHub(appLogger)
	engine, err := routers.SetupRoutes(routers.Handlers{
		Plot:     plot.NewPlotHandler(plotService),
		Reading:  reading.NewReadingHandler(plotService),
		Analysis: analysis.NewAnalysisHandler(analysisService),
		Alert:    alert.NewAlertHandler(alertService),
		AlertWS:  ws.ServeWS(hub, appLogger),
	}, cfg.Server.CORSOrigins, appLogger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	app := &App{
		Engine: engine,
		Logger: appLogger,
		Hub:    hub,
		Feed:   redisClient,
	}

	// 5. 回调消费者与 MQTT 接入
	if cfg.Callback.Embedded {
		callbackService := svcallback.NewCallbackService(alertModule, redisClient, idgen.GenerateID, appLogger)
		app.CallbackConsumer = consumer.NewCallbackConsumer(lmstfyClient, callbackService, &consumer.Config{
			QueueName:    cfg.Lmstfy.CallbackQueue,
			Timeout:      cfg.Callback.PollTimeout,
			TTR:          cfg.Callback.TTR,
			PollInterval: cfg.Callback.PollInterval,
		}, appLogger)
	}
	if cfg.MQTT.Broker != "" {
		ingestor, err := consumer.NewMQTTIngestor(cfg.MQTT, plotService, appLogger)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		app.MQTTIngestor = ingestor
	}

	return app, cleanup, nil
}
