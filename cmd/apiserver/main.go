package main

// @title           CropWatch API
// @version         1.0
// @description     农田传感器异常分级与处置建议服务，提供地块、读数接入、异步分析与告警管理
// @host            localhost:8080
// @BasePath        /api/v1

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cropwatch/internal/app/config"
)

var configPath = flag.String("config", "config/config.yaml", "配置文件路径")

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

	// 2. 初始化应用（HTTP Server、回调消费者、MQTT 接入）
	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer cleanup()

	// 3. 创建 HTTP Server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: app.Engine,
	}

	// 4. 启动后台任务
	bgCtx, cancelBackground := context.WithCancel(context.Background())
	backgroundErrChan := app.RunBackground(bgCtx)

	// 5. 启动 HTTP Server（后台 goroutine）
	serverErrChan := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting HTTP server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 6. 优雅停机处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigChan:
			app.Logger.Info("Received shutdown signal, gracefully shutting down...")
			gracefulShutdown(server, cancelBackground)
			app.Logger.Info("Application stopped")
			return
		case err := <-serverErrChan:
			cancelBackground()
			log.Fatalf("HTTP server error: %v", err)
		case err := <-backgroundErrChan:
			if err != nil {
				cancelBackground()
				log.Fatalf("Background task error: %v", err)
			}
		}
	}
}

// gracefulShutdown 优雅停机
func gracefulShutdown(server *http.Server, cancelBackground context.CancelFunc) {
	// 1. 停止消费者、MQTT 与 websocket
	log.Println("Stopping background tasks...")
	cancelBackground()
	time.Sleep(1 * time.Second) // 等待消费者处理完当前消息

	// 2. 停止 HTTP Server
	log.Println("Stopping HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped gracefully")
	}
}
