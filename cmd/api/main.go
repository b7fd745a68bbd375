package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	_ "github.com/xiebiao/lodging/docs"
	"github.com/xiebiao/lodging/internal/infrastructure/config"
	applog "github.com/xiebiao/lodging/internal/infrastructure/logger"
	"github.com/xiebiao/lodging/internal/interface/rpc"
	"github.com/xiebiao/lodging/pkg/metrics"
	"github.com/xiebiao/lodging/pkg/response"
	"github.com/xiebiao/lodging/pkg/tracing"
)

// @title           Lodging API
// @version         1.0
// @description     酒店房量、价格与预订生命周期服务
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	response.SetLogger(logger)
	metrics.InitMetrics()

	logger.Info("config loaded",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("driver", cfg.Database.Driver),
	)

	// 2. 链路追踪，初始化失败不影响启动
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("tracer shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	// 3. 存储与事件投递
	store, err := openStorage(cfg, logger)
	if err != nil {
		logger.Fatal("open storage failed", zap.Error(err))
	}
	defer store.close()

	dispatcher, closeSink := newDispatcher(cfg, logger)
	defer closeSink()

	// 4. 依赖注入
	a := buildApp(cfg, store, dispatcher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.dealExpiry.Run(ctx)

	// 5. gRPC健康检查
	var grpcServer *rpc.Server
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			logger.Fatal("grpc listen failed", zap.Error(err))
		}
		grpcServer = rpc.NewServer(logger)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("grpc server stopped", zap.Error(err))
			}
		}()
		grpcServer.SetServing(true)
	}

	// 6. HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 7. 优雅关闭：先停止接收请求，再把队列中的事件投递完
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("pending booking events not delivered", zap.Error(err))
	}

	logger.Info("server exited")
}
