package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/infrastructure/config"
	applog "github.com/xiebiao/lodging/internal/infrastructure/logger"
	"github.com/xiebiao/lodging/internal/infrastructure/notify"
	"github.com/xiebiao/lodging/pkg/metrics"
	"github.com/xiebiao/lodging/pkg/mq"
)

// main 预订事件消费者
// 订阅api服务投递的booking.*事件并发送通知，与api共用配置文件
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.InitMetrics()

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		cfg.MQ.ExchangeType,
		cfg.MQ.Queue,
		[]string{
			booking.EventCreated,
			booking.EventStatusChanged,
			booking.EventCancelled,
			booking.EventPaid,
		},
		logger,
	)
	if err != nil {
		logger.Fatal("create consumer failed", zap.Error(err))
	}
	defer func() { _ = consumer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := notify.NewEventHandler(consumer.Queue(), logger)
	logger.Info("notifier started", zap.String("queue", consumer.Queue()))

	if err := consumer.Consume(ctx, handler.Handle); err != nil {
		logger.Error("consumer stopped", zap.Error(err))
	}
	logger.Info("notifier exited")
}
