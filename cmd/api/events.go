package main

import (
	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/infrastructure/config"
	"github.com/xiebiao/lodging/internal/infrastructure/notify"
	"github.com/xiebiao/lodging/pkg/mq"
)

// newDispatcher 创建预订事件投递器
// mq.enabled=true时投递到RabbitMQ，连不上或未启用时只写日志
func newDispatcher(cfg *config.Config, logger *zap.Logger) (*notify.Dispatcher, func()) {
	var sink notify.Sink = notify.NewLogSink(logger)
	closeSink := func() {}

	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, logger)
		if err != nil {
			logger.Warn("message queue unavailable, booking events go to log", zap.Error(err))
		} else {
			sink = publisher
			closeSink = func() {
				if err := publisher.Close(); err != nil {
					logger.Warn("close publisher failed", zap.Error(err))
				}
			}
		}
	}

	d := notify.NewDispatcher(sink, notify.Config{BufferSize: cfg.MQ.BufferSize}, logger)
	return d, closeSink
}
