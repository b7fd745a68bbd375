package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSink 未启用消息队列时的落地方，只写日志
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink 创建日志落地方
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Publish 记录事件
func (s *LogSink) Publish(ctx context.Context, routingKey string, message interface{}) error {
	s.logger.Info("booking event", zap.String("routing_key", routingKey), zap.Any("event", message))
	return nil
}
