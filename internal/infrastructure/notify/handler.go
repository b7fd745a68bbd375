package notify

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/pkg/metrics"
)

// EventHandler 消费端的预订事件处理，当前只写通知日志
type EventHandler struct {
	queue  string
	logger *zap.Logger
}

// NewEventHandler 创建事件处理器
func NewEventHandler(queue string, logger *zap.Logger) *EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHandler{queue: queue, logger: logger}
}

// Handle 处理一条消息
// 无法解析的消息直接确认丢弃，重新入队只会反复失败
func (h *EventHandler) Handle(routingKey string, body []byte) error {
	var evt booking.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		metrics.MessageConsumed(h.queue, "malformed")
		h.logger.Warn("malformed booking event discarded",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return nil
	}

	fields := []zap.Field{
		zap.String("type", evt.Type),
		zap.Uint("booking_id", evt.BookingID),
		zap.String("booking_code", evt.BookingCode),
		zap.Uint("guest_id", evt.GuestID),
		zap.String("status", string(evt.Status)),
	}

	switch evt.Type {
	case booking.EventCreated:
		h.logger.Info("notify guest: booking received", append(fields, zap.Int64("total_price", evt.TotalPrice))...)
	case booking.EventStatusChanged:
		h.logger.Info("notify guest: booking status changed", append(fields, zap.String("from", string(evt.FromStatus)))...)
	case booking.EventCancelled:
		h.logger.Info("notify guest: booking cancelled", append(fields, zap.Int64("refund_amount", evt.RefundAmount))...)
	case booking.EventPaid:
		h.logger.Info("notify guest: payment recorded", append(fields, zap.Int64("paid_amount", evt.PaidAmount))...)
	default:
		metrics.MessageConsumed(h.queue, "ignored")
		h.logger.Debug("unknown booking event ignored", zap.String("routing_key", routingKey))
		return nil
	}

	metrics.MessageConsumed(h.queue, "success")
	return nil
}
