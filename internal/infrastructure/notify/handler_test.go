package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/lodging/internal/domain/booking"
)

func TestEventHandler_Handle(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := NewEventHandler("lodging.notifications", zap.New(core))

	t.Run("取消事件带退款金额", func(t *testing.T) {
		body, err := json.Marshal(booking.Event{
			Type:         booking.EventCancelled,
			BookingID:    7,
			BookingCode:  "BK20260101ABC",
			Status:       booking.StatusCancelled,
			RefundAmount: 385000,
		})
		require.NoError(t, err)

		require.NoError(t, h.Handle(booking.EventCancelled, body))

		entries := logs.FilterMessage("notify guest: booking cancelled").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(385000), entries[0].ContextMap()["refund_amount"])
		assert.Equal(t, "BK20260101ABC", entries[0].ContextMap()["booking_code"])
	})

	t.Run("无法解析的消息被确认丢弃", func(t *testing.T) {
		assert.NoError(t, h.Handle(booking.EventCreated, []byte("{not json")))
		assert.Equal(t, 1, logs.FilterMessage("malformed booking event discarded").Len())
	})

	t.Run("未知事件类型忽略", func(t *testing.T) {
		assert.NoError(t, h.Handle("booking.unknown", []byte(`{"type":"booking.unknown"}`)))
		assert.Equal(t, 1, logs.FilterMessage("unknown booking event ignored").Len())
	})
}
