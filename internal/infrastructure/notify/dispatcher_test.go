package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/pkg/circuitbreaker"
)

type recordingSink struct {
	mu    sync.Mutex
	keys  []string
	err   error
	block chan struct{}
}

func (s *recordingSink) Publish(ctx context.Context, routingKey string, message interface{}) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, routingKey)
	return s.err
}

func (s *recordingSink) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

func event(t string, id uint) booking.Event {
	return booking.Event{Type: t, BookingID: id}
}

func TestDispatcher_Deliver(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, Config{BufferSize: 8}, nil)

	d.Publish(context.Background(), event(booking.EventCreated, 1))
	d.Publish(context.Background(), event(booking.EventCancelled, 1))

	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, []string{booking.EventCreated, booking.EventCancelled}, sink.keys)

	t.Run("关闭后丢弃", func(t *testing.T) {
		d.Publish(context.Background(), event(booking.EventPaid, 1))
		assert.Equal(t, 2, sink.calls())
	})
}

func TestDispatcher_QueueFull(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sink := &recordingSink{block: make(chan struct{})}
	d := NewDispatcher(sink, Config{BufferSize: 1}, zap.New(core))

	d.Publish(context.Background(), event(booking.EventCreated, 1))
	// 等后台协程取走第一条并阻塞在sink上
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)

	d.Publish(context.Background(), event(booking.EventCreated, 2))
	d.Publish(context.Background(), event(booking.EventCreated, 3))

	assert.Equal(t, 1, logs.FilterMessage("booking event dropped").Len())

	close(sink.block)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 2, sink.calls())
}

func TestDispatcher_CircuitBreaker(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sink := &recordingSink{err: errors.New("broker down")}
	d := NewDispatcher(sink, Config{
		BufferSize: 16,
		Breaker: circuitbreaker.Config{
			Timeout: time.Hour,
			ReadyToTrip: func(c circuitbreaker.Counts) bool {
				return c.ConsecutiveFailures >= 3
			},
		},
	}, zap.New(core))

	for i := uint(1); i <= 6; i++ {
		d.Publish(context.Background(), event(booking.EventCreated, i))
	}
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, 3, sink.calls(), "熔断后不再调用sink")
	assert.Equal(t, circuitbreaker.StateOpen, d.BreakerState())
	assert.Equal(t, 3, logs.FilterMessage("booking event delivery failed").Len())
	assert.Equal(t, 3, logs.FilterMessage("booking event rejected by circuit breaker").Len())
	assert.Equal(t, 1, logs.FilterMessage("circuit breaker state changed").Len())
}
