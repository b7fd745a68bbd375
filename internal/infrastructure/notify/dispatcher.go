// Package notify 预订事件的异步投递
//
// 用例在事务提交后调用Dispatcher.Publish，事件进入有界队列后立即返回；
// 后台协程经熔断器投递到消息队列。投递失败只记日志和指标，不影响预订本身。
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/pkg/circuitbreaker"
	"github.com/xiebiao/lodging/pkg/metrics"
)

// Sink 事件落地方，mq.Publisher和LogSink都实现了它
type Sink interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Config 投递配置
type Config struct {
	BufferSize     int           // 队列长度，满了直接丢弃
	PublishTimeout time.Duration // 单条投递超时
	Breaker        circuitbreaker.Config
}

// Dispatcher 异步事件投递器
type Dispatcher struct {
	sink    Sink
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
	timeout time.Duration

	queue     chan booking.Event
	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewDispatcher 创建投递器并启动后台协程
func NewDispatcher(sink Sink, cfg Config, logger *zap.Logger) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if cfg.Breaker.Timeout <= 0 {
		cfg.Breaker.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := circuitbreaker.NewCircuitBreaker("booking-events", cfg.Breaker)
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.Warn("circuit breaker state changed",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetBreakerState(name, int(to))
	})

	d := &Dispatcher{
		sink:    sink,
		breaker: breaker,
		logger:  logger,
		timeout: cfg.PublishTimeout,
		queue:   make(chan booking.Event, cfg.BufferSize),
	}

	d.wg.Add(1)
	go d.run()
	return d
}

// Publish 事件入队，不阻塞调用方
func (d *Dispatcher) Publish(ctx context.Context, evt booking.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(evt, "dispatcher closed")
		return
	}

	select {
	case d.queue <- evt:
	default:
		d.drop(evt, "queue full")
	}
}

func (d *Dispatcher) drop(evt booking.Event, reason string) {
	metrics.MessageDropped(evt.Type)
	d.logger.Warn("booking event dropped",
		zap.String("type", evt.Type),
		zap.Uint("booking_id", evt.BookingID),
		zap.String("reason", reason),
	)
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for evt := range d.queue {
		d.deliver(evt)
	}
}

func (d *Dispatcher) deliver(evt booking.Event) {
	err := d.breaker.Execute(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		return d.sink.Publish(ctx, evt.Type, evt)
	})

	switch {
	case err == nil:
		metrics.MessagePublished(evt.Type, "success")
		metrics.BreakerRequest(d.breaker.Name(), "success")
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.MessagePublished(evt.Type, "rejected")
		metrics.BreakerRequest(d.breaker.Name(), "rejected")
		d.logger.Warn("booking event rejected by circuit breaker",
			zap.String("type", evt.Type),
			zap.Uint("booking_id", evt.BookingID),
		)
	default:
		metrics.MessagePublished(evt.Type, "failure")
		metrics.BreakerRequest(d.breaker.Name(), "failure")
		d.logger.Warn("booking event delivery failed",
			zap.String("type", evt.Type),
			zap.Uint("booking_id", evt.BookingID),
			zap.Error(err),
		)
	}
}

// Close 停止接收新事件，投递完队列中剩余事件后返回
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BreakerState 当前熔断状态
func (d *Dispatcher) BreakerState() circuitbreaker.State {
	return d.breaker.State()
}
