// Package metrics Prometheus指标
//
// 指标在InitMetrics中注册到默认Registry，/metrics端点通过promhttp暴露。
// 业务代码调用本包的记录函数，记录函数会确保指标已初始化，
// 因此单元测试中不需要先调用InitMetrics。
//
// 命名约定：<领域>_<含义>_<单位>，Counter以_total结尾
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// ========== HTTP ==========

	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// ========== 预订 ==========

	// BookingsCreatedTotal 成功创建的预订数
	BookingsCreatedTotal prometheus.Counter
	// BookingsFailedTotal 创建失败的预订数，reason为错误码
	BookingsFailedTotal *prometheus.CounterVec
	// BookingCreationDuration 创建预订耗时（含重试）
	BookingCreationDuration prometheus.Histogram
	// BookingTransitionsTotal 状态流转次数
	BookingTransitionsTotal *prometheus.CounterVec
	// RefundAmountTotal 退款金额累计（最小货币单位）
	RefundAmountTotal prometheus.Counter

	// ========== 库存与锁价 ==========

	// LedgerConflictsTotal 库存并发冲突次数，outcome=retried|exhausted
	LedgerConflictsTotal *prometheus.CounterVec
	// PriceLocksTotal 锁价操作次数，result=created|duplicate|stale|cancelled
	PriceLocksTotal *prometheus.CounterVec

	// ========== 熔断器 ==========

	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec

	// SagaCompensationsTotal 补偿执行次数，result=success|failure
	SagaCompensationsTotal *prometheus.CounterVec

	// ========== 消息 ==========

	MessagesPublishedTotal *prometheus.CounterVec
	MessagesDroppedTotal   *prometheus.CounterVec
	MessagesConsumedTotal  *prometheus.CounterVec
)

// InitMetrics 注册全部指标，可重复调用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	BookingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "预订创建成功总数",
		},
	)

	BookingsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_failed_total",
			Help: "预订创建失败总数",
		},
		[]string{"reason"},
	)

	BookingCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_creation_duration_seconds",
			Help:    "预订创建耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "预订状态流转总数",
		},
		[]string{"from", "to"},
	)

	RefundAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_refund_amount_total",
			Help: "退款金额累计（最小货币单位）",
		},
	)

	LedgerConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_ledger_conflicts_total",
			Help: "房量并发更新冲突次数",
		},
		[]string{"outcome"},
	)

	PriceLocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_locks_total",
			Help: "锁价操作总数",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // success/failure/rejected
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)

	MessagesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_dropped_total",
			Help: "投递队列已满或熔断被丢弃的消息数",
		},
		[]string{"routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	SagaCompensationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "补偿执行总数",
		},
		[]string{"result"},
	)
}

// =========================================
// 记录函数
// =========================================

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// TrackInProgress 正在处理的请求数+1，返回的函数用于-1
func TrackInProgress() func() {
	InitMetrics()
	HTTPRequestsInProgress.Inc()
	return HTTPRequestsInProgress.Dec
}

// BookingCreated 记录预订创建成功
func BookingCreated(elapsed time.Duration) {
	InitMetrics()
	BookingsCreatedTotal.Inc()
	BookingCreationDuration.Observe(elapsed.Seconds())
}

// BookingFailed 记录预订创建失败
func BookingFailed(reason string) {
	InitMetrics()
	BookingsFailedTotal.WithLabelValues(reason).Inc()
}

// BookingTransition 记录状态流转
func BookingTransition(from, to string) {
	InitMetrics()
	BookingTransitionsTotal.WithLabelValues(from, to).Inc()
}

// Refund 记录退款金额
func Refund(amount int64) {
	InitMetrics()
	if amount > 0 {
		RefundAmountTotal.Add(float64(amount))
	}
}

// LedgerConflict 记录库存冲突
func LedgerConflict(outcome string) {
	InitMetrics()
	LedgerConflictsTotal.WithLabelValues(outcome).Inc()
}

// PriceLock 记录锁价结果
func PriceLock(result string) {
	InitMetrics()
	PriceLocksTotal.WithLabelValues(result).Inc()
}

// SetBreakerState 记录熔断器状态
func SetBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// BreakerRequest 记录熔断器请求结果
func BreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// MessagePublished 记录消息发布结果
func MessagePublished(routingKey, result string) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}

// MessageDropped 记录被丢弃的消息
func MessageDropped(routingKey string) {
	InitMetrics()
	MessagesDroppedTotal.WithLabelValues(routingKey).Inc()
}

// MessageConsumed 记录消息消费结果
func MessageConsumed(queue, result string) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, result).Inc()
}

// SagaCompensation 记录一次补偿结果
func SagaCompensation(result string) {
	InitMetrics()
	SagaCompensationsTotal.WithLabelValues(result).Inc()
}
