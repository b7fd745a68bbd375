// Package saga 提供带补偿的多步骤执行器
//
// 两种用法：
// 1. AddStep + Execute：按顺序执行步骤，某步失败时逆序补偿已完成的步骤
// 2. Record + Rollback：调用方自己执行操作，只登记补偿，出错时统一回滚
//
// 第二种用法配合WithSaga/FromContext在一次调用链上共享同一个补偿日志，
// 没有数据库事务的存储（如内存存储）靠它实现工作单元的原子性。
package saga

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/pkg/metrics"
)

// Step Saga中的一个步骤
// Action和Compensate都必须可重入
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 一次补偿事务
type Saga struct {
	mu       sync.Mutex
	steps    []Step
	executed []Step
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSaga 创建Saga，timeout<=0表示不限时
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
		logger:  zap.NewNop(),
	}
}

// WithLogger 设置补偿失败时使用的日志
func (s *Saga) WithLogger(logger *zap.Logger) *Saga {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// AddStep 添加步骤，按添加顺序执行、逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行全部步骤
// 任一步骤失败或超时都会触发补偿，返回的错误保留原始错误链
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.Rollback(ctx)
			return fmt.Errorf("saga超时: %w", err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.Rollback(ctx)
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.Record(step.Name, step.Compensate)
	}

	return nil
}

// Record 登记一个已经完成的操作的补偿
func (s *Saga) Record(name string, compensate func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executed = append(s.executed, Step{Name: name, Compensate: compensate})
}

// Rollback 逆序执行已登记的补偿
// 补偿不受调用方取消影响（保留ctx中的值，去掉截止时间）；
// 某个补偿失败时继续执行其余补偿，汇总返回
func (s *Saga) Rollback(ctx context.Context) error {
	s.mu.Lock()
	executed := s.executed
	s.executed = nil
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(executed) - 1; i >= 0; i-- {
		step := executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			metrics.SagaCompensation("failure")
			s.logger.Error("saga compensation failed",
				zap.String("step", step.Name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("补偿[%s]失败: %w", step.Name, err))
			continue
		}
		metrics.SagaCompensation("success")
	}

	return errors.Join(errs...)
}

// Len 已登记的补偿数量
func (s *Saga) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.executed)
}

type ctxKey struct{}

// WithSaga 把Saga放进context，供下游存储登记补偿
func WithSaga(ctx context.Context, s *Saga) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext 取出context中的Saga，没有时返回nil
func FromContext(ctx context.Context) *Saga {
	s, _ := ctx.Value(ctxKey{}).(*Saga)
	return s
}
