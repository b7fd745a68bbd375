// Package memory 内存存储
//
// 用于本地开发（database.driver=memory）和用例测试。
// 内存存储没有数据库事务，TxManager用saga补偿日志实现工作单元：
// 事务内的每次写操作都登记一个撤销动作，fn返回错误时逆序撤销。
package memory

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/pkg/saga"
)

// TxManager 内存事务管理器
type TxManager struct {
	logger *zap.Logger
}

// NewTxManager 创建事务管理器
func NewTxManager(logger *zap.Logger) *TxManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TxManager{logger: logger}
}

// Transaction 执行事务
// 嵌套调用时复用外层的补偿日志，由最外层统一回滚
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if saga.FromContext(ctx) != nil {
		return fn(ctx)
	}

	s := saga.NewSaga(0).WithLogger(m.logger)
	txCtx := saga.WithSaga(ctx, s)

	if err := fn(txCtx); err != nil {
		if rbErr := s.Rollback(txCtx); rbErr != nil {
			m.logger.Error("memory transaction rollback incomplete", zap.Error(rbErr))
		}
		return err
	}
	return nil
}

// recordUndo 在事务内登记撤销动作，事务外调用时直接忽略
func recordUndo(ctx context.Context, name string, undo func()) {
	if s := saga.FromContext(ctx); s != nil {
		s.Record(name, func(context.Context) error {
			undo()
			return nil
		})
	}
}
