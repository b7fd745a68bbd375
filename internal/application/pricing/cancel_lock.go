package pricing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/pricing"
	"github.com/xiebiao/lodging/pkg/metrics"
)

// CancelLockUseCase 取消锁价，只有持有人可以取消
type CancelLockUseCase struct {
	locks  pricing.LockStore
	now    func() time.Time
	logger *zap.Logger
}

// NewCancelLockUseCase 创建用例
func NewCancelLockUseCase(locks pricing.LockStore, logger *zap.Logger) *CancelLockUseCase {
	return &CancelLockUseCase{locks: locks, now: time.Now, logger: logger}
}

// WithClock 替换时钟
func (uc *CancelLockUseCase) WithClock(now func() time.Time) *CancelLockUseCase {
	uc.now = now
	return uc
}

// Execute 取消锁价
func (uc *CancelLockUseCase) Execute(ctx context.Context, memberID uint, lockID string) error {
	lock, err := uc.locks.FindByID(ctx, lockID, uc.now())
	if err != nil {
		return err
	}
	if !lock.IsHeldBy(memberID) {
		return pricing.ErrNotLockOwner
	}
	if err := uc.locks.Delete(ctx, lock); err != nil {
		return err
	}

	metrics.PriceLock("cancelled")
	uc.logger.Info("price lock cancelled", zap.String("lock_id", lock.ID), zap.Uint("member_id", memberID))
	return nil
}
