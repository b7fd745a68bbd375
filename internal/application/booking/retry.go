package booking

import (
	"context"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/xiebiao/lodging/internal/domain/booking"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
	"github.com/xiebiao/lodging/pkg/metrics"
)

// RetryPolicy 存储层瞬时冲突的重试策略
type RetryPolicy struct {
	MaxRetries uint64
	Interval   time.Duration
}

// DefaultRetryPolicy 默认重试3次，间隔20ms
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Interval: 20 * time.Millisecond}
}

// isConflict 可重试的并发冲突：房量更新冲突或预订状态已变化
func isConflict(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrCodeConcurrentUpdate)
}

// run 执行op，只对并发冲突重试，其他错误立即返回
// 重试耗尽时返回最后一次的冲突错误
func (p RetryPolicy) run(ctx context.Context, op func() error) error {
	attempt := 0
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), p.MaxRetries),
		ctx,
	)

	err := backoff.Retry(func() error {
		if attempt > 0 {
			metrics.LedgerConflict("retried")
		}
		attempt++

		err := op()
		if err == nil || isConflict(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b)

	if isConflict(err) {
		metrics.LedgerConflict("exhausted")
	}
	return err
}

// linesInLockOrder 按房型ID升序返回明细副本
// 多房型预订按同一顺序加行锁，两个预订不会互相等待对方持有的行
func linesInLockOrder(lines []booking.Line) []booking.Line {
	ordered := make([]booking.Line, len(lines))
	copy(ordered, lines)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].RoomID < ordered[j].RoomID })
	return ordered
}
