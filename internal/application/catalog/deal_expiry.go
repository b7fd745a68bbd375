package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/room"
)

// DealExpiryTask 定时关闭已过期的特价标记
// 价格解析本身按ValidUntil判断，这里只负责把存储中的标记收敛
type DealExpiryTask struct {
	rooms    room.Repository
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewDealExpiryTask 创建任务
func NewDealExpiryTask(rooms room.Repository, interval time.Duration, logger *zap.Logger) *DealExpiryTask {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DealExpiryTask{rooms: rooms, interval: interval, now: time.Now, logger: logger}
}

// WithClock 替换时钟
func (t *DealExpiryTask) WithClock(now func() time.Time) *DealExpiryTask {
	t.now = now
	return t
}

// Run 按间隔执行Sweep，ctx取消后返回
func (t *DealExpiryTask) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := t.Sweep(ctx); err != nil {
				t.logger.Error("deal expiry sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep 关闭一轮过期特价，返回处理的房型数
// 列表只是候选，ExpireDeal按存储中的当前值重新判断，只改特价开关；
// 期间被房东下架或换了新特价的房型不受影响
// 单个房型更新失败只记日志，下一轮再处理
func (t *DealExpiryTask) Sweep(ctx context.Context) (int, error) {
	now := t.now()
	list, err := t.rooms.ListWithExpiredDeals(ctx, now)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, rm := range list {
		expired, err := t.rooms.ExpireDeal(ctx, rm.ID, now)
		if err != nil {
			t.logger.Warn("deactivate expired deal failed", zap.Uint("room_id", rm.ID), zap.Error(err))
			continue
		}
		if expired {
			n++
		}
	}
	if n > 0 {
		t.logger.Info("expired deals deactivated", zap.Int("count", n))
	}
	return n, nil
}
