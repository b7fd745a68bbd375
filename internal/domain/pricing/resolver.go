package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/lodging/internal/domain/room"
)

// Source 有效价格来源
type Source string

const (
	SourceLock Source = "LOCK"
	SourceDeal Source = "DEAL"
	SourceBase Source = "BASE"
)

// EffectivePrice 某会员对某房型的有效价格
type EffectivePrice struct {
	RoomID uint
	Price  int64
	Source Source
	LockID string // Source为LOCK时有值
}

// Resolver 有效价格解析
// 优先级：会员的未过期锁价 > 生效中的特价 > 基础价
// 只读，不修改任何状态
type Resolver struct {
	rooms room.Repository
	locks LockStore
	now   func() time.Time
}

// NewResolver 创建价格解析器
func NewResolver(rooms room.Repository, locks LockStore) *Resolver {
	return &Resolver{rooms: rooms, locks: locks, now: time.Now}
}

// WithClock 替换时钟
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// ResolveEffectivePrice 加载房型并解析有效价格
func (r *Resolver) ResolveEffectivePrice(ctx context.Context, userID, roomID uint) (*EffectivePrice, error) {
	rm, err := r.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, userID, rm)
}

// Resolve 对已加载的房型解析有效价格
func (r *Resolver) Resolve(ctx context.Context, userID uint, rm *room.Room) (*EffectivePrice, error) {
	now := r.now()

	lock, err := r.locks.FindActive(ctx, userID, rm.ID, now)
	switch {
	case err == nil:
		return &EffectivePrice{RoomID: rm.ID, Price: lock.LockedPrice, Source: SourceLock, LockID: lock.ID}, nil
	case !errors.Is(err, ErrLockNotFound):
		return nil, err
	}

	if deal, ok := rm.LiveDeal(now); ok {
		return &EffectivePrice{RoomID: rm.ID, Price: deal.DealPrice, Source: SourceDeal}, nil
	}

	return &EffectivePrice{RoomID: rm.ID, Price: rm.BasePrice, Source: SourceBase}, nil
}
