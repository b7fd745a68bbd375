package pricing

import (
	"context"
	"time"
)

// LockStore 锁价存储
// 实现必须保证同一(会员, 房型)上的Create互斥：并发创建时恰好一个成功
type LockStore interface {
	// Create 保存锁价；(UserID, RoomID)已有未过期锁价时返回ErrDuplicateLock，
	// 已过期的旧锁价被替换
	Create(ctx context.Context, lock *PriceLock, now time.Time) error

	// FindActive 返回未过期锁价，没有时返回ErrLockNotFound
	FindActive(ctx context.Context, userID, roomID uint, now time.Time) (*PriceLock, error)

	// FindByID 返回未过期锁价，不存在或已过期时返回ErrLockNotFound
	FindByID(ctx context.Context, id string, now time.Time) (*PriceLock, error)

	// Delete 删除锁价，锁价已不存在时不报错
	Delete(ctx context.Context, lock *PriceLock) error
}
