package pricing

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLockTTL 锁价有效期
const DefaultLockTTL = 30 * time.Minute

// PriceLock 锁价
// 同一会员同一房型同时最多一个未过期锁价；过期不需要删除，读取方按ExpiresAt判断
type PriceLock struct {
	ID          string
	UserID      uint
	RoomID      uint
	LockedPrice int64
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// NewPriceLock 创建锁价，ID使用UUID
func NewPriceLock(userID, roomID uint, lockedPrice int64, ttl time.Duration, now time.Time) *PriceLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &PriceLock{
		ID:          uuid.NewString(),
		UserID:      userID,
		RoomID:      roomID,
		LockedPrice: lockedPrice,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}
}

// IsExpired ExpiresAt<=now视为已过期
func (l *PriceLock) IsExpired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// IsHeldBy 是否由指定会员持有
func (l *PriceLock) IsHeldBy(userID uint) bool {
	return l.UserID == userID
}
