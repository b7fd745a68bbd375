package booking

import (
	"context"
	"time"
)

// Repository 预订仓储接口
type Repository interface {
	// Create 保存预订及明细并回填ID，预订号冲突返回ErrDuplicateCode
	Create(ctx context.Context, b *Booking) error

	// FindByID 不存在返回ErrBookingNotFound
	FindByID(ctx context.Context, id uint) (*Booking, error)

	FindByCode(ctx context.Context, code string) (*Booking, error)

	// Update 条件更新：仅当库中状态仍为expected且版本号等于b.Version时写入，
	// 否则返回ErrStatusChanged；成功后b.Version加1
	Update(ctx context.Context, b *Booking, expected Status) error

	// ListByGuest 按创建时间倒序分页
	ListByGuest(ctx context.Context, guestID uint, page, pageSize int) ([]*Booking, int64, error)

	// ListActiveByRoomInRange 与[from, to)有交集、包含该房型且未取消的预订
	ListActiveByRoomInRange(ctx context.Context, roomID uint, from, to time.Time) ([]*Booking, error)
}
