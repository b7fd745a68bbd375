package room

import (
	"context"
	"time"
)

// Repository 房型仓储接口
type Repository interface {
	// Create 创建房型并回填ID
	Create(ctx context.Context, r *Room) error

	// FindByID 不存在返回ErrRoomNotFound
	FindByID(ctx context.Context, id uint) (*Room, error)

	// Update 更新价格、状态、特价，不修改可售房量
	Update(ctx context.Context, r *Room) error

	ListByHotel(ctx context.Context, hotelID uint) ([]*Room, error)

	// ListWithExpiredDeals 特价标记开启但ValidUntil<=now的房型
	ListWithExpiredDeals(ctx context.Context, now time.Time) ([]*Room, error)

	// ExpireDeal 只关闭"仍开启且已过期"的特价，只写特价开关
	// 特价已被关闭、换成了未过期的新特价或房型不存在时返回false
	ExpireDeal(ctx context.Context, id uint, now time.Time) (bool, error)
}

// Ledger 可售房量账本
// Adjust是单个房型上的原子"检查并修改"：
//   - 调整后越界返回ErrCapacity，房量不变
//   - 房型不存在返回ErrRoomNotFound
//   - 存储层瞬时冲突返回ErrConcurrentUpdate，调用方可重试
//
// ctx中带有事务时，调整随事务提交或回滚
type Ledger interface {
	Adjust(ctx context.Context, roomID uint, delta int, reason string) error
}
