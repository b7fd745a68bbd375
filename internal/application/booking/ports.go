// Package booking 预订用例：创建、状态流转、取消、付款与查询
package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/hotel"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/domain/pricing"
	"github.com/xiebiao/lodging/internal/domain/room"
)

const tracerName = "lodging/booking"

// Transactor 工作单元
// mysql.TxManager用数据库事务实现，memory.TxManager用补偿日志实现
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 预订事件发布，必须在事务提交后调用且不能阻塞
type EventPublisher interface {
	Publish(ctx context.Context, evt booking.Event)
}

// Deps 预订用例共用的依赖
type Deps struct {
	Bookings booking.Repository
	Rooms    room.Repository
	Ledger   room.Ledger
	Hotels   hotel.Repository
	Members  member.Repository
	Resolver *pricing.Resolver
	Locks    pricing.LockStore
	Tx       Transactor
	Events   EventPublisher
	Logger   *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
