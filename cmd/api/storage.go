package main

import (
	"fmt"

	"go.uber.org/zap"

	appbooking "github.com/xiebiao/lodging/internal/application/booking"
	appmember "github.com/xiebiao/lodging/internal/application/member"
	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/hotel"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/domain/pricing"
	"github.com/xiebiao/lodging/internal/domain/room"
	"github.com/xiebiao/lodging/internal/infrastructure/config"
	"github.com/xiebiao/lodging/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/lodging/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/lodging/internal/infrastructure/persistence/redis"
)

// storage 按database.driver选出的一组存储实现
type storage struct {
	members  member.Repository
	hotels   hotel.Repository
	rooms    room.Repository
	ledger   room.Ledger
	bookings booking.Repository
	locks    pricing.LockStore
	sessions appmember.SessionStore
	tx       appbooking.Transactor
	close    func()
}

// openStorage 打开存储
// mysql驱动：MySQL保存业务数据，Redis保存锁价和会话
// memory驱动：全部在进程内，重启即丢失，只用于本地开发
func openStorage(cfg *config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		rooms := memory.NewRoomRepository()
		return &storage{
			members:  memory.NewMemberRepository(),
			hotels:   memory.NewHotelRepository(),
			rooms:    rooms,
			ledger:   rooms,
			bookings: memory.NewBookingRepository(),
			locks:    memory.NewPriceLockStore(),
			sessions: memory.NewSessionStore(),
			tx:       memory.NewTxManager(logger),
			close:    func() {},
		}, nil

	case config.DriverMySQL:
		db, err := mysql.NewDB(cfg, logger)
		if err != nil {
			return nil, err
		}
		redisClient, err := redis.NewClient(cfg, logger)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
		return &storage{
			members:  mysql.NewMemberRepository(db),
			hotels:   mysql.NewHotelRepository(db),
			rooms:    mysql.NewRoomRepository(db),
			ledger:   mysql.NewRoomLedger(db),
			bookings: mysql.NewBookingRepository(db),
			locks:    redis.NewPriceLockStore(redisClient),
			sessions: redis.NewSessionStore(redisClient),
			tx:       mysql.NewTxManager(db),
			close: func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("close redis failed", zap.Error(err))
				}
				if sqlDB, err := db.DB(); err == nil {
					if err := sqlDB.Close(); err != nil {
						logger.Warn("close database failed", zap.Error(err))
					}
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("无效的数据库驱动: %s", cfg.Database.Driver)
}
