//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// main.go使用手动注入（buildApp）；本文件声明同一张依赖图，
// 运行 `wire gen ./cmd/api` 可生成wire_gen.go替换手动组装。

package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appbooking "github.com/xiebiao/lodging/internal/application/booking"
	appcalendar "github.com/xiebiao/lodging/internal/application/calendar"
	appcatalog "github.com/xiebiao/lodging/internal/application/catalog"
	appmember "github.com/xiebiao/lodging/internal/application/member"
	apppricing "github.com/xiebiao/lodging/internal/application/pricing"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/domain/pricing"
	"github.com/xiebiao/lodging/internal/infrastructure/config"
	"github.com/xiebiao/lodging/internal/interface/http/handler"
	"github.com/xiebiao/lodging/internal/interface/http/middleware"
	"github.com/xiebiao/lodging/internal/interface/http/router"
)

// storageSet 从storage拆出各个仓储
var storageSet = wire.NewSet(
	wire.FieldsOf(new(*storage), "members", "hotels", "rooms", "ledger", "bookings", "locks", "sessions", "tx"),
	wire.Bind(new(middleware.TokenBlacklist), new(appmember.SessionStore)),
)

// domainSet 领域层
var domainSet = wire.NewSet(
	provideMemberService,
	pricing.NewResolver,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	provideFeeSchedule,
	provideRetryPolicy,
	provideLockTTL,
	wire.Struct(new(appbooking.Deps), "*"),
	appmember.NewRegisterUseCase,
	appmember.NewLoginUseCase,
	appmember.NewLogoutUseCase,
	appmember.NewGetProfileUseCase,
	appmember.NewSetStatusUseCase,
	appcatalog.NewCreateHotelUseCase,
	appcatalog.NewListMyHotelsUseCase,
	appcatalog.NewRoomUseCase,
	apppricing.NewLockPriceUseCase,
	apppricing.NewCancelLockUseCase,
	apppricing.NewGetEffectivePriceUseCase,
	appcalendar.NewGetPriceCalendarUseCase,
	appbooking.NewCreateBookingUseCase,
	appbooking.NewTransitionBookingUseCase,
	appbooking.NewCancelBookingUseCase,
	appbooking.NewRecordPaymentUseCase,
	appbooking.NewGetBookingUseCase,
	appbooking.NewListMyBookingsUseCase,
)

// handlerSet 接口层
var handlerSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewMemberHandler,
	handler.NewCatalogHandler,
	handler.NewPricingHandler,
	handler.NewBookingHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideRouterOptions,
	router.New,
)

func provideMemberService(cfg *config.Config, repo member.Repository) member.Service {
	return member.NewService(repo, cfg.Booking.BcryptCost)
}

func provideLockTTL(cfg *config.Config) time.Duration {
	return cfg.Pricing.LockTTL
}

func provideRouterOptions(cfg *config.Config) router.Options {
	return router.Options{Mode: cfg.Server.Mode, Swagger: cfg.Server.Mode != "release"}
}

// InitializeEngine 组装HTTP引擎
// events为事件投递器，由main负责启动和关闭
func InitializeEngine(
	cfg *config.Config,
	store *storage,
	events appbooking.EventPublisher,
	logger *zap.Logger,
) *gin.Engine {
	wire.Build(storageSet, domainSet, applicationSet, handlerSet)
	return nil
}
