package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbooking "github.com/xiebiao/lodging/internal/application/booking"
	appcalendar "github.com/xiebiao/lodging/internal/application/calendar"
	appcatalog "github.com/xiebiao/lodging/internal/application/catalog"
	appmember "github.com/xiebiao/lodging/internal/application/member"
	apppricing "github.com/xiebiao/lodging/internal/application/pricing"
	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/domain/pricing"
	"github.com/xiebiao/lodging/internal/infrastructure/config"
	"github.com/xiebiao/lodging/internal/interface/http/handler"
	"github.com/xiebiao/lodging/internal/interface/http/middleware"
	"github.com/xiebiao/lodging/internal/interface/http/router"
	"github.com/xiebiao/lodging/pkg/jwt"
)

// app 组装完成的服务
type app struct {
	engine     *gin.Engine
	dealExpiry *appcatalog.DealExpiryTask
}

// buildApp 手动依赖注入
// 依赖链：Repository ← Service ← UseCase ← Handler
func buildApp(cfg *config.Config, store *storage, events appbooking.EventPublisher, logger *zap.Logger) *app {
	jwtManager := provideJWTManager(cfg)

	// 领域层
	memberService := member.NewService(store.members, cfg.Booking.BcryptCost)
	resolver := pricing.NewResolver(store.rooms, store.locks)

	// 应用层
	deps := appbooking.Deps{
		Bookings: store.bookings,
		Rooms:    store.rooms,
		Ledger:   store.ledger,
		Hotels:   store.hotels,
		Members:  store.members,
		Resolver: resolver,
		Locks:    store.locks,
		Tx:       store.tx,
		Events:   events,
		Logger:   logger,
	}
	retry := provideRetryPolicy(cfg)

	memberHandler := handler.NewMemberHandler(
		appmember.NewRegisterUseCase(memberService, logger),
		appmember.NewLoginUseCase(memberService, jwtManager, store.sessions, logger),
		appmember.NewLogoutUseCase(store.sessions, jwtManager),
		appmember.NewGetProfileUseCase(store.members),
		appmember.NewSetStatusUseCase(store.members, logger),
	)
	catalogHandler := handler.NewCatalogHandler(
		appcatalog.NewCreateHotelUseCase(store.hotels, logger),
		appcatalog.NewListMyHotelsUseCase(store.hotels),
		appcatalog.NewRoomUseCase(store.hotels, store.rooms, logger),
	)
	pricingHandler := handler.NewPricingHandler(
		apppricing.NewLockPriceUseCase(store.rooms, store.members, store.locks, cfg.Pricing.LockTTL, logger),
		apppricing.NewCancelLockUseCase(store.locks, logger),
		apppricing.NewGetEffectivePriceUseCase(resolver),
		appcalendar.NewGetPriceCalendarUseCase(store.rooms, store.bookings),
	)
	cancelBooking := appbooking.NewCancelBookingUseCase(deps, retry)
	bookingHandler := handler.NewBookingHandler(
		appbooking.NewCreateBookingUseCase(deps, provideFeeSchedule(cfg), retry),
		appbooking.NewTransitionBookingUseCase(deps, cancelBooking),
		cancelBooking,
		appbooking.NewRecordPaymentUseCase(deps, retry),
		appbooking.NewGetBookingUseCase(deps),
		appbooking.NewListMyBookingsUseCase(deps),
	)

	// 接口层
	engine := router.New(
		router.Options{Mode: cfg.Server.Mode, Swagger: cfg.Server.Mode != gin.ReleaseMode},
		router.Handlers{
			Member:  memberHandler,
			Catalog: catalogHandler,
			Pricing: pricingHandler,
			Booking: bookingHandler,
		},
		middleware.NewAuthMiddleware(jwtManager, store.sessions),
		logger,
	)

	return &app{
		engine:     engine,
		dealExpiry: appcatalog.NewDealExpiryTask(store.rooms, cfg.Pricing.DealExpiryInterval, logger),
	}
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideFeeSchedule 从配置创建费用规则
func provideFeeSchedule(cfg *config.Config) booking.FeeSchedule {
	return booking.FeeSchedule{
		TaxPercent:        cfg.Booking.TaxPercent,
		ServiceFeePercent: cfg.Booking.ServiceFeePercent,
		EarlyCheckInFee:   cfg.Booking.EarlyCheckInFee,
		LateCheckOutFee:   cfg.Booking.LateCheckOutFee,
	}
}

// provideRetryPolicy 存储冲突重试策略
func provideRetryPolicy(cfg *config.Config) appbooking.RetryPolicy {
	if cfg.Booking.MaxRetries == 0 && cfg.Booking.RetryInterval == 0 {
		return appbooking.DefaultRetryPolicy()
	}
	return appbooking.RetryPolicy{
		MaxRetries: cfg.Booking.MaxRetries,
		Interval:   cfg.Booking.RetryInterval,
	}
}
