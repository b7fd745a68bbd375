// Package router 组装gin引擎：公共中间件、运维端点和业务路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/interface/http/handler"
	"github.com/xiebiao/lodging/internal/interface/http/middleware"
)

// Handlers 业务处理器集合
type Handlers struct {
	Member  *handler.MemberHandler
	Catalog *handler.CatalogHandler
	Pricing *handler.PricingHandler
	Booking *handler.BookingHandler
}

// Options 引擎选项
type Options struct {
	Mode    string // debug | release | test
	Swagger bool   // 是否挂载/swagger
}

// New 创建gin引擎并注册全部路由
func New(opts Options, h Handlers, auth *middleware.AuthMiddleware, logger *zap.Logger) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, h, auth)
	return r
}

func registerRoutes(r *gin.Engine, h Handlers, auth *middleware.AuthMiddleware) {
	v1 := r.Group("/api/v1")

	// 公开接口
	public := v1.Group("")
	{
		public.POST("/members/register", h.Member.Register)
		public.POST("/members/login", h.Member.Login)
		public.GET("/hotels/:id/rooms", h.Catalog.ListRooms)
		public.GET("/rooms/:id", h.Catalog.GetRoom)
		public.GET("/rooms/:id/calendar", h.Pricing.Calendar)
	}

	// 需要登录
	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())
	{
		authorized.POST("/members/logout", h.Member.Logout)
		authorized.GET("/members/me", h.Member.Profile)
		authorized.GET("/members/me/hotels", h.Catalog.ListMyHotels)
		authorized.GET("/members/me/bookings", h.Booking.ListMine)

		authorized.POST("/hotels", h.Catalog.CreateHotel)
		authorized.POST("/hotels/:id/rooms", h.Catalog.PublishRoom)
		authorized.POST("/rooms/:id/deactivate", h.Catalog.DeactivateRoom)
		authorized.PUT("/rooms/:id/deal", h.Catalog.ActivateDeal)
		authorized.DELETE("/rooms/:id/deal", h.Catalog.DeactivateDeal)
		authorized.GET("/rooms/:id/price", h.Pricing.EffectivePrice)

		authorized.POST("/price-locks", h.Pricing.LockPrice)
		authorized.DELETE("/price-locks/:id", h.Pricing.CancelLock)

		authorized.POST("/bookings", h.Booking.Create)
		authorized.GET("/bookings/:id", h.Booking.Get)
		authorized.PUT("/bookings/:id/status", h.Booking.Transition)
		authorized.POST("/bookings/:id/cancel", h.Booking.Cancel)
		authorized.POST("/bookings/:id/payments", h.Booking.RecordPayment)

		authorized.PUT("/admin/members/:id/status", h.Member.SetStatus)
	}
}
