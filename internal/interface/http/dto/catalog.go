package dto

import "time"

// CreateHotelRequest 创建酒店请求
type CreateHotelRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	City    string `json:"city" binding:"required,max=50"`
	Address string `json:"address" binding:"max=255"`
}

// PublishRoomRequest 发布房型请求，金额单位为分
type PublishRoomRequest struct {
	RoomType         string `json:"room_type" binding:"required,max=50"`
	BasePrice        int64  `json:"base_price" binding:"required,gt=0"`
	WeekendSurcharge int64  `json:"weekend_surcharge" binding:"gte=0"`
	TotalRooms       int    `json:"total_rooms" binding:"required,min=1,max=10000"`
}

// DealRequest 开启特价请求
type DealRequest struct {
	DiscountPercent int       `json:"discount_percent" binding:"required,min=1,max=90"`
	ValidUntil      time.Time `json:"valid_until" binding:"required"`
}
