package room

import (
	"time"

	"github.com/xiebiao/lodging/internal/domain/money"
)

// Status 房型状态，房型不删除，只下架
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

const (
	minDealPercent = 1
	maxDealPercent = 90
)

// Deal 尾房特价
// 是否生效以Active且ValidUntil晚于当前时间为准，过期任务只是把标记清理掉
type Deal struct {
	Active          bool
	DiscountPercent int
	DealPrice       int64
	ValidUntil      time.Time
}

// IsLive 特价在now时刻是否生效
func (d *Deal) IsLive(now time.Time) bool {
	return d != nil && d.Active && d.ValidUntil.After(now)
}

// Room 房型实体（聚合根）
// 设计说明：
// 1. 价格用int64最小货币单位
// 2. AvailableRooms只能通过Ledger.Adjust修改，Repository.Update不写该字段
// 3. 0 <= AvailableRooms <= TotalRooms
type Room struct {
	ID               uint
	HotelID          uint
	RoomType         string
	BasePrice        int64 // 每晚基础价
	WeekendSurcharge int64 // 周五、周六晚加价
	TotalRooms       int
	AvailableRooms   int
	Status           Status
	Deal             *Deal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewRoom 创建房型，可售房量等于总房量
func NewRoom(hotelID uint, roomType string, basePrice, weekendSurcharge int64, totalRooms int) (*Room, error) {
	if roomType == "" {
		return nil, ErrInvalidRoom
	}
	if basePrice <= 0 || weekendSurcharge < 0 || totalRooms < 1 {
		return nil, ErrInvalidRoom
	}

	now := time.Now()
	return &Room{
		HotelID:          hotelID,
		RoomType:         roomType,
		BasePrice:        basePrice,
		WeekendSurcharge: weekendSurcharge,
		TotalRooms:       totalRooms,
		AvailableRooms:   totalRooms,
		Status:           StatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsSellable 是否可售
func (r *Room) IsSellable() bool {
	return r.Status == StatusActive
}

// Deactivate 下架
func (r *Room) Deactivate(now time.Time) {
	r.Status = StatusInactive
	r.UpdatedAt = now
}

// LiveDeal 返回now时刻生效的特价
func (r *Room) LiveDeal(now time.Time) (*Deal, bool) {
	if r.Deal.IsLive(now) {
		return r.Deal, true
	}
	return nil, false
}

// ActivateDeal 开启特价，特价价格 = round(基础价 × (100-折扣) / 100)
func (r *Room) ActivateDeal(discountPercent int, validUntil, now time.Time) error {
	if discountPercent < minDealPercent || discountPercent > maxDealPercent {
		return ErrInvalidDeal
	}
	if !validUntil.After(now) {
		return ErrInvalidDeal
	}

	r.Deal = &Deal{
		Active:          true,
		DiscountPercent: discountPercent,
		DealPrice:       money.Ratio(r.BasePrice, int64(100-discountPercent), 100),
		ValidUntil:      validUntil,
	}
	r.UpdatedAt = now
	return nil
}

// DeactivateDeal 关闭特价，保留最近一次特价参数
func (r *Room) DeactivateDeal(now time.Time) {
	if r.Deal != nil {
		r.Deal.Active = false
	}
	r.UpdatedAt = now
}

// HasExpiredDeal 特价标记仍开启但已过期
func (r *Room) HasExpiredDeal(now time.Time) bool {
	return r.Deal != nil && r.Deal.Active && !r.Deal.ValidUntil.After(now)
}

// CheckAdjust 校验可售房量调整后是否越界
func (r *Room) CheckAdjust(delta int) error {
	next := r.AvailableRooms + delta
	if next < 0 || next > r.TotalRooms {
		return ErrCapacity
	}
	return nil
}
