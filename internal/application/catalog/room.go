package catalog

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/hotel"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/domain/room"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

// RoomUseCase 房型管理用例
// 发布、下架、特价开关都要求当前会员是酒店经营者或管理员
type RoomUseCase struct {
	hotels hotel.Repository
	rooms  room.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewRoomUseCase 创建房型管理用例
func NewRoomUseCase(hotels hotel.Repository, rooms room.Repository, logger *zap.Logger) *RoomUseCase {
	return &RoomUseCase{hotels: hotels, rooms: rooms, now: time.Now, logger: logger}
}

// WithClock 替换时钟
func (uc *RoomUseCase) WithClock(now func() time.Time) *RoomUseCase {
	uc.now = now
	return uc
}

// PublishRoomRequest 发布房型请求
type PublishRoomRequest struct {
	Actor            member.Actor
	HotelID          uint
	RoomType         string
	BasePrice        int64
	WeekendSurcharge int64
	TotalRooms       int
}

// DealRequest 开启特价请求
type DealRequest struct {
	Actor           member.Actor
	RoomID          uint
	DiscountPercent int
	ValidUntil      time.Time
}

// RoomResponse 房型信息
type RoomResponse struct {
	ID               uint          `json:"id"`
	HotelID          uint          `json:"hotel_id"`
	RoomType         string        `json:"room_type"`
	BasePrice        int64         `json:"base_price"`
	WeekendSurcharge int64         `json:"weekend_surcharge"`
	TotalRooms       int           `json:"total_rooms"`
	AvailableRooms   int           `json:"available_rooms"`
	Status           string        `json:"status"`
	Deal             *DealResponse `json:"deal,omitempty"`
}

// DealResponse 特价信息
type DealResponse struct {
	Active          bool      `json:"active"`
	DiscountPercent int       `json:"discount_percent"`
	DealPrice       int64     `json:"deal_price"`
	ValidUntil      time.Time `json:"valid_until"`
}

// Publish 发布房型，可售房量等于总房量
func (uc *RoomUseCase) Publish(ctx context.Context, req PublishRoomRequest) (*RoomResponse, error) {
	h, err := uc.hotels.FindByID(ctx, req.HotelID)
	if err != nil {
		return nil, err
	}
	if !canManage(req.Actor, h) {
		return nil, apperrors.ErrForbidden
	}

	rm, err := room.NewRoom(h.ID, strings.TrimSpace(req.RoomType), req.BasePrice, req.WeekendSurcharge, req.TotalRooms)
	if err != nil {
		return nil, err
	}
	if err := uc.rooms.Create(ctx, rm); err != nil {
		return nil, err
	}

	uc.logger.Info("room published",
		zap.Uint("room_id", rm.ID),
		zap.Uint("hotel_id", rm.HotelID),
		zap.Int("total_rooms", rm.TotalRooms),
	)
	return toRoomResponse(rm), nil
}

// Deactivate 下架房型，已有预订不受影响
func (uc *RoomUseCase) Deactivate(ctx context.Context, actor member.Actor, roomID uint) (*RoomResponse, error) {
	rm, err := uc.managedRoom(ctx, actor, roomID)
	if err != nil {
		return nil, err
	}

	rm.Deactivate(uc.now())
	if err := uc.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}
	uc.logger.Info("room deactivated", zap.Uint("room_id", rm.ID))
	return toRoomResponse(rm), nil
}

// ActivateDeal 开启尾房特价
func (uc *RoomUseCase) ActivateDeal(ctx context.Context, req DealRequest) (*RoomResponse, error) {
	rm, err := uc.managedRoom(ctx, req.Actor, req.RoomID)
	if err != nil {
		return nil, err
	}

	if err := rm.ActivateDeal(req.DiscountPercent, req.ValidUntil, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}
	uc.logger.Info("deal activated",
		zap.Uint("room_id", rm.ID),
		zap.Int("discount_percent", rm.Deal.DiscountPercent),
		zap.Int64("deal_price", rm.Deal.DealPrice),
		zap.Time("valid_until", rm.Deal.ValidUntil),
	)
	return toRoomResponse(rm), nil
}

// DeactivateDeal 关闭特价
func (uc *RoomUseCase) DeactivateDeal(ctx context.Context, actor member.Actor, roomID uint) (*RoomResponse, error) {
	rm, err := uc.managedRoom(ctx, actor, roomID)
	if err != nil {
		return nil, err
	}

	rm.DeactivateDeal(uc.now())
	if err := uc.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}
	return toRoomResponse(rm), nil
}

// Get 查询房型
func (uc *RoomUseCase) Get(ctx context.Context, roomID uint) (*RoomResponse, error) {
	rm, err := uc.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return toRoomResponse(rm), nil
}

// ListByHotel 酒店下的全部房型
func (uc *RoomUseCase) ListByHotel(ctx context.Context, hotelID uint) ([]*RoomResponse, error) {
	if _, err := uc.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, err
	}
	list, err := uc.rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	resp := make([]*RoomResponse, len(list))
	for i, rm := range list {
		resp[i] = toRoomResponse(rm)
	}
	return resp, nil
}

func (uc *RoomUseCase) managedRoom(ctx context.Context, actor member.Actor, roomID uint) (*room.Room, error) {
	rm, err := uc.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	h, err := uc.hotels.FindByID(ctx, rm.HotelID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, h) {
		return nil, apperrors.ErrForbidden
	}
	return rm, nil
}

func toRoomResponse(rm *room.Room) *RoomResponse {
	resp := &RoomResponse{
		ID:               rm.ID,
		HotelID:          rm.HotelID,
		RoomType:         rm.RoomType,
		BasePrice:        rm.BasePrice,
		WeekendSurcharge: rm.WeekendSurcharge,
		TotalRooms:       rm.TotalRooms,
		AvailableRooms:   rm.AvailableRooms,
		Status:           string(rm.Status),
	}
	if rm.Deal != nil {
		resp.Deal = &DealResponse{
			Active:          rm.Deal.Active,
			DiscountPercent: rm.Deal.DiscountPercent,
			DealPrice:       rm.Deal.DealPrice,
			ValidUntil:      rm.Deal.ValidUntil,
		}
	}
	return resp
}
