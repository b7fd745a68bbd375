package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/hotel"
	"github.com/xiebiao/lodging/internal/domain/member"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

// CreateHotelUseCase 创建酒店，只有HOST和ADMIN可以创建
type CreateHotelUseCase struct {
	hotels hotel.Repository
	logger *zap.Logger
}

// NewCreateHotelUseCase 创建用例
func NewCreateHotelUseCase(hotels hotel.Repository, logger *zap.Logger) *CreateHotelUseCase {
	return &CreateHotelUseCase{hotels: hotels, logger: logger}
}

// CreateHotelRequest 创建酒店请求
type CreateHotelRequest struct {
	Actor   member.Actor
	Name    string
	City    string
	Address string
}

// HotelResponse 酒店信息
type HotelResponse struct {
	ID      uint   `json:"id"`
	OwnerID uint   `json:"owner_id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

// Execute 创建酒店，经营者为当前会员
func (uc *CreateHotelUseCase) Execute(ctx context.Context, req CreateHotelRequest) (*HotelResponse, error) {
	if req.Actor.Role != member.RoleHost && !req.Actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	city := strings.TrimSpace(req.City)
	if name == "" || city == "" {
		return nil, hotel.ErrInvalidHotel
	}

	h := hotel.NewHotel(req.Actor.MemberID, name, city, strings.TrimSpace(req.Address))
	if err := uc.hotels.Create(ctx, h); err != nil {
		return nil, err
	}

	uc.logger.Info("hotel created", zap.Uint("hotel_id", h.ID), zap.Uint("owner_id", h.OwnerID))
	return toHotelResponse(h), nil
}

// ListMyHotelsUseCase 当前会员经营的酒店
type ListMyHotelsUseCase struct {
	hotels hotel.Repository
}

// NewListMyHotelsUseCase 创建用例
func NewListMyHotelsUseCase(hotels hotel.Repository) *ListMyHotelsUseCase {
	return &ListMyHotelsUseCase{hotels: hotels}
}

// Execute 按ID升序返回
func (uc *ListMyHotelsUseCase) Execute(ctx context.Context, ownerID uint) ([]*HotelResponse, error) {
	list, err := uc.hotels.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	resp := make([]*HotelResponse, len(list))
	for i, h := range list {
		resp[i] = toHotelResponse(h)
	}
	return resp, nil
}

func toHotelResponse(h *hotel.Hotel) *HotelResponse {
	return &HotelResponse{
		ID:      h.ID,
		OwnerID: h.OwnerID,
		Name:    h.Name,
		City:    h.City,
		Address: h.Address,
		Status:  string(h.Status),
	}
}

// canManage 酒店经营者或管理员
func canManage(actor member.Actor, h *hotel.Hotel) bool {
	return actor.IsAdmin() || h.IsOwnedBy(actor.MemberID)
}
