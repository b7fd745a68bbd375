package booking

import (
	"context"

	"github.com/xiebiao/lodging/internal/domain/member"
)

// GetBookingUseCase 查询预订详情，预订人、酒店经营者、管理员可见
type GetBookingUseCase struct {
	deps Deps
}

// NewGetBookingUseCase 创建用例
func NewGetBookingUseCase(deps Deps) *GetBookingUseCase {
	return &GetBookingUseCase{deps: deps}
}

// Execute 按ID查询
func (uc *GetBookingUseCase) Execute(ctx context.Context, actor member.Actor, bookingID uint) (*BookingResponse, error) {
	b, err := uc.deps.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeGuestOrStaff(ctx, uc.deps.Hotels, actor, b); err != nil {
		return nil, err
	}
	return ToResponse(b), nil
}

// ListMyBookingsUseCase 我的预订
type ListMyBookingsUseCase struct {
	deps Deps
}

// NewListMyBookingsUseCase 创建用例
func NewListMyBookingsUseCase(deps Deps) *ListMyBookingsUseCase {
	return &ListMyBookingsUseCase{deps: deps}
}

// ListResult 分页结果
type ListResult struct {
	List     []*BookingResponse
	Total    int64
	Page     int
	PageSize int
}

// Execute 分页查询，page从1开始，pageSize上限100
func (uc *ListMyBookingsUseCase) Execute(ctx context.Context, guestID uint, page, pageSize int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	list, total, err := uc.deps.Bookings.ListByGuest(ctx, guestID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]*BookingResponse, len(list))
	for i, b := range list {
		resp[i] = ToResponse(b)
	}
	return &ListResult{List: resp, Total: total, Page: page, PageSize: pageSize}, nil
}
