package booking

import (
	"context"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/hotel"
	"github.com/xiebiao/lodging/internal/domain/member"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

// 授权规则：
//   - 确认、入住、离店、未到店：酒店经营者或管理员
//   - 取消、查看：预订人、酒店经营者或管理员
//   - 记录付款：预订人或管理员

func isHotelStaff(ctx context.Context, hotels hotel.Repository, actor member.Actor, b *booking.Booking) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	h, err := hotels.FindByID(ctx, b.HotelID)
	if err != nil {
		return false, err
	}
	return h.IsOwnedBy(actor.MemberID), nil
}

func authorizeStaff(ctx context.Context, hotels hotel.Repository, actor member.Actor, b *booking.Booking) error {
	ok, err := isHotelStaff(ctx, hotels, actor, b)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}
	return nil
}

func authorizeGuestOrStaff(ctx context.Context, hotels hotel.Repository, actor member.Actor, b *booking.Booking) error {
	if b.IsGuest(actor.MemberID) {
		return nil
	}
	return authorizeStaff(ctx, hotels, actor, b)
}

func authorizeGuestOrAdmin(actor member.Actor, b *booking.Booking) error {
	if b.IsGuest(actor.MemberID) || actor.IsAdmin() {
		return nil
	}
	return apperrors.ErrForbidden
}
