package booking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/domain/room"
	"github.com/xiebiao/lodging/pkg/metrics"
	"github.com/xiebiao/lodging/pkg/tracing"
)

// CancelBookingUseCase 取消预订
//
// 状态写入与房量归还在同一事务内：状态落库后房量一定归还。
// 并发冲突时重新加载预订再试，已被其他请求取消的预订返回ErrIllegalTransition。
type CancelBookingUseCase struct {
	deps  Deps
	retry RetryPolicy
	now   func() time.Time
}

// NewCancelBookingUseCase 创建用例
func NewCancelBookingUseCase(deps Deps, retry RetryPolicy) *CancelBookingUseCase {
	return &CancelBookingUseCase{deps: deps, retry: retry, now: time.Now}
}

// WithClock 替换时钟
func (uc *CancelBookingUseCase) WithClock(now func() time.Time) *CancelBookingUseCase {
	uc.now = now
	return uc
}

// CancelRequest 取消请求
type CancelRequest struct {
	Actor     member.Actor
	BookingID uint
	Reason    string
}

// Execute 执行取消
func (uc *CancelBookingUseCase) Execute(ctx context.Context, req CancelRequest) (resp *BookingResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CancelBooking",
		attribute.Int64("booking.id", int64(req.BookingID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	var (
		cancelled *booking.Booking
		from      booking.Status
		refund    int64
	)
	now := uc.now()

	err = uc.retry.run(ctx, func() error {
		b, err := uc.deps.Bookings.FindByID(ctx, req.BookingID)
		if err != nil {
			return err
		}
		if err := authorizeGuestOrStaff(ctx, uc.deps.Hotels, req.Actor, b); err != nil {
			return err
		}

		prev := b.Status
		amount, err := b.Cancel(req.Reason, now)
		if err != nil {
			return err
		}

		if err := uc.deps.Tx.Transaction(ctx, func(txCtx context.Context) error {
			if err := uc.deps.Bookings.Update(txCtx, b, prev); err != nil {
				return err
			}
			return uc.restore(txCtx, b)
		}); err != nil {
			return err
		}

		cancelled, from, refund = b, prev, amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingTransition(string(from), string(cancelled.Status))
	metrics.Refund(refund)
	uc.deps.Events.Publish(ctx, booking.NewEvent(booking.EventCancelled, cancelled, from, now))
	uc.deps.logger().Info("booking cancelled",
		zap.Uint("booking_id", cancelled.ID),
		zap.String("from", string(from)),
		zap.Int64("refund_amount", refund),
		zap.Int("restored_rooms", cancelled.TotalRooms()),
		zap.Uint("operator", req.Actor.MemberID),
	)
	return ToResponse(cancelled), nil
}

// restore 逐行归还房量
func (uc *CancelBookingUseCase) restore(ctx context.Context, b *booking.Booking) error {
	for _, l := range linesInLockOrder(b.Lines) {
		err := uc.deps.Ledger.Adjust(ctx, l.RoomID, l.Quantity, "booking.cancel")
		if errors.Is(err, room.ErrCapacity) {
			// 归还后超过总房量说明账本已不一致，整单回滚并报警
			uc.deps.logger().Error("inventory invariant violated on cancel",
				zap.Uint("booking_id", b.ID),
				zap.Uint("room_id", l.RoomID),
				zap.Int("quantity", l.Quantity),
			)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
