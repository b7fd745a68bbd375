package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/member"
)

// RecordPaymentUseCase 记录付款
// 只记录金额，不对接支付渠道；预订人或管理员可以记录
type RecordPaymentUseCase struct {
	deps  Deps
	retry RetryPolicy
	now   func() time.Time
}

// NewRecordPaymentUseCase 创建用例
func NewRecordPaymentUseCase(deps Deps, retry RetryPolicy) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{deps: deps, retry: retry, now: time.Now}
}

// WithClock 替换时钟
func (uc *RecordPaymentUseCase) WithClock(now func() time.Time) *RecordPaymentUseCase {
	uc.now = now
	return uc
}

// PaymentRequest 付款请求
type PaymentRequest struct {
	Actor     member.Actor
	BookingID uint
	Amount    int64
}

// Execute 累加已付金额，达到总价时支付状态变为PAID
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, req PaymentRequest) (*BookingResponse, error) {
	now := uc.now()
	var paid *booking.Booking

	err := uc.retry.run(ctx, func() error {
		b, err := uc.deps.Bookings.FindByID(ctx, req.BookingID)
		if err != nil {
			return err
		}
		if err := authorizeGuestOrAdmin(req.Actor, b); err != nil {
			return err
		}

		prev := b.Status
		if err := b.RecordPayment(req.Amount, now); err != nil {
			return err
		}
		if err := uc.deps.Bookings.Update(ctx, b, prev); err != nil {
			return err
		}
		paid = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.deps.Events.Publish(ctx, booking.NewEvent(booking.EventPaid, paid, paid.Status, now))
	uc.deps.logger().Info("booking payment recorded",
		zap.Uint("booking_id", paid.ID),
		zap.Int64("amount", req.Amount),
		zap.Int64("paid_amount", paid.PaidAmount),
		zap.String("payment_status", string(paid.PaymentStatus)),
	)
	return ToResponse(paid), nil
}
