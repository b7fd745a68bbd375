package booking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/member"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
	"github.com/xiebiao/lodging/pkg/metrics"
	"github.com/xiebiao/lodging/pkg/tracing"
)

// TransitionBookingUseCase 预订状态流转
// 确认、入住、离店、未到店只有酒店经营者或管理员可以操作；
// 目标为CANCELLED时交给CancelBookingUseCase，退款和房量归还只有这一条路径
type TransitionBookingUseCase struct {
	deps   Deps
	cancel *CancelBookingUseCase
	now    func() time.Time
}

// NewTransitionBookingUseCase 创建用例
func NewTransitionBookingUseCase(deps Deps, cancel *CancelBookingUseCase) *TransitionBookingUseCase {
	return &TransitionBookingUseCase{deps: deps, cancel: cancel, now: time.Now}
}

// WithClock 替换时钟
func (uc *TransitionBookingUseCase) WithClock(now func() time.Time) *TransitionBookingUseCase {
	uc.now = now
	return uc
}

// TransitionRequest 状态流转请求
type TransitionRequest struct {
	Actor     member.Actor
	BookingID uint
	Target    booking.Status
	Reason    string // 仅取消时使用
}

// Execute 执行流转
// 条件更新失败（状态已被并发修改）返回ErrStatusChanged，不自动重试
func (uc *TransitionBookingUseCase) Execute(ctx context.Context, req TransitionRequest) (resp *BookingResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "TransitionBooking",
		attribute.Int64("booking.id", int64(req.BookingID)),
		attribute.String("booking.target", string(req.Target)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if !req.Target.IsValid() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "未知的预订状态")
	}
	if req.Target == booking.StatusCancelled {
		return uc.cancel.Execute(ctx, CancelRequest{Actor: req.Actor, BookingID: req.BookingID, Reason: req.Reason})
	}

	b, err := uc.deps.Bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeStaff(ctx, uc.deps.Hotels, req.Actor, b); err != nil {
		return nil, err
	}

	from := b.Status
	now := uc.now()
	if err := b.TransitionTo(req.Target, now); err != nil {
		return nil, err
	}
	if err := uc.deps.Bookings.Update(ctx, b, from); err != nil {
		return nil, err
	}

	metrics.BookingTransition(string(from), string(b.Status))
	uc.deps.Events.Publish(ctx, booking.NewEvent(booking.EventStatusChanged, b, from, now))
	uc.deps.logger().Info("booking status changed",
		zap.Uint("booking_id", b.ID),
		zap.String("from", string(from)),
		zap.String("to", string(b.Status)),
		zap.Uint("operator", req.Actor.MemberID),
	)
	return ToResponse(b), nil
}
