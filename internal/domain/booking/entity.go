package booking

import (
	"time"
)

// Line 预订明细，一行对应一个房型
type Line struct {
	ID            uint
	BookingID     uint
	RoomID        uint
	RoomType      string
	Quantity      int
	PricePerNight int64
	PriceSource   string // LOCK / DEAL / BASE
}

// Booking 预订实体（聚合根）
// 设计说明：
// 1. 费用明细在创建时一次算定，之后不再变化
// 2. 状态只能通过TransitionTo/Cancel修改
// 3. 预订不做物理删除
type Booking struct {
	ID          uint
	BookingCode string
	GuestID     uint
	HotelID     uint
	Lines       []Line
	CheckIn     time.Time
	CheckOut    time.Time
	Nights      int

	Cost CostBreakdown

	EarlyCheckIn    bool
	LateCheckOut    bool
	SpecialRequests string

	Status        Status
	PaymentStatus PaymentStatus
	PaidAmount    int64

	CancellationDate   *time.Time
	CancellationReason string
	RefundAmount       int64

	// Version 乐观锁版本号，每次Update成功后加1
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBooking 创建待确认预订
func NewBooking(guestID, hotelID uint, lines []Line, checkIn, checkOut time.Time, cost CostBreakdown, now time.Time) *Booking {
	return &Booking{
		GuestID:       guestID,
		HotelID:       hotelID,
		Lines:         lines,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        CountNights(checkIn, checkOut),
		Cost:          cost,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TotalRooms 各行数量之和
func (b *Booking) TotalRooms() int {
	n := 0
	for _, l := range b.Lines {
		n += l.Quantity
	}
	return n
}

// QuantityOf 某房型在本预订中的数量
func (b *Booking) QuantityOf(roomID uint) int {
	n := 0
	for _, l := range b.Lines {
		if l.RoomID == roomID {
			n += l.Quantity
		}
	}
	return n
}

// CanTransitionTo 是否允许流转到target
func (b *Booking) CanTransitionTo(target Status) bool {
	return b.Status.CanTransitionTo(target)
}

// TransitionTo 非取消类的状态流转，取消走Cancel
func (b *Booking) TransitionTo(target Status, now time.Time) error {
	if target == StatusCancelled || !b.CanTransitionTo(target) {
		return ErrIllegalTransition
	}
	b.Status = target
	b.UpdatedAt = now
	return nil
}

// Cancel 取消预订并计算退款，返回退款金额
func (b *Booking) Cancel(reason string, now time.Time) (int64, error) {
	if !b.CanTransitionTo(StatusCancelled) {
		return 0, ErrIllegalTransition
	}

	refund := CalculateRefund(b.PaidAmount, b.CheckIn, now)

	b.Status = StatusCancelled
	b.CancellationDate = &now
	b.CancellationReason = reason
	b.RefundAmount = refund
	if refund > 0 {
		b.PaymentStatus = PaymentRefunded
	}
	b.UpdatedAt = now
	return refund, nil
}

// RecordPayment 记录一笔付款，累计金额达到总价时标记为已支付
func (b *Booking) RecordPayment(amount int64, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidPayment
	}
	if b.Status.IsTerminal() {
		return ErrIllegalTransition
	}

	b.PaidAmount += amount
	if b.PaidAmount >= b.Cost.TotalPrice {
		b.PaymentStatus = PaymentPaid
	}
	b.UpdatedAt = now
	return nil
}

// Covers 某天是否在入住期间：入住日 <= d < 离店日
func (b *Booking) Covers(d time.Time) bool {
	return !d.Before(b.CheckIn) && d.Before(b.CheckOut)
}

// IsGuest 是否为预订人
func (b *Booking) IsGuest(memberID uint) bool {
	return b.GuestID == memberID
}
