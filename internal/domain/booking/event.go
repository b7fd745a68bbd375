package booking

import "time"

// 预订事件的路由键
const (
	EventCreated       = "booking.created"
	EventStatusChanged = "booking.status_changed"
	EventCancelled     = "booking.cancelled"
	EventPaid          = "booking.paid"
)

// Event 预订事件，提交后异步投递
type Event struct {
	Type          string        `json:"type"`
	BookingID     uint          `json:"booking_id"`
	BookingCode   string        `json:"booking_code"`
	GuestID       uint          `json:"guest_id"`
	HotelID       uint          `json:"hotel_id"`
	FromStatus    Status        `json:"from_status,omitempty"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TotalPrice    int64         `json:"total_price"`
	PaidAmount    int64         `json:"paid_amount"`
	RefundAmount  int64         `json:"refund_amount,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// NewEvent 由预订当前状态生成事件
func NewEvent(eventType string, b *Booking, from Status, now time.Time) Event {
	return Event{
		Type:          eventType,
		BookingID:     b.ID,
		BookingCode:   b.BookingCode,
		GuestID:       b.GuestID,
		HotelID:       b.HotelID,
		FromStatus:    from,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		TotalPrice:    b.Cost.TotalPrice,
		PaidAmount:    b.PaidAmount,
		RefundAmount:  b.RefundAmount,
		OccurredAt:    now,
	}
}
