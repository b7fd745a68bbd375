package booking

import (
	"time"

	"github.com/xiebiao/lodging/internal/domain/booking"
)

// DateLayout 入住离店日期格式
const DateLayout = "2006-01-02"

// LineResponse 预订明细
type LineResponse struct {
	RoomID        uint   `json:"room_id"`
	RoomType      string `json:"room_type"`
	Quantity      int    `json:"quantity"`
	PricePerNight int64  `json:"price_per_night"`
	PriceSource   string `json:"price_source"`
}

// CostResponse 费用明细（最小货币单位）
type CostResponse struct {
	Subtotal         int64 `json:"subtotal"`
	WeekendSurcharge int64 `json:"weekend_surcharge"`
	EarlyCheckInFee  int64 `json:"early_check_in_fee"`
	LateCheckOutFee  int64 `json:"late_check_out_fee"`
	Taxes            int64 `json:"taxes"`
	ServiceFee       int64 `json:"service_fee"`
	Discount         int64 `json:"discount"`
	TotalPrice       int64 `json:"total_price"`
}

// BookingResponse 预订详情
type BookingResponse struct {
	ID                 uint           `json:"id"`
	BookingCode        string         `json:"booking_code"`
	GuestID            uint           `json:"guest_id"`
	HotelID            uint           `json:"hotel_id"`
	Lines              []LineResponse `json:"lines"`
	CheckIn            string         `json:"check_in"`
	CheckOut           string         `json:"check_out"`
	Nights             int            `json:"nights"`
	Cost               CostResponse   `json:"cost"`
	EarlyCheckIn       bool           `json:"early_check_in"`
	LateCheckOut       bool           `json:"late_check_out"`
	SpecialRequests    string         `json:"special_requests,omitempty"`
	Status             string         `json:"status"`
	PaymentStatus      string         `json:"payment_status"`
	PaidAmount         int64          `json:"paid_amount"`
	CancellationDate   *time.Time     `json:"cancellation_date,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	RefundAmount       int64          `json:"refund_amount"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// ToResponse 领域实体转换为响应DTO
func ToResponse(b *booking.Booking) *BookingResponse {
	lines := make([]LineResponse, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = LineResponse{
			RoomID:        l.RoomID,
			RoomType:      l.RoomType,
			Quantity:      l.Quantity,
			PricePerNight: l.PricePerNight,
			PriceSource:   l.PriceSource,
		}
	}
	return &BookingResponse{
		ID:          b.ID,
		BookingCode: b.BookingCode,
		GuestID:     b.GuestID,
		HotelID:     b.HotelID,
		Lines:       lines,
		CheckIn:     b.CheckIn.Format(DateLayout),
		CheckOut:    b.CheckOut.Format(DateLayout),
		Nights:      b.Nights,
		Cost: CostResponse{
			Subtotal:         b.Cost.Subtotal,
			WeekendSurcharge: b.Cost.WeekendSurcharge,
			EarlyCheckInFee:  b.Cost.EarlyCheckInFee,
			LateCheckOutFee:  b.Cost.LateCheckOutFee,
			Taxes:            b.Cost.Taxes,
			ServiceFee:       b.Cost.ServiceFee,
			Discount:         b.Cost.Discount,
			TotalPrice:       b.Cost.TotalPrice,
		},
		EarlyCheckIn:       b.EarlyCheckIn,
		LateCheckOut:       b.LateCheckOut,
		SpecialRequests:    b.SpecialRequests,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaidAmount:         b.PaidAmount,
		CancellationDate:   b.CancellationDate,
		CancellationReason: b.CancellationReason,
		RefundAmount:       b.RefundAmount,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
