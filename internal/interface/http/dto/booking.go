package dto

// CreateBookingRequest 创建预订请求
// 日期格式为2006-01-02，金额单位为分
type CreateBookingRequest struct {
	HotelID         uint                 `json:"hotel_id" binding:"required"`
	CheckIn         string               `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut        string               `json:"check_out" binding:"required,datetime=2006-01-02"`
	Lines           []BookingLineRequest `json:"lines" binding:"required,min=1,max=20,dive"`
	EarlyCheckIn    bool                 `json:"early_check_in"`
	LateCheckOut    bool                 `json:"late_check_out"`
	SpecialRequests string               `json:"special_requests" binding:"max=500"`
}

// BookingLineRequest 预订明细
type BookingLineRequest struct {
	RoomID        uint  `json:"room_id" binding:"required"`
	Quantity      int   `json:"quantity" binding:"required,min=1,max=100"`
	PricePerNight int64 `json:"price_per_night" binding:"required,gt=0"`
}

// TransitionRequest 推进预订状态，CANCELLED等同于调用取消接口
type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=CONFIRMED CHECKED_IN CHECKED_OUT NO_SHOW CANCELLED"`
	Reason string `json:"reason" binding:"max=500"`
}

// CancelBookingRequest 取消预订
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// PaymentRequest 记录支付
type PaymentRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}
