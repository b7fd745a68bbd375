package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appbooking "github.com/xiebiao/lodging/internal/application/booking"
	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/interface/http/dto"
	"github.com/xiebiao/lodging/internal/interface/http/middleware"
	"github.com/xiebiao/lodging/pkg/response"
)

// BookingHandler 预订HTTP处理器
type BookingHandler struct {
	createUseCase     *appbooking.CreateBookingUseCase
	transitionUseCase *appbooking.TransitionBookingUseCase
	cancelUseCase     *appbooking.CancelBookingUseCase
	paymentUseCase    *appbooking.RecordPaymentUseCase
	getUseCase        *appbooking.GetBookingUseCase
	listUseCase       *appbooking.ListMyBookingsUseCase
}

// NewBookingHandler 创建预订处理器
func NewBookingHandler(
	createUseCase *appbooking.CreateBookingUseCase,
	transitionUseCase *appbooking.TransitionBookingUseCase,
	cancelUseCase *appbooking.CancelBookingUseCase,
	paymentUseCase *appbooking.RecordPaymentUseCase,
	getUseCase *appbooking.GetBookingUseCase,
	listUseCase *appbooking.ListMyBookingsUseCase,
) *BookingHandler {
	return &BookingHandler{
		createUseCase:     createUseCase,
		transitionUseCase: transitionUseCase,
		cancelUseCase:     cancelUseCase,
		paymentUseCase:    paymentUseCase,
		getUseCase:        getUseCase,
		listUseCase:       listUseCase,
	}
}

// Create 创建预订
// @Summary      创建预订
// @Description  按有效价格校验每行单价，扣减可售房量并生成预订号
// @Tags         预订模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookingRequest true "预订信息"
// @Success      200 {object} response.Response{data=appbooking.BookingResponse} "预订成功"
// @Failure      40020 {object} response.Response "价格与有效价格不一致"
// @Failure      40021 {object} response.Response "可售房量不足"
// @Failure      40028 {object} response.Response "入住日期范围非法"
// @Router       /bookings [post]
//
// 并发下单时可售房量通过条件扣减保证不超卖，
// 存储冲突按配置重试，重试耗尽返回可售房量不足
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	checkIn, err := time.Parse(appbooking.DateLayout, req.CheckIn)
	if err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: 入住日期格式应为"+appbooking.DateLayout)
		return
	}
	checkOut, err := time.Parse(appbooking.DateLayout, req.CheckOut)
	if err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: 离店日期格式应为"+appbooking.DateLayout)
		return
	}

	lines := make([]appbooking.LineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, appbooking.LineRequest{
			RoomID:        l.RoomID,
			Quantity:      l.Quantity,
			PricePerNight: l.PricePerNight,
		})
	}

	resp, err := h.createUseCase.Execute(c.Request.Context(), appbooking.CreateBookingRequest{
		GuestID:         middleware.MustGetMemberID(c),
		HotelID:         req.HotelID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Lines:           lines,
		EarlyCheckIn:    req.EarlyCheckIn,
		LateCheckOut:    req.LateCheckOut,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Get 预订详情
// @Summary      预订详情
// @Description  住客本人、酒店经营者或管理员可查看
// @Tags         预订模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预订ID"
// @Success      200 {object} response.Response{data=appbooking.BookingResponse}
// @Failure      40403 {object} response.Response "预订不存在"
// @Router       /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.getUseCase.Execute(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// ListMine 我的预订
// @Summary      我的预订
// @Tags         预订模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /members/me/bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	result, err := h.listUseCase.Execute(c.Request.Context(), middleware.MustGetMemberID(c),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// Transition 推进预订状态
// @Summary      推进预订状态
// @Description  酒店经营者或管理员确认、办理入住、退房或标记未到店；CANCELLED按取消处理（住客也可操作）
// @Tags         预订模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预订ID"
// @Param        request body dto.TransitionRequest true "目标状态"
// @Success      200 {object} response.Response{data=appbooking.BookingResponse}
// @Failure      40022 {object} response.Response "状态流转非法"
// @Router       /bookings/{id}/status [put]
func (h *BookingHandler) Transition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	resp, err := h.transitionUseCase.Execute(c.Request.Context(), appbooking.TransitionRequest{
		Actor:     middleware.GetActor(c),
		BookingID: id,
		Target:    booking.Status(req.Status),
		Reason:    req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Cancel 取消预订
// @Summary      取消预订
// @Description  按距入住天数计算退款并归还可售房量
// @Tags         预订模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预订ID"
// @Param        request body dto.CancelBookingRequest false "取消原因"
// @Success      200 {object} response.Response{data=appbooking.BookingResponse}
// @Failure      40022 {object} response.Response "当前状态不能取消"
// @Router       /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
			return
		}
	}

	resp, err := h.cancelUseCase.Execute(c.Request.Context(), appbooking.CancelRequest{
		Actor:     middleware.GetActor(c),
		BookingID: id,
		Reason:    req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// RecordPayment 记录支付
// @Summary      记录支付
// @Description  累加已付金额，付清后支付状态变为PAID
// @Tags         预订模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预订ID"
// @Param        request body dto.PaymentRequest true "支付金额（分）"
// @Success      200 {object} response.Response{data=appbooking.BookingResponse}
// @Failure      40030 {object} response.Response "支付金额非法"
// @Router       /bookings/{id}/payments [post]
func (h *BookingHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	resp, err := h.paymentUseCase.Execute(c.Request.Context(), appbooking.PaymentRequest{
		Actor:     middleware.GetActor(c),
		BookingID: id,
		Amount:    req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}
