package handler

import (
	"github.com/gin-gonic/gin"

	appcalendar "github.com/xiebiao/lodging/internal/application/calendar"
	apppricing "github.com/xiebiao/lodging/internal/application/pricing"
	"github.com/xiebiao/lodging/internal/interface/http/dto"
	"github.com/xiebiao/lodging/internal/interface/http/middleware"
	"github.com/xiebiao/lodging/pkg/response"
)

// PricingHandler 锁价、有效价格与价格日历
type PricingHandler struct {
	lockUseCase      *apppricing.LockPriceUseCase
	cancelUseCase    *apppricing.CancelLockUseCase
	effectiveUseCase *apppricing.GetEffectivePriceUseCase
	calendarUseCase  *appcalendar.GetPriceCalendarUseCase
}

// NewPricingHandler 创建价格处理器
func NewPricingHandler(
	lockUseCase *apppricing.LockPriceUseCase,
	cancelUseCase *apppricing.CancelLockUseCase,
	effectiveUseCase *apppricing.GetEffectivePriceUseCase,
	calendarUseCase *appcalendar.GetPriceCalendarUseCase,
) *PricingHandler {
	return &PricingHandler{
		lockUseCase:      lockUseCase,
		cancelUseCase:    cancelUseCase,
		effectiveUseCase: effectiveUseCase,
		calendarUseCase:  calendarUseCase,
	}
}

// LockPrice 锁定当前价格
// @Summary      锁价
// @Description  提交的价格必须等于房型当前基础价，锁定后在有效期内按锁定价下单
// @Tags         价格模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.LockPriceRequest true "房型与看到的价格"
// @Success      200 {object} response.Response{data=apppricing.PriceLockResponse}
// @Failure      40023 {object} response.Response "已存在有效锁价"
// @Failure      40024 {object} response.Response "价格已变化"
// @Router       /price-locks [post]
func (h *PricingHandler) LockPrice(c *gin.Context) {
	var req dto.LockPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	resp, err := h.lockUseCase.Execute(c.Request.Context(), apppricing.LockPriceRequest{
		MemberID:       middleware.MustGetMemberID(c),
		RoomID:         req.RoomID,
		SubmittedPrice: req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// CancelLock 取消锁价
// @Summary      取消锁价
// @Tags         价格模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "锁价ID"
// @Success      200 {object} response.Response
// @Failure      40029 {object} response.Response "非锁价持有人"
// @Router       /price-locks/{id} [delete]
func (h *PricingHandler) CancelLock(c *gin.Context) {
	if err := h.cancelUseCase.Execute(c.Request.Context(), middleware.MustGetMemberID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// EffectivePrice 当前会员看到的有效价格
// @Summary      有效价格
// @Description  优先级：本人有效锁价 > 有效特价 > 基础价
// @Tags         价格模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "房型ID"
// @Success      200 {object} response.Response{data=apppricing.EffectivePriceResponse}
// @Router       /rooms/{id}/price [get]
func (h *PricingHandler) EffectivePrice(c *gin.Context) {
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.effectiveUseCase.Execute(c.Request.Context(), middleware.MustGetMemberID(c), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Calendar 月度价格日历
// @Summary      价格日历
// @Description  按入住率给出每天的建议价格，month格式为2006-01
// @Tags         价格模块
// @Produce      json
// @Param        id path int true "房型ID"
// @Param        month query string true "月份"
// @Success      200 {object} response.Response{data=appcalendar.CalendarResponse}
// @Router       /rooms/{id}/calendar [get]
func (h *PricingHandler) Calendar(c *gin.Context) {
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	month := c.Query("month")
	if month == "" {
		response.ErrorWithCode(c, 40900, "参数错误: month不能为空")
		return
	}

	resp, err := h.calendarUseCase.Execute(c.Request.Context(), roomID, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}
