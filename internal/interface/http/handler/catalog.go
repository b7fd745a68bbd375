package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/lodging/internal/application/catalog"
	"github.com/xiebiao/lodging/internal/interface/http/dto"
	"github.com/xiebiao/lodging/internal/interface/http/middleware"
	"github.com/xiebiao/lodging/pkg/response"
)

// CatalogHandler 酒店与房型HTTP处理器
type CatalogHandler struct {
	createHotelUseCase  *appcatalog.CreateHotelUseCase
	listMyHotelsUseCase *appcatalog.ListMyHotelsUseCase
	roomUseCase         *appcatalog.RoomUseCase
}

// NewCatalogHandler 创建酒店与房型处理器
func NewCatalogHandler(
	createHotelUseCase *appcatalog.CreateHotelUseCase,
	listMyHotelsUseCase *appcatalog.ListMyHotelsUseCase,
	roomUseCase *appcatalog.RoomUseCase,
) *CatalogHandler {
	return &CatalogHandler{
		createHotelUseCase:  createHotelUseCase,
		listMyHotelsUseCase: listMyHotelsUseCase,
		roomUseCase:         roomUseCase,
	}
}

// CreateHotel 创建酒店
// @Summary      创建酒店
// @Description  酒店经营者或管理员创建酒店，创建人即经营者
// @Tags         酒店模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateHotelRequest true "酒店信息"
// @Success      200 {object} response.Response{data=appcatalog.HotelResponse}
// @Failure      40104 {object} response.Response "无权限访问"
// @Router       /hotels [post]
func (h *CatalogHandler) CreateHotel(c *gin.Context) {
	var req dto.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	resp, err := h.createHotelUseCase.Execute(c.Request.Context(), appcatalog.CreateHotelRequest{
		Actor:   middleware.GetActor(c),
		Name:    req.Name,
		City:    req.City,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// ListMyHotels 我经营的酒店
// @Summary      我经营的酒店
// @Tags         酒店模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appcatalog.HotelResponse}
// @Router       /members/me/hotels [get]
func (h *CatalogHandler) ListMyHotels(c *gin.Context) {
	resp, err := h.listMyHotelsUseCase.Execute(c.Request.Context(), middleware.MustGetMemberID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// PublishRoom 发布房型
// @Summary      发布房型
// @Description  金额单位为分，可售房量初始等于总房量
// @Tags         房型模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "酒店ID"
// @Param        request body dto.PublishRoomRequest true "房型信息"
// @Success      200 {object} response.Response{data=appcatalog.RoomResponse}
// @Failure      40402 {object} response.Response "酒店不存在"
// @Router       /hotels/{id}/rooms [post]
func (h *CatalogHandler) PublishRoom(c *gin.Context) {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.PublishRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	resp, err := h.roomUseCase.Publish(c.Request.Context(), appcatalog.PublishRoomRequest{
		Actor:            middleware.GetActor(c),
		HotelID:          hotelID,
		RoomType:         req.RoomType,
		BasePrice:        req.BasePrice,
		WeekendSurcharge: req.WeekendSurcharge,
		TotalRooms:       req.TotalRooms,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// ListRooms 酒店下的房型
// @Summary      酒店房型列表
// @Tags         房型模块
// @Produce      json
// @Param        id path int true "酒店ID"
// @Success      200 {object} response.Response{data=[]appcatalog.RoomResponse}
// @Router       /hotels/{id}/rooms [get]
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.roomUseCase.ListByHotel(c.Request.Context(), hotelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetRoom 房型详情
// @Summary      房型详情
// @Tags         房型模块
// @Produce      json
// @Param        id path int true "房型ID"
// @Success      200 {object} response.Response{data=appcatalog.RoomResponse}
// @Failure      40410 {object} response.Response "房型不存在"
// @Router       /rooms/{id} [get]
func (h *CatalogHandler) GetRoom(c *gin.Context) {
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.roomUseCase.Get(c.Request.Context(), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// DeactivateRoom 下架房型
// @Summary      下架房型
// @Description  下架后不能再预订，已有预订不受影响
// @Tags         房型模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "房型ID"
// @Success      200 {object} response.Response{data=appcatalog.RoomResponse}
// @Router       /rooms/{id}/deactivate [post]
func (h *CatalogHandler) DeactivateRoom(c *gin.Context) {
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.roomUseCase.Deactivate(c.Request.Context(), middleware.GetActor(c), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// ActivateDeal 开启特价
// @Summary      开启特价
// @Tags         房型模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "房型ID"
// @Param        request body dto.DealRequest true "折扣与截止时间"
// @Success      200 {object} response.Response{data=appcatalog.RoomResponse}
// @Router       /rooms/{id}/deal [put]
func (h *CatalogHandler) ActivateDeal(c *gin.Context) {
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	resp, err := h.roomUseCase.ActivateDeal(c.Request.Context(), appcatalog.DealRequest{
		Actor:           middleware.GetActor(c),
		RoomID:          roomID,
		DiscountPercent: req.DiscountPercent,
		ValidUntil:      req.ValidUntil,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// DeactivateDeal 关闭特价
// @Summary      关闭特价
// @Tags         房型模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "房型ID"
// @Success      200 {object} response.Response{data=appcatalog.RoomResponse}
// @Router       /rooms/{id}/deal [delete]
func (h *CatalogHandler) DeactivateDeal(c *gin.Context) {
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.roomUseCase.DeactivateDeal(c.Request.Context(), middleware.GetActor(c), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}
