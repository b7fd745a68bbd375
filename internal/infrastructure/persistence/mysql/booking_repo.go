package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/room"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

// bookingRepository 预订仓储实现(MySQL)
// 设计说明:
// 1. Booking和BookingLine是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 状态更新是条件UPDATE，WHERE带上期望的旧状态
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预订仓储
func NewBookingRepository(db *gorm.DB) booking.Repository {
	return &bookingRepository{db: db}
}

// Create 创建预订(包含明细)
func (r *bookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	model := toBookingModel(b)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return createBookingError(err)
	}

	b.ID = model.ID
	for i := range b.Lines {
		b.Lines[i].ID = model.Lines[i].ID
		b.Lines[i].BookingID = model.ID
	}
	return nil
}

// createBookingError 插入失败的错误归类
// 死锁、锁等待超时时InnoDB已回滚整个事务，按房量冲突返回，用例会整单重试
func createBookingError(err error) error {
	switch {
	case isDuplicateError(err):
		return booking.ErrDuplicateCode
	case isTransientError(err):
		return room.ErrConcurrentUpdate.WithErr(err)
	default:
		return apperrors.Wrap(err, "创建预订失败")
	}
}

// FindByID 根据ID查找预订
func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*booking.Booking, error) {
	var model BookingModel
	if err := getDB(ctx, r.db).Preload("Lines").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, apperrors.Wrap(err, "查询预订失败")
	}
	return toBookingEntity(&model), nil
}

// FindByCode 根据预订号查找预订
func (r *bookingRepository) FindByCode(ctx context.Context, code string) (*booking.Booking, error) {
	var model BookingModel
	err := getDB(ctx, r.db).Preload("Lines").Where("booking_code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, apperrors.Wrap(err, "查询预订失败")
	}
	return toBookingEntity(&model), nil
}

// Update 条件更新状态、支付、取消字段，不更新明细和费用
// UPDATE bookings SET ..., version = version + 1 WHERE id = ? AND booking_status = ? AND version = ?
func (r *bookingRepository) Update(ctx context.Context, b *booking.Booking, expected booking.Status) error {
	db := getDB(ctx, r.db)

	result := updateBookingStatement(db, b, expected)
	if result.Error != nil {
		if isTransientError(result.Error) {
			return booking.ErrStatusChanged.WithErr(result.Error)
		}
		return apperrors.Wrap(result.Error, "更新预订失败")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&BookingModel{}).Where("id = ?", b.ID).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询预订失败")
		}
		if count == 0 {
			return booking.ErrBookingNotFound
		}
		return booking.ErrStatusChanged
	}

	b.Version++
	return nil
}

func updateBookingStatement(db *gorm.DB, b *booking.Booking, expected booking.Status) *gorm.DB {
	return db.Model(&BookingModel{}).
		Where("id = ? AND booking_status = ? AND version = ?", b.ID, string(expected), b.Version).
		Updates(map[string]interface{}{
			"booking_status":      string(b.Status),
			"payment_status":      string(b.PaymentStatus),
			"paid_amount":         b.PaidAmount,
			"cancellation_date":   b.CancellationDate,
			"cancellation_reason": b.CancellationReason,
			"refund_amount":       b.RefundAmount,
			"updated_at":          b.UpdatedAt,
			"version":             gorm.Expr("version + 1"),
		})
}

// ListByGuest 查询住客的预订列表
func (r *bookingRepository) ListByGuest(ctx context.Context, guestID uint, page, pageSize int) ([]*booking.Booking, int64, error) {
	var models []BookingModel
	var total int64

	query := getDB(ctx, r.db).Model(&BookingModel{}).Where("guest_id = ?", guestID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询预订总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Lines").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询预订列表失败")
	}

	return toBookingEntities(models), total, nil
}

// ListActiveByRoomInRange 与[from, to)有交集、包含该房型且未取消的预订
func (r *bookingRepository) ListActiveByRoomInRange(ctx context.Context, roomID uint, from, to time.Time) ([]*booking.Booking, error) {
	db := getDB(ctx, r.db)

	lines := db.Model(&BookingLineModel{}).Select("booking_id").Where("room_id = ?", roomID)

	var models []BookingModel
	err := db.Preload("Lines").
		Where("booking_status <> ?", string(booking.StatusCancelled)).
		Where("check_in < ? AND check_out > ?", to, from).
		Where("id IN (?)", lines).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询房型预订失败")
	}
	return toBookingEntities(models), nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookingModel(b *booking.Booking) *BookingModel {
	lines := make([]BookingLineModel, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = BookingLineModel{
			ID:            l.ID,
			BookingID:     l.BookingID,
			RoomID:        l.RoomID,
			RoomType:      l.RoomType,
			Quantity:      l.Quantity,
			PricePerNight: l.PricePerNight,
			PriceSource:   l.PriceSource,
		}
	}

	return &BookingModel{
		ID:                 b.ID,
		BookingCode:        b.BookingCode,
		GuestID:            b.GuestID,
		HotelID:            b.HotelID,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		Nights:             b.Nights,
		Lines:              lines,
		Subtotal:           b.Cost.Subtotal,
		WeekendSurcharge:   b.Cost.WeekendSurcharge,
		EarlyCheckInFee:    b.Cost.EarlyCheckInFee,
		LateCheckOutFee:    b.Cost.LateCheckOutFee,
		Taxes:              b.Cost.Taxes,
		ServiceFee:         b.Cost.ServiceFee,
		Discount:           b.Cost.Discount,
		TotalPrice:         b.Cost.TotalPrice,
		EarlyCheckIn:       b.EarlyCheckIn,
		LateCheckOut:       b.LateCheckOut,
		SpecialRequests:    b.SpecialRequests,
		BookingStatus:      string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaidAmount:         b.PaidAmount,
		CancellationDate:   b.CancellationDate,
		CancellationReason: b.CancellationReason,
		RefundAmount:       b.RefundAmount,
		CreatedAt:          b.CreatedAt,
		Version:            b.Version,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toBookingEntity(model *BookingModel) *booking.Booking {
	lines := make([]booking.Line, len(model.Lines))
	for i, l := range model.Lines {
		lines[i] = booking.Line{
			ID:            l.ID,
			BookingID:     l.BookingID,
			RoomID:        l.RoomID,
			RoomType:      l.RoomType,
			Quantity:      l.Quantity,
			PricePerNight: l.PricePerNight,
			PriceSource:   l.PriceSource,
		}
	}

	return &booking.Booking{
		ID:          model.ID,
		BookingCode: model.BookingCode,
		GuestID:     model.GuestID,
		HotelID:     model.HotelID,
		Lines:       lines,
		CheckIn:     model.CheckIn.UTC(),
		CheckOut:    model.CheckOut.UTC(),
		Nights:      model.Nights,
		Cost: booking.CostBreakdown{
			Subtotal:         model.Subtotal,
			WeekendSurcharge: model.WeekendSurcharge,
			EarlyCheckInFee:  model.EarlyCheckInFee,
			LateCheckOutFee:  model.LateCheckOutFee,
			Taxes:            model.Taxes,
			ServiceFee:       model.ServiceFee,
			Discount:         model.Discount,
			TotalPrice:       model.TotalPrice,
		},
		EarlyCheckIn:       model.EarlyCheckIn,
		LateCheckOut:       model.LateCheckOut,
		SpecialRequests:    model.SpecialRequests,
		Status:             booking.Status(model.BookingStatus),
		PaymentStatus:      booking.PaymentStatus(model.PaymentStatus),
		PaidAmount:         model.PaidAmount,
		CancellationDate:   model.CancellationDate,
		CancellationReason: model.CancellationReason,
		RefundAmount:       model.RefundAmount,
		CreatedAt:          model.CreatedAt,
		Version:            model.Version,
		UpdatedAt:          model.UpdatedAt,
	}
}

func toBookingEntities(models []BookingModel) []*booking.Booking {
	bookings := make([]*booking.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingEntity(&models[i])
	}
	return bookings
}
