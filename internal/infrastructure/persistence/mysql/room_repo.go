package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/lodging/internal/domain/room"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

// roomRepository 房型仓储实现(MySQL)
type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房型仓储
func NewRoomRepository(db *gorm.DB) room.Repository {
	return &roomRepository{db: db}
}

// Create 创建房型
func (r *roomRepository) Create(ctx context.Context, rm *room.Room) error {
	model := toRoomModel(rm)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建房型失败")
	}
	rm.ID = model.ID
	return nil
}

// FindByID 根据ID查找房型
func (r *roomRepository) FindByID(ctx context.Context, id uint) (*room.Room, error) {
	var model RoomModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, room.ErrRoomNotFound
		}
		return nil, apperrors.Wrap(err, "查询房型失败")
	}
	return toRoomEntity(&model), nil
}

// Update 更新价格、状态、特价
// 不写available_rooms和total_rooms，房量只能走Ledger
func (r *roomRepository) Update(ctx context.Context, rm *room.Room) error {
	model := toRoomModel(rm)
	result := getDB(ctx, r.db).Model(&RoomModel{}).Where("id = ?", rm.ID).
		Select("room_type", "base_price", "weekend_surcharge", "status",
			"deal_active", "deal_discount_percent", "deal_price", "deal_valid_until", "updated_at").
		Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新房型失败")
	}
	if result.RowsAffected == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

// ListByHotel 查询酒店的房型
func (r *roomRepository) ListByHotel(ctx context.Context, hotelID uint) ([]*room.Room, error) {
	var models []RoomModel
	if err := getDB(ctx, r.db).Where("hotel_id = ?", hotelID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询房型列表失败")
	}
	return toRoomEntities(models), nil
}

// ListWithExpiredDeals 特价标记开启但已过期的房型
func (r *roomRepository) ListWithExpiredDeals(ctx context.Context, now time.Time) ([]*room.Room, error) {
	var models []RoomModel
	err := getDB(ctx, r.db).
		Where("deal_active = ? AND deal_valid_until <= ?", true, now).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询过期特价失败")
	}
	return toRoomEntities(models), nil
}

// ExpireDeal 条件关闭过期特价
// UPDATE rooms SET deal_active = false, updated_at = ? WHERE id = ? AND deal_active = true AND deal_valid_until <= ?
func (r *roomRepository) ExpireDeal(ctx context.Context, id uint, now time.Time) (bool, error) {
	result := expireDealStatement(getDB(ctx, r.db), id, now)
	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, "关闭过期特价失败")
	}
	return result.RowsAffected > 0, nil
}

func expireDealStatement(db *gorm.DB, id uint, now time.Time) *gorm.DB {
	return db.Model(&RoomModel{}).
		Where("id = ? AND deal_active = ? AND deal_valid_until <= ?", id, true, now).
		Updates(map[string]interface{}{
			"deal_active": false,
			"updated_at":  now,
		})
}

// roomLedger 可售房量账本(MySQL)
// 设计说明:
// 1. 单条条件UPDATE完成"检查并修改"，不先读后写
// 2. 每次调整写一条room_inventory_logs流水，与调整在同一事务
// 3. 死锁、锁等待超时转换为ErrConcurrentUpdate，由调用方重试
type roomLedger struct {
	db *gorm.DB
}

// NewRoomLedger 创建房量账本
func NewRoomLedger(db *gorm.DB) room.Ledger {
	return &roomLedger{db: db}
}

// Adjust 原子调整可售房量
// UPDATE rooms SET available_rooms = available_rooms + ?
// WHERE id = ? AND available_rooms + ? >= 0 AND available_rooms + ? <= total_rooms
func (l *roomLedger) Adjust(ctx context.Context, roomID uint, delta int, reason string) error {
	db := getDB(ctx, l.db)

	result := adjustStatement(db, roomID, delta)
	if result.Error != nil {
		if isTransientError(result.Error) {
			return room.ErrConcurrentUpdate.WithErr(result.Error)
		}
		return apperrors.Wrap(result.Error, "更新房量失败")
	}

	if result.RowsAffected == 0 {
		// 房型不存在或越界，再查一次确定原因
		var model RoomModel
		if err := db.Select("id").First(&model, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return room.ErrRoomNotFound
			}
			return apperrors.Wrap(err, "查询房型失败")
		}
		return room.ErrCapacity
	}

	entry := &RoomInventoryLogModel{RoomID: roomID, Delta: delta, Reason: reason}
	if err := db.Create(entry).Error; err != nil {
		if isTransientError(err) {
			return room.ErrConcurrentUpdate.WithErr(err)
		}
		return apperrors.Wrap(err, "写入房量流水失败")
	}
	return nil
}

func adjustStatement(db *gorm.DB, roomID uint, delta int) *gorm.DB {
	return db.Model(&RoomModel{}).
		Where("id = ?", roomID).
		Where("available_rooms + ? >= 0", delta).
		Where("available_rooms + ? <= total_rooms", delta).
		Update("available_rooms", gorm.Expr("available_rooms + ?", delta))
}

func toRoomModel(rm *room.Room) *RoomModel {
	model := &RoomModel{
		ID:               rm.ID,
		HotelID:          rm.HotelID,
		RoomType:         rm.RoomType,
		BasePrice:        rm.BasePrice,
		WeekendSurcharge: rm.WeekendSurcharge,
		TotalRooms:       rm.TotalRooms,
		AvailableRooms:   rm.AvailableRooms,
		Status:           string(rm.Status),
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
	if d := rm.Deal; d != nil {
		validUntil := d.ValidUntil
		model.DealActive = d.Active
		model.DealDiscountPercent = d.DiscountPercent
		model.DealPrice = d.DealPrice
		model.DealValidUntil = &validUntil
	}
	return model
}

func toRoomEntity(model *RoomModel) *room.Room {
	rm := &room.Room{
		ID:               model.ID,
		HotelID:          model.HotelID,
		RoomType:         model.RoomType,
		BasePrice:        model.BasePrice,
		WeekendSurcharge: model.WeekendSurcharge,
		TotalRooms:       model.TotalRooms,
		AvailableRooms:   model.AvailableRooms,
		Status:           room.Status(model.Status),
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
	if model.DealValidUntil != nil {
		rm.Deal = &room.Deal{
			Active:          model.DealActive,
			DiscountPercent: model.DealDiscountPercent,
			DealPrice:       model.DealPrice,
			ValidUntil:      *model.DealValidUntil,
		}
	}
	return rm
}

func toRoomEntities(models []RoomModel) []*room.Room {
	rooms := make([]*room.Room, len(models))
	for i := range models {
		rooms[i] = toRoomEntity(&models[i])
	}
	return rooms
}
