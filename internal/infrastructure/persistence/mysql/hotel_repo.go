package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/lodging/internal/domain/hotel"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

// hotelRepository 酒店仓储实现(MySQL)
type hotelRepository struct {
	db *gorm.DB
}

// NewHotelRepository 创建酒店仓储
func NewHotelRepository(db *gorm.DB) hotel.Repository {
	return &hotelRepository{db: db}
}

// Create 创建酒店
func (r *hotelRepository) Create(ctx context.Context, h *hotel.Hotel) error {
	model := &HotelModel{
		OwnerID:   h.OwnerID,
		Name:      h.Name,
		City:      h.City,
		Address:   h.Address,
		Status:    string(h.Status),
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建酒店失败")
	}
	h.ID = model.ID
	return nil
}

// FindByID 根据ID查找酒店
func (r *hotelRepository) FindByID(ctx context.Context, id uint) (*hotel.Hotel, error) {
	var model HotelModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, hotel.ErrHotelNotFound
		}
		return nil, apperrors.Wrap(err, "查询酒店失败")
	}
	return toHotelEntity(&model), nil
}

// ListByOwner 查询经营者名下的酒店
func (r *hotelRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*hotel.Hotel, error) {
	var models []HotelModel
	if err := getDB(ctx, r.db).Where("owner_id = ?", ownerID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询酒店列表失败")
	}

	hotels := make([]*hotel.Hotel, len(models))
	for i := range models {
		hotels[i] = toHotelEntity(&models[i])
	}
	return hotels, nil
}

func toHotelEntity(model *HotelModel) *hotel.Hotel {
	return &hotel.Hotel{
		ID:        model.ID,
		OwnerID:   model.OwnerID,
		Name:      model.Name,
		City:      model.City,
		Address:   model.Address,
		Status:    hotel.Status(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
