package hotel

import (
	"context"
)

// Repository 酒店仓储接口
type Repository interface {
	Create(ctx context.Context, h *Hotel) error

	// FindByID 不存在返回ErrHotelNotFound
	FindByID(ctx context.Context, id uint) (*Hotel, error)

	ListByOwner(ctx context.Context, ownerID uint) ([]*Hotel, error)
}
