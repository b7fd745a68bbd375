package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xiebiao/lodging/internal/domain/hotel"
)

// HotelRepository 酒店仓储内存实现
type HotelRepository struct {
	mu     sync.RWMutex
	hotels map[uint]hotel.Hotel
	nextID uint
}

// NewHotelRepository 创建酒店仓储
func NewHotelRepository() *HotelRepository {
	return &HotelRepository{hotels: make(map[uint]hotel.Hotel)}
}

// Create 创建酒店
func (r *HotelRepository) Create(ctx context.Context, h *hotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	h.ID = r.nextID
	r.hotels[h.ID] = *h

	id := h.ID
	recordUndo(ctx, "hotel.create", func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.hotels, id)
	})
	return nil
}

// FindByID 根据ID查找酒店
func (r *HotelRepository) FindByID(ctx context.Context, id uint) (*hotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.hotels[id]
	if !ok {
		return nil, hotel.ErrHotelNotFound
	}
	return &h, nil
}

// ListByOwner 查询经营者名下的酒店，按ID升序
func (r *HotelRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*hotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*hotel.Hotel
	for _, h := range r.hotels {
		if h.OwnerID == ownerID {
			h := h
			list = append(list, &h)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
