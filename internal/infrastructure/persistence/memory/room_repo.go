package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/lodging/internal/domain/room"
)

// RoomRepository 房型仓储与房量账本的内存实现
// 所有房型共用一把锁，Adjust在锁内完成检查和修改
type RoomRepository struct {
	mu     sync.RWMutex
	rooms  map[uint]*room.Room
	nextID uint
}

// NewRoomRepository 创建房型仓储
func NewRoomRepository() *RoomRepository {
	return &RoomRepository{rooms: make(map[uint]*room.Room)}
}

func cloneRoom(r *room.Room) *room.Room {
	c := *r
	if r.Deal != nil {
		d := *r.Deal
		c.Deal = &d
	}
	return &c
}

// Create 创建房型
func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rm.ID = r.nextID
	r.rooms[rm.ID] = cloneRoom(rm)

	id := rm.ID
	recordUndo(ctx, "room.create", func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.rooms, id)
	})
	return nil
}

// FindByID 根据ID查找房型
func (r *RoomRepository) FindByID(ctx context.Context, id uint) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[id]
	if !ok {
		return nil, room.ErrRoomNotFound
	}
	return cloneRoom(rm), nil
}

// Update 更新价格、状态和特价，保留库中的可售房量
func (r *RoomRepository) Update(ctx context.Context, rm *room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rooms[rm.ID]
	if !ok {
		return room.ErrRoomNotFound
	}
	prev := cloneRoom(stored)

	next := cloneRoom(rm)
	next.AvailableRooms = stored.AvailableRooms
	next.TotalRooms = stored.TotalRooms
	r.rooms[rm.ID] = next

	recordUndo(ctx, "room.update", func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.rooms[prev.ID]; ok {
			prev.AvailableRooms = cur.AvailableRooms
		}
		r.rooms[prev.ID] = prev
	})
	return nil
}

// ListByHotel 查询酒店的房型，按ID升序
func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID uint) ([]*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*room.Room
	for _, rm := range r.rooms {
		if rm.HotelID == hotelID {
			list = append(list, cloneRoom(rm))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ListWithExpiredDeals 特价标记开启但已过期的房型
func (r *RoomRepository) ListWithExpiredDeals(ctx context.Context, now time.Time) ([]*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*room.Room
	for _, rm := range r.rooms {
		if rm.HasExpiredDeal(now) {
			list = append(list, cloneRoom(rm))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ExpireDeal 在锁内重新判断后关闭过期特价
func (r *RoomRepository) ExpireDeal(ctx context.Context, id uint, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rooms[id]
	if !ok || !stored.HasExpiredDeal(now) {
		return false, nil
	}

	next := cloneRoom(stored)
	next.DeactivateDeal(now)
	r.rooms[id] = next

	recordUndo(ctx, "room.expire_deal", func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.rooms[id]; ok && cur.Deal != nil {
			restored := cloneRoom(cur)
			restored.Deal.Active = true
			r.rooms[id] = restored
		}
	})
	return true, nil
}

// Adjust 原子调整可售房量
// 事务内调用时登记反向调整，回滚时恢复
func (r *RoomRepository) Adjust(ctx context.Context, roomID uint, delta int, reason string) error {
	if err := r.adjust(roomID, delta); err != nil {
		return err
	}

	recordUndo(ctx, "room.adjust:"+reason, func() {
		// 反向调整一定落在[0, total]内：它抵消的是本事务刚做过的调整
		_ = r.adjust(roomID, -delta)
	})
	return nil
}

func (r *RoomRepository) adjust(roomID uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return room.ErrRoomNotFound
	}
	if err := rm.CheckAdjust(delta); err != nil {
		return err
	}
	rm.AvailableRooms += delta
	return nil
}
