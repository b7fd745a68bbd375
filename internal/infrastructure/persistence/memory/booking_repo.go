package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/lodging/internal/domain/booking"
)

// BookingRepository 预订仓储内存实现
type BookingRepository struct {
	mu         sync.RWMutex
	bookings   map[uint]*booking.Booking
	byCode     map[string]uint
	nextID     uint
	nextLineID uint
}

// NewBookingRepository 创建预订仓储
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		bookings: make(map[uint]*booking.Booking),
		byCode:   make(map[string]uint),
	}
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	c := *b
	c.Lines = append([]booking.Line(nil), b.Lines...)
	if b.CancellationDate != nil {
		d := *b.CancellationDate
		c.CancellationDate = &d
	}
	return &c
}

// Create 保存预订并回填ID，预订号重复返回ErrDuplicateCode
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[b.BookingCode]; ok {
		return booking.ErrDuplicateCode
	}

	r.nextID++
	b.ID = r.nextID
	for i := range b.Lines {
		r.nextLineID++
		b.Lines[i].ID = r.nextLineID
		b.Lines[i].BookingID = b.ID
	}
	r.bookings[b.ID] = cloneBooking(b)
	r.byCode[b.BookingCode] = b.ID

	id, code := b.ID, b.BookingCode
	recordUndo(ctx, "booking.create", func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.bookings, id)
		delete(r.byCode, code)
	})
	return nil
}

// FindByID 根据ID查找预订
func (r *BookingRepository) FindByID(ctx context.Context, id uint) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

// FindByCode 根据预订号查找预订
func (r *BookingRepository) FindByCode(ctx context.Context, code string) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return cloneBooking(r.bookings[id]), nil
}

// Update 条件更新，库中状态不是expected时返回ErrStatusChanged
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, expected booking.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[b.ID]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if stored.Status != expected || stored.Version != b.Version {
		return booking.ErrStatusChanged
	}

	prev := stored
	b.Version++
	r.bookings[b.ID] = cloneBooking(b)

	recordUndo(ctx, "booking.update", func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.bookings[prev.ID] = prev
	})
	return nil
}

// ListByGuest 按创建时间倒序分页
func (r *BookingRepository) ListByGuest(ctx context.Context, guestID uint, page, pageSize int) ([]*booking.Booking, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*booking.Booking
	for _, b := range r.bookings {
		if b.GuestID == guestID {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	offset := (page - 1) * pageSize
	if offset < 0 || offset >= len(all) {
		return []*booking.Booking{}, total, nil
	}
	end := min(offset+pageSize, len(all))

	list := make([]*booking.Booking, 0, end-offset)
	for _, b := range all[offset:end] {
		list = append(list, cloneBooking(b))
	}
	return list, total, nil
}

// ListActiveByRoomInRange 与[from, to)有交集、包含该房型且未取消的预订
func (r *BookingRepository) ListActiveByRoomInRange(ctx context.Context, roomID uint, from, to time.Time) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*booking.Booking
	for _, b := range r.bookings {
		if b.Status == booking.StatusCancelled {
			continue
		}
		if !b.CheckIn.Before(to) || !b.CheckOut.After(from) {
			continue
		}
		if b.QuantityOf(roomID) == 0 {
			continue
		}
		list = append(list, cloneBooking(b))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
