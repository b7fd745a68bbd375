package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/pricing"
	"github.com/xiebiao/lodging/internal/domain/room"
)

func newRoom(t *testing.T, repo *RoomRepository, total int) *room.Room {
	t.Helper()
	rm, err := room.NewRoom(1, "大床房", 100000, 20000, total)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), rm))
	return rm
}

func TestRoomRepository_Adjust(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()
	rm := newRoom(t, repo, 5)

	t.Run("扣减与归还", func(t *testing.T) {
		require.NoError(t, repo.Adjust(ctx, rm.ID, -3, "test"))
		require.NoError(t, repo.Adjust(ctx, rm.ID, 1, "test"))

		got, err := repo.FindByID(ctx, rm.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.AvailableRooms)
	})

	t.Run("越界不修改", func(t *testing.T) {
		assert.ErrorIs(t, repo.Adjust(ctx, rm.ID, -4, "test"), room.ErrCapacity)
		assert.ErrorIs(t, repo.Adjust(ctx, rm.ID, 3, "test"), room.ErrCapacity)

		got, _ := repo.FindByID(ctx, rm.ID)
		assert.Equal(t, 3, got.AvailableRooms)
	})

	t.Run("房型不存在", func(t *testing.T) {
		assert.ErrorIs(t, repo.Adjust(ctx, 999, -1, "test"), room.ErrRoomNotFound)
	})
}

func TestRoomRepository_ConcurrentAdjust(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()
	rm := newRoom(t, repo, 10)

	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Adjust(ctx, rm.ID, -1, "race"); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	got, _ := repo.FindByID(ctx, rm.ID)
	assert.Equal(t, int32(10), succeeded.Load())
	assert.Equal(t, 0, got.AvailableRooms)
}

func TestRoomRepository_UpdateKeepsAvailability(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()
	rm := newRoom(t, repo, 5)
	require.NoError(t, repo.Adjust(ctx, rm.ID, -2, "test"))

	stale, _ := repo.FindByID(ctx, rm.ID)
	stale.AvailableRooms = 5
	stale.BasePrice = 120000
	require.NoError(t, repo.Update(ctx, stale))

	got, _ := repo.FindByID(ctx, rm.ID)
	assert.Equal(t, int64(120000), got.BasePrice)
	assert.Equal(t, 3, got.AvailableRooms)
}

func TestTxManager_Rollback(t *testing.T) {
	ctx := context.Background()
	tx := NewTxManager(nil)
	rooms := NewRoomRepository()
	bookings := NewBookingRepository()
	rm := newRoom(t, rooms, 5)

	boom := errors.New("boom")
	err := tx.Transaction(ctx, func(ctx context.Context) error {
		if err := rooms.Adjust(ctx, rm.ID, -2, "booking"); err != nil {
			return err
		}
		b := &booking.Booking{BookingCode: "BK1", GuestID: 1, Status: booking.StatusPending}
		if err := bookings.Create(ctx, b); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, _ := rooms.FindByID(ctx, rm.ID)
	assert.Equal(t, 5, got.AvailableRooms, "回滚后房量恢复")

	_, err = bookings.FindByCode(ctx, "BK1")
	assert.ErrorIs(t, err, booking.ErrBookingNotFound, "回滚后预订不存在")
}

func TestTxManager_Commit(t *testing.T) {
	ctx := context.Background()
	tx := NewTxManager(nil)
	rooms := NewRoomRepository()
	rm := newRoom(t, rooms, 5)

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		return tx.Transaction(ctx, func(ctx context.Context) error {
			return rooms.Adjust(ctx, rm.ID, -1, "nested")
		})
	})
	require.NoError(t, err)

	got, _ := rooms.FindByID(ctx, rm.ID)
	assert.Equal(t, 4, got.AvailableRooms)
}

func TestBookingRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	b := &booking.Booking{BookingCode: "BK1", GuestID: 1, Status: booking.StatusPending,
		Lines: []booking.Line{{RoomID: 1, Quantity: 2}}}
	require.NoError(t, repo.Create(ctx, b))
	assert.NotZero(t, b.Lines[0].ID)
	assert.Equal(t, b.ID, b.Lines[0].BookingID)

	t.Run("预订号重复", func(t *testing.T) {
		dup := &booking.Booking{BookingCode: "BK1"}
		assert.ErrorIs(t, repo.Create(ctx, dup), booking.ErrDuplicateCode)
	})

	t.Run("条件更新", func(t *testing.T) {
		b.Status = booking.StatusConfirmed
		require.NoError(t, repo.Update(ctx, b, booking.StatusPending))

		b.Status = booking.StatusCancelled
		assert.ErrorIs(t, repo.Update(ctx, b, booking.StatusPending), booking.ErrStatusChanged)

		got, _ := repo.FindByID(ctx, b.ID)
		assert.Equal(t, booking.StatusConfirmed, got.Status)
		assert.Equal(t, 1, got.Version)
	})

	t.Run("版本号过期的写入被拒绝", func(t *testing.T) {
		first, _ := repo.FindByID(ctx, b.ID)
		second, _ := repo.FindByID(ctx, b.ID)

		first.PaidAmount = 100
		require.NoError(t, repo.Update(ctx, first, booking.StatusConfirmed))

		second.PaidAmount = 200
		assert.ErrorIs(t, repo.Update(ctx, second, booking.StatusConfirmed), booking.ErrStatusChanged)

		got, _ := repo.FindByID(ctx, b.ID)
		assert.Equal(t, int64(100), got.PaidAmount)
	})
}

func TestBookingRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }

	create := func(code string, guest uint, in, out int, status booking.Status) {
		b := &booking.Booking{BookingCode: code, GuestID: guest, CheckIn: day(in), CheckOut: day(out),
			Status: status, CreatedAt: day(in), Lines: []booking.Line{{RoomID: 7, Quantity: 1}}}
		require.NoError(t, repo.Create(ctx, b))
	}
	create("BK1", 1, 1, 3, booking.StatusConfirmed)
	create("BK2", 1, 5, 6, booking.StatusCancelled)
	create("BK3", 2, 10, 12, booking.StatusPending)

	t.Run("按住客分页", func(t *testing.T) {
		list, total, err := repo.ListByGuest(ctx, 1, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, list, 1)
		assert.Equal(t, "BK2", list[0].BookingCode, "新的在前")

		list, _, _ = repo.ListByGuest(ctx, 1, 3, 1)
		assert.Empty(t, list)
	})

	t.Run("区间内有效预订", func(t *testing.T) {
		list, err := repo.ListActiveByRoomInRange(ctx, 7, day(2), day(11))
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "BK1", list[0].BookingCode)
		assert.Equal(t, "BK3", list[1].BookingCode)

		list, _ = repo.ListActiveByRoomInRange(ctx, 8, day(1), day(31))
		assert.Empty(t, list)
	})
}

func TestPriceLockStore(t *testing.T) {
	ctx := context.Background()
	store := NewPriceLockStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	first := pricing.NewPriceLock(1, 7, 100000, 30*time.Minute, now)
	require.NoError(t, store.Create(ctx, first, now))

	t.Run("未过期时重复锁价失败", func(t *testing.T) {
		second := pricing.NewPriceLock(1, 7, 100000, 30*time.Minute, now.Add(time.Minute))
		assert.ErrorIs(t, store.Create(ctx, second, now.Add(time.Minute)), pricing.ErrDuplicateLock)
	})

	t.Run("过期后可以重新锁价", func(t *testing.T) {
		later := now.Add(30 * time.Minute)
		_, err := store.FindActive(ctx, 1, 7, later)
		assert.ErrorIs(t, err, pricing.ErrLockNotFound)

		again := pricing.NewPriceLock(1, 7, 110000, 30*time.Minute, later)
		require.NoError(t, store.Create(ctx, again, later))

		_, err = store.FindByID(ctx, first.ID, later)
		assert.ErrorIs(t, err, pricing.ErrLockNotFound)

		got, err := store.FindByID(ctx, again.ID, later)
		require.NoError(t, err)
		assert.Equal(t, int64(110000), got.LockedPrice)

		require.NoError(t, store.Delete(ctx, got))
		_, err = store.FindActive(ctx, 1, 7, later)
		assert.ErrorIs(t, err, pricing.ErrLockNotFound)
	})

	t.Run("并发锁价只有一个成功", func(t *testing.T) {
		var wg sync.WaitGroup
		var succeeded atomic.Int32
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l := pricing.NewPriceLock(2, 7, 100000, 30*time.Minute, now)
				if store.Create(ctx, l, now) == nil {
					succeeded.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), succeeded.Load())
	})
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.AddToBlacklist(ctx, "token", time.Hour))
	ok, err := store.IsInBlacklist(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Hour)
	ok, _ = store.IsInBlacklist(ctx, "token")
	assert.False(t, ok)
}
