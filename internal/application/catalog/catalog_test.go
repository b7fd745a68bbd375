package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/application/catalog"
	"github.com/xiebiao/lodging/internal/domain/hotel"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/domain/room"
	"github.com/xiebiao/lodging/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

var (
	host     = member.Actor{MemberID: 1, Role: member.RoleHost}
	otherOne = member.Actor{MemberID: 2, Role: member.RoleHost}
	guest    = member.Actor{MemberID: 3, Role: member.RoleGuest}
	admin    = member.Actor{MemberID: 4, Role: member.RoleAdmin}
)

func TestCreateHotel(t *testing.T) {
	ctx := context.Background()
	hotels := memory.NewHotelRepository()
	uc := catalog.NewCreateHotelUseCase(hotels, zap.NewNop())

	t.Run("住客不能创建酒店", func(t *testing.T) {
		_, err := uc.Execute(ctx, catalog.CreateHotelRequest{Actor: guest, Name: "海景酒店", City: "厦门"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("名称必填", func(t *testing.T) {
		_, err := uc.Execute(ctx, catalog.CreateHotelRequest{Actor: host, Name: "  ", City: "厦门"})
		assert.ErrorIs(t, err, hotel.ErrInvalidHotel)
	})

	t.Run("经营者为当前会员", func(t *testing.T) {
		resp, err := uc.Execute(ctx, catalog.CreateHotelRequest{Actor: host, Name: "海景酒店", City: "厦门"})
		require.NoError(t, err)
		assert.Equal(t, host.MemberID, resp.OwnerID)

		list, err := catalog.NewListMyHotelsUseCase(hotels).Execute(ctx, host.MemberID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, resp.ID, list[0].ID)
	})
}

func TestRoomUseCase(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	hotels := memory.NewHotelRepository()
	rooms := memory.NewRoomRepository()

	h := hotel.NewHotel(host.MemberID, "海景酒店", "厦门", "")
	require.NoError(t, hotels.Create(ctx, h))

	uc := catalog.NewRoomUseCase(hotels, rooms, zap.NewNop()).WithClock(func() time.Time { return now })

	publish := func(actor member.Actor, total int) (*catalog.RoomResponse, error) {
		return uc.Publish(ctx, catalog.PublishRoomRequest{
			Actor: actor, HotelID: h.ID, RoomType: "豪华大床房",
			BasePrice: 100000, WeekendSurcharge: 20000, TotalRooms: total,
		})
	}

	t.Run("非经营者不能发布", func(t *testing.T) {
		_, err := publish(otherOne, 10)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("总房量至少为1", func(t *testing.T) {
		_, err := publish(host, 0)
		assert.ErrorIs(t, err, room.ErrInvalidRoom)
	})

	rm, err := publish(host, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, rm.AvailableRooms)

	t.Run("开启特价", func(t *testing.T) {
		resp, err := uc.ActivateDeal(ctx, catalog.DealRequest{
			Actor: host, RoomID: rm.ID, DiscountPercent: 25, ValidUntil: now.Add(2 * time.Hour),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Deal)
		assert.Equal(t, int64(75000), resp.Deal.DealPrice)
	})

	t.Run("折扣超出范围", func(t *testing.T) {
		_, err := uc.ActivateDeal(ctx, catalog.DealRequest{
			Actor: admin, RoomID: rm.ID, DiscountPercent: 95, ValidUntil: now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, room.ErrInvalidDeal)
	})

	t.Run("关闭特价", func(t *testing.T) {
		resp, err := uc.DeactivateDeal(ctx, host, rm.ID)
		require.NoError(t, err)
		assert.False(t, resp.Deal.Active)
	})

	t.Run("下架", func(t *testing.T) {
		_, err := uc.Deactivate(ctx, guest, rm.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		resp, err := uc.Deactivate(ctx, admin, rm.ID)
		require.NoError(t, err)
		assert.Equal(t, "INACTIVE", resp.Status)
		assert.Equal(t, 10, resp.AvailableRooms)
	})

	t.Run("按酒店列出", func(t *testing.T) {
		list, err := uc.ListByHotel(ctx, h.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		_, err = uc.ListByHotel(ctx, 999)
		assert.ErrorIs(t, err, hotel.ErrHotelNotFound)
	})
}

func TestDealExpiryTask(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rooms := memory.NewRoomRepository()

	expiring, _ := room.NewRoom(1, "标准间", 100000, 0, 5)
	require.NoError(t, expiring.ActivateDeal(10, now.Add(time.Hour), now))
	require.NoError(t, rooms.Create(ctx, expiring))

	lasting, _ := room.NewRoom(1, "套房", 200000, 0, 2)
	require.NoError(t, lasting.ActivateDeal(10, now.Add(3*time.Hour), now))
	require.NoError(t, rooms.Create(ctx, lasting))

	task := catalog.NewDealExpiryTask(rooms, time.Minute, zap.NewNop()).
		WithClock(func() time.Time { return now.Add(2 * time.Hour) })

	n, err := task.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := rooms.FindByID(ctx, expiring.ID)
	assert.False(t, got.Deal.Active)
	got, _ = rooms.FindByID(ctx, lasting.ID)
	assert.True(t, got.Deal.Active)

	n, err = task.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	t.Run("ctx取消后Run返回", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			task.Run(ctx)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Run未退出")
		}
	})
}

// interleavedRooms 在列出过期特价之后、关闭之前插入一次房东操作
type interleavedRooms struct {
	*memory.RoomRepository
	afterList func()
}

func (r *interleavedRooms) ListWithExpiredDeals(ctx context.Context, now time.Time) ([]*room.Room, error) {
	list, err := r.RoomRepository.ListWithExpiredDeals(ctx, now)
	if r.afterList != nil {
		r.afterList()
	}
	return list, err
}

func TestDealExpiryTask_ConcurrentHostChange(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(2 * time.Hour)

	setup := func(t *testing.T) (*interleavedRooms, *room.Room) {
		rooms := &interleavedRooms{RoomRepository: memory.NewRoomRepository()}
		rm, _ := room.NewRoom(1, "标准间", 100000, 0, 5)
		require.NoError(t, rm.ActivateDeal(10, now.Add(time.Hour), now))
		require.NoError(t, rooms.Create(ctx, rm))
		return rooms, rm
	}

	t.Run("期间下架的房型保持下架", func(t *testing.T) {
		rooms, rm := setup(t)
		rooms.afterList = func() {
			cur, _ := rooms.FindByID(ctx, rm.ID)
			cur.Deactivate(later)
			require.NoError(t, rooms.Update(ctx, cur))
		}

		task := catalog.NewDealExpiryTask(rooms, time.Minute, zap.NewNop()).
			WithClock(func() time.Time { return later })
		_, err := task.Sweep(ctx)
		require.NoError(t, err)

		got, _ := rooms.FindByID(ctx, rm.ID)
		assert.Equal(t, room.StatusInactive, got.Status)
		assert.False(t, got.IsSellable())
		assert.False(t, got.Deal.Active)
	})

	t.Run("期间换上的新特价不被关闭", func(t *testing.T) {
		rooms, rm := setup(t)
		rooms.afterList = func() {
			cur, _ := rooms.FindByID(ctx, rm.ID)
			require.NoError(t, cur.ActivateDeal(20, later.Add(24*time.Hour), later))
			require.NoError(t, rooms.Update(ctx, cur))
		}

		task := catalog.NewDealExpiryTask(rooms, time.Minute, zap.NewNop()).
			WithClock(func() time.Time { return later })
		n, err := task.Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		got, _ := rooms.FindByID(ctx, rm.ID)
		require.NotNil(t, got.Deal)
		assert.True(t, got.Deal.Active)
		assert.Equal(t, 20, got.Deal.DiscountPercent)
		assert.Equal(t, room.StatusActive, got.Status)
	})
}
