package pricing_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apppricing "github.com/xiebiao/lodging/internal/application/pricing"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/domain/pricing"
	"github.com/xiebiao/lodging/internal/domain/room"
	"github.com/xiebiao/lodging/internal/infrastructure/persistence/memory"
)

type fixture struct {
	ctx     context.Context
	now     time.Time
	rooms   *memory.RoomRepository
	members *memory.MemberRepository
	locks   *memory.PriceLockStore
	guest   *member.Member
	room    *room.Room
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:     context.Background(),
		now:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		rooms:   memory.NewRoomRepository(),
		members: memory.NewMemberRepository(),
		locks:   memory.NewPriceLockStore(),
	}
	f.guest = member.NewMember("guest@example.com", "hashed", "guest", member.RoleGuest)
	require.NoError(t, f.members.Create(f.ctx, f.guest))

	rm, err := room.NewRoom(1, "标准间", 100000, 20000, 10)
	require.NoError(t, err)
	require.NoError(t, f.rooms.Create(f.ctx, rm))
	f.room = rm
	return f
}

func (f *fixture) lockUseCase() *apppricing.LockPriceUseCase {
	return apppricing.NewLockPriceUseCase(f.rooms, f.members, f.locks, pricing.DefaultLockTTL, zap.NewNop()).
		WithClock(func() time.Time { return f.now })
}

func (f *fixture) lock(price int64) (*apppricing.PriceLockResponse, error) {
	return f.lockUseCase().Execute(f.ctx, apppricing.LockPriceRequest{
		MemberID: f.guest.ID, RoomID: f.room.ID, SubmittedPrice: price,
	})
}

func TestLockPrice(t *testing.T) {
	f := newFixture(t)

	t.Run("提交价格与基础价不一致", func(t *testing.T) {
		_, err := f.lock(90000)
		assert.ErrorIs(t, err, pricing.ErrStalePrice)
	})

	t.Run("锁定30分钟", func(t *testing.T) {
		resp, err := f.lock(100000)
		require.NoError(t, err)
		assert.Equal(t, int64(100000), resp.LockedPrice)
		assert.True(t, f.now.Add(30*time.Minute).Equal(resp.ExpiresAt))
	})

	t.Run("未过期时重复锁价", func(t *testing.T) {
		f.now = f.now.Add(29 * time.Minute)
		_, err := f.lock(100000)
		assert.ErrorIs(t, err, pricing.ErrDuplicateLock)
	})

	t.Run("过期后可以重新锁价", func(t *testing.T) {
		f.now = f.now.Add(time.Minute)
		_, err := f.lock(100000)
		require.NoError(t, err)
	})

	t.Run("房型不存在", func(t *testing.T) {
		_, err := f.lockUseCase().Execute(f.ctx, apppricing.LockPriceRequest{MemberID: f.guest.ID, RoomID: 999, SubmittedPrice: 1})
		assert.ErrorIs(t, err, room.ErrRoomNotFound)
	})

	t.Run("下架房型不能锁价", func(t *testing.T) {
		rm, _ := f.rooms.FindByID(f.ctx, f.room.ID)
		rm.Deactivate(f.now)
		require.NoError(t, f.rooms.Update(f.ctx, rm))

		_, err := f.lock(100000)
		assert.ErrorIs(t, err, room.ErrRoomUnavailable)
	})
}

func TestLockPrice_Concurrent(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.lock(100000); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
}

func TestLockPrice_SuspendedMember(t *testing.T) {
	f := newFixture(t)
	f.guest.Suspend()
	require.NoError(t, f.members.Update(f.ctx, f.guest))

	_, err := f.lock(100000)
	assert.ErrorIs(t, err, member.ErrMemberSuspended)
}

func TestCancelLock(t *testing.T) {
	f := newFixture(t)
	resp, err := f.lock(100000)
	require.NoError(t, err)

	uc := apppricing.NewCancelLockUseCase(f.locks, zap.NewNop()).WithClock(func() time.Time { return f.now })

	t.Run("只有持有人可以取消", func(t *testing.T) {
		err := uc.Execute(f.ctx, f.guest.ID+1, resp.ID)
		assert.ErrorIs(t, err, pricing.ErrNotLockOwner)
	})

	t.Run("持有人取消", func(t *testing.T) {
		require.NoError(t, uc.Execute(f.ctx, f.guest.ID, resp.ID))

		err := uc.Execute(f.ctx, f.guest.ID, resp.ID)
		assert.ErrorIs(t, err, pricing.ErrLockNotFound)
	})

	t.Run("取消后可以重新锁价", func(t *testing.T) {
		_, err := f.lock(100000)
		require.NoError(t, err)
	})
}

func TestGetEffectivePrice(t *testing.T) {
	f := newFixture(t)
	resolver := pricing.NewResolver(f.rooms, f.locks).WithClock(func() time.Time { return f.now })
	uc := apppricing.NewGetEffectivePriceUseCase(resolver)

	resp, err := uc.Execute(f.ctx, f.guest.ID, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, "BASE", resp.Source)
	assert.Equal(t, int64(100000), resp.Price)

	lock, err := f.lock(100000)
	require.NoError(t, err)

	resp, err = uc.Execute(f.ctx, f.guest.ID, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, "LOCK", resp.Source)
	assert.Equal(t, lock.ID, resp.LockID)
}
