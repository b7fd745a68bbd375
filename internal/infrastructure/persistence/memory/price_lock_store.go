package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/lodging/internal/domain/pricing"
)

type lockKey struct {
	userID uint
	roomID uint
}

// PriceLockStore 锁价存储内存实现
// 过期锁价不主动清理，读取时按ExpiresAt判定，创建时覆盖
type PriceLockStore struct {
	mu    sync.Mutex
	locks map[lockKey]pricing.PriceLock
	byID  map[string]lockKey
}

// NewPriceLockStore 创建锁价存储
func NewPriceLockStore() *PriceLockStore {
	return &PriceLockStore{
		locks: make(map[lockKey]pricing.PriceLock),
		byID:  make(map[string]lockKey),
	}
}

// Create 保存锁价，同一(会员, 房型)已有未过期锁价时返回ErrDuplicateLock
func (s *PriceLockStore) Create(ctx context.Context, lock *pricing.PriceLock, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lockKey{userID: lock.UserID, roomID: lock.RoomID}
	if existing, ok := s.locks[key]; ok {
		if !existing.IsExpired(now) {
			return pricing.ErrDuplicateLock
		}
		delete(s.byID, existing.ID)
	}

	s.locks[key] = *lock
	s.byID[lock.ID] = key
	return nil
}

// FindActive 查找未过期锁价
func (s *PriceLockStore) FindActive(ctx context.Context, userID, roomID uint, now time.Time) (*pricing.PriceLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[lockKey{userID: userID, roomID: roomID}]
	if !ok || lock.IsExpired(now) {
		return nil, pricing.ErrLockNotFound
	}
	return &lock, nil
}

// FindByID 根据ID查找未过期锁价
func (s *PriceLockStore) FindByID(ctx context.Context, id string, now time.Time) (*pricing.PriceLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.byID[id]
	if !ok {
		return nil, pricing.ErrLockNotFound
	}
	lock := s.locks[key]
	if lock.IsExpired(now) {
		return nil, pricing.ErrLockNotFound
	}
	return &lock, nil
}

// Delete 删除锁价，只删除ID一致的记录
func (s *PriceLockStore) Delete(ctx context.Context, lock *pricing.PriceLock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lockKey{userID: lock.UserID, roomID: lock.RoomID}
	if existing, ok := s.locks[key]; ok && existing.ID == lock.ID {
		delete(s.locks, key)
	}
	delete(s.byID, lock.ID)
	return nil
}
