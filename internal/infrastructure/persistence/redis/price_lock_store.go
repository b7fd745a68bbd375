package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/lodging/internal/domain/pricing"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

// PriceLockStore 锁价存储（Redis）
// 设计说明：
// 1. Key设计：pricelock:{user_id}:{room_id}保存锁价，pricelock:id:{lock_id}按ID索引
// 2. 创建用Lua脚本，"检查是否已有未过期锁价"和"写入"在Redis内原子完成
// 3. Key的TTL只负责清理，是否过期以expires_at与调用方传入的now比较为准
type PriceLockStore struct {
	client *redis.Client
}

// NewPriceLockStore 创建锁价存储
func NewPriceLockStore(client *redis.Client) *PriceLockStore {
	return &PriceLockStore{client: client}
}

const idKeyPrefix = "pricelock:id:"

func pairKey(userID, roomID uint) string {
	return fmt.Sprintf("pricelock:%d:%d", userID, roomID)
}

func idKey(id string) string {
	return idKeyPrefix + id
}

// createLockScript 原子创建锁价
// KEYS[1]: pricelock:{user}:{room}  KEYS[2]: pricelock:id:{id}
// ARGV[1]: 锁价JSON  ARGV[2]: 当前时间(ms)  ARGV[3]: TTL(ms)  ARGV[4]: ID索引前缀
// 返回：1创建成功，0已有未过期锁价
var createLockScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	local old = cjson.decode(cur)
	if tonumber(old.expires_at) > tonumber(ARGV[2]) then
		return 0
	end
	redis.call('DEL', ARGV[4] .. old.id)
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[3])
return 1
`)

// deleteLockScript 只删除ID一致的锁价，避免误删同一(会员, 房型)上新建的锁价
var deleteLockScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	local old = cjson.decode(cur)
	if old.id == ARGV[1] then
		redis.call('DEL', KEYS[1])
	end
end
redis.call('DEL', KEYS[2])
return 1
`)

// lockRecord 锁价的存储格式，时间以毫秒保存便于脚本比较
type lockRecord struct {
	ID          string `json:"id"`
	UserID      uint   `json:"user_id"`
	RoomID      uint   `json:"room_id"`
	LockedPrice int64  `json:"locked_price"`
	ExpiresAt   int64  `json:"expires_at"`
	CreatedAt   int64  `json:"created_at"`
}

func toRecord(l *pricing.PriceLock) lockRecord {
	return lockRecord{
		ID:          l.ID,
		UserID:      l.UserID,
		RoomID:      l.RoomID,
		LockedPrice: l.LockedPrice,
		ExpiresAt:   l.ExpiresAt.UnixMilli(),
		CreatedAt:   l.CreatedAt.UnixMilli(),
	}
}

func (r lockRecord) toLock() *pricing.PriceLock {
	return &pricing.PriceLock{
		ID:          r.ID,
		UserID:      r.UserID,
		RoomID:      r.RoomID,
		LockedPrice: r.LockedPrice,
		ExpiresAt:   time.UnixMilli(r.ExpiresAt).UTC(),
		CreatedAt:   time.UnixMilli(r.CreatedAt).UTC(),
	}
}

// Create 保存锁价，同一(会员, 房型)已有未过期锁价时返回ErrDuplicateLock
func (s *PriceLockStore) Create(ctx context.Context, lock *pricing.PriceLock, now time.Time) error {
	ttl := lock.ExpiresAt.Sub(now)
	if ttl < time.Millisecond {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "锁价有效期必须晚于当前时间")
	}

	payload, err := json.Marshal(toRecord(lock))
	if err != nil {
		return apperrors.Wrap(err, "序列化锁价失败")
	}

	created, err := createLockScript.Run(ctx, s.client,
		[]string{pairKey(lock.UserID, lock.RoomID), idKey(lock.ID)},
		string(payload), now.UnixMilli(), ttl.Milliseconds(), idKeyPrefix,
	).Int()
	if err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	if created == 0 {
		return pricing.ErrDuplicateLock
	}
	return nil
}

// FindActive 查找未过期锁价
func (s *PriceLockStore) FindActive(ctx context.Context, userID, roomID uint, now time.Time) (*pricing.PriceLock, error) {
	return s.get(ctx, pairKey(userID, roomID), now)
}

// FindByID 根据ID查找未过期锁价
func (s *PriceLockStore) FindByID(ctx context.Context, id string, now time.Time) (*pricing.PriceLock, error) {
	return s.get(ctx, idKey(id), now)
}

func (s *PriceLockStore) get(ctx context.Context, key string, now time.Time) (*pricing.PriceLock, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pricing.ErrLockNotFound
		}
		return nil, apperrors.ErrRedisError.WithErr(err)
	}

	var rec lockRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, apperrors.Wrap(err, "解析锁价失败")
	}

	lock := rec.toLock()
	if lock.IsExpired(now) {
		return nil, pricing.ErrLockNotFound
	}
	return lock, nil
}

// Delete 删除锁价
func (s *PriceLockStore) Delete(ctx context.Context, lock *pricing.PriceLock) error {
	err := deleteLockScript.Run(ctx, s.client,
		[]string{pairKey(lock.UserID, lock.RoomID), idKey(lock.ID)},
		lock.ID,
	).Err()
	if err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}
