package pricing

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	appmember "github.com/xiebiao/lodging/internal/application/member"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/domain/pricing"
	"github.com/xiebiao/lodging/internal/domain/room"
	"github.com/xiebiao/lodging/pkg/metrics"
	"github.com/xiebiao/lodging/pkg/tracing"
)

const tracerName = "lodging/pricing"

// LockPriceUseCase 锁价用例
// 锁定的是基础价：提交价格与当前基础价不一致时返回ErrStalePrice
type LockPriceUseCase struct {
	rooms   room.Repository
	members member.Repository
	locks   pricing.LockStore
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewLockPriceUseCase 创建锁价用例
func NewLockPriceUseCase(
	rooms room.Repository,
	members member.Repository,
	locks pricing.LockStore,
	ttl time.Duration,
	logger *zap.Logger,
) *LockPriceUseCase {
	return &LockPriceUseCase{
		rooms:   rooms,
		members: members,
		locks:   locks,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock 替换时钟
func (uc *LockPriceUseCase) WithClock(now func() time.Time) *LockPriceUseCase {
	uc.now = now
	return uc
}

// LockPriceRequest 锁价请求
type LockPriceRequest struct {
	MemberID       uint
	RoomID         uint
	SubmittedPrice int64
}

// PriceLockResponse 锁价响应
type PriceLockResponse struct {
	ID          string    `json:"id"`
	RoomID      uint      `json:"room_id"`
	LockedPrice int64     `json:"locked_price"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Execute 执行锁价
func (uc *LockPriceUseCase) Execute(ctx context.Context, req LockPriceRequest) (resp *PriceLockResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "LockPrice",
		attribute.Int64("member.id", int64(req.MemberID)),
		attribute.Int64("room.id", int64(req.RoomID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if _, err := appmember.ActiveMember(ctx, uc.members, req.MemberID); err != nil {
		return nil, err
	}

	rm, err := uc.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsSellable() {
		return nil, room.ErrRoomUnavailable
	}
	if req.SubmittedPrice != rm.BasePrice {
		metrics.PriceLock("stale")
		return nil, pricing.ErrStalePrice
	}

	now := uc.now()
	lock := pricing.NewPriceLock(req.MemberID, rm.ID, rm.BasePrice, uc.ttl, now)
	if err := uc.locks.Create(ctx, lock, now); err != nil {
		if errors.Is(err, pricing.ErrDuplicateLock) {
			metrics.PriceLock("duplicate")
		}
		return nil, err
	}

	metrics.PriceLock("created")
	uc.logger.Info("price locked",
		zap.String("lock_id", lock.ID),
		zap.Uint("member_id", lock.UserID),
		zap.Uint("room_id", lock.RoomID),
		zap.Int64("locked_price", lock.LockedPrice),
		zap.Time("expires_at", lock.ExpiresAt),
	)
	return toLockResponse(lock), nil
}

func toLockResponse(l *pricing.PriceLock) *PriceLockResponse {
	return &PriceLockResponse{
		ID:          l.ID,
		RoomID:      l.RoomID,
		LockedPrice: l.LockedPrice,
		ExpiresAt:   l.ExpiresAt,
	}
}
