package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	appmember "github.com/xiebiao/lodging/internal/application/member"
	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/hotel"
	"github.com/xiebiao/lodging/internal/domain/pricing"
	"github.com/xiebiao/lodging/internal/domain/room"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
	"github.com/xiebiao/lodging/pkg/metrics"
	"github.com/xiebiao/lodging/pkg/tracing"
)

// maxCodeAttempts 预订号冲突时最多生成几次
const maxCodeAttempts = 3

// CreateBookingUseCase 创建预订用例
//
// 流程：
//  1. 校验会员、酒店、房型归属
//  2. 计算晚数，至少1晚
//  3. 逐行校验：可售、数量不超过可售房量、单价等于有效价格
//  4. 计算费用明细
//  5. 同一事务内：逐行扣减可售房量（条件更新），写入预订
//  6. 提交后：消费锁价、发布事件
//
// 扣减在写入预订之前，房量不足时预订不会落库。
// 第3步的房量检查只是快速失败，最终以第5步的条件更新为准。
type CreateBookingUseCase struct {
	deps  Deps
	fees  booking.FeeSchedule
	retry RetryPolicy
	now   func() time.Time
}

// NewCreateBookingUseCase 创建用例
func NewCreateBookingUseCase(deps Deps, fees booking.FeeSchedule, retry RetryPolicy) *CreateBookingUseCase {
	return &CreateBookingUseCase{deps: deps, fees: fees, retry: retry, now: time.Now}
}

// WithClock 替换时钟
func (uc *CreateBookingUseCase) WithClock(now func() time.Time) *CreateBookingUseCase {
	uc.now = now
	return uc
}

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	GuestID         uint // 从Token中提取
	HotelID         uint
	CheckIn         time.Time
	CheckOut        time.Time
	Lines           []LineRequest
	EarlyCheckIn    bool
	LateCheckOut    bool
	SpecialRequests string
}

// LineRequest 预订明细请求
// PricePerNight是客户端看到的有效价格，锁价或特价也要按该价格提交
type LineRequest struct {
	RoomID        uint
	Quantity      int
	PricePerNight int64
}

// pricedLine 通过校验的一行
type pricedLine struct {
	room  *room.Room
	req   LineRequest
	price *pricing.EffectivePrice
}

// Execute 执行创建
func (uc *CreateBookingUseCase) Execute(ctx context.Context, req CreateBookingRequest) (resp *BookingResponse, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateBooking",
		attribute.Int64("guest.id", int64(req.GuestID)),
		attribute.Int64("hotel.id", int64(req.HotelID)),
		attribute.Int("lines", len(req.Lines)),
	)
	defer func() {
		if err != nil {
			metrics.BookingFailed(failureReason(err))
		}
		tracing.EndSpan(span, err)
	}()

	if _, err := appmember.ActiveMember(ctx, uc.deps.Members, req.GuestID); err != nil {
		return nil, err
	}
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}

	// 1. 酒店与房型
	h, err := uc.deps.Hotels.FindByID(ctx, req.HotelID)
	if err != nil {
		return nil, err
	}
	rooms, err := uc.loadRooms(ctx, h, req.Lines)
	if err != nil {
		return nil, err
	}

	// 2. 晚数
	nights := booking.CountNights(req.CheckIn, req.CheckOut)
	if nights < 1 {
		return nil, booking.ErrInvalidDateRange
	}

	// 3. 逐行校验
	lines, err := uc.checkLines(ctx, req.GuestID, h, rooms, req.Lines)
	if err != nil {
		return nil, err
	}

	// 4. 费用
	priced := make([]booking.PricedLine, len(lines))
	entityLines := make([]booking.Line, len(lines))
	for i, l := range lines {
		priced[i] = booking.PricedLine{
			Quantity:         l.req.Quantity,
			PricePerNight:    l.price.Price,
			WeekendSurcharge: l.room.WeekendSurcharge,
		}
		entityLines[i] = booking.Line{
			RoomID:        l.room.ID,
			RoomType:      l.room.RoomType,
			Quantity:      l.req.Quantity,
			PricePerNight: l.price.Price,
			PriceSource:   string(l.price.Source),
		}
	}
	cost := booking.CalculateCost(priced, req.CheckIn, nights, uc.fees, booking.CostOptions{
		EarlyCheckIn: req.EarlyCheckIn,
		LateCheckOut: req.LateCheckOut,
	})

	// 5. 扣减房量并写入，冲突时整体重试
	now := uc.now()
	var created *booking.Booking
	err = uc.retry.run(ctx, func() error {
		b := booking.NewBooking(req.GuestID, h.ID, cloneLines(entityLines), req.CheckIn, req.CheckOut, cost, now)
		b.EarlyCheckIn = req.EarlyCheckIn
		b.LateCheckOut = req.LateCheckOut
		b.SpecialRequests = req.SpecialRequests

		if err := uc.deps.Tx.Transaction(ctx, func(txCtx context.Context) error {
			return uc.persist(txCtx, b, now)
		}); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		switch {
		case isConflict(err):
			uc.deps.logger().Warn("booking retries exhausted",
				zap.Uint("guest_id", req.GuestID),
				zap.Uint("hotel_id", req.HotelID),
				zap.Error(err),
			)
			return nil, booking.ErrInsufficientCapacity.WithErr(err)
		case errors.Is(err, room.ErrCapacity):
			return nil, booking.ErrInsufficientCapacity
		}
		return nil, err
	}

	// 6. 提交后的收尾，失败不影响预订
	uc.consumeLocks(ctx, req.GuestID, lines)
	uc.deps.Events.Publish(ctx, booking.NewEvent(booking.EventCreated, created, "", now))

	metrics.BookingCreated(time.Since(start))
	uc.deps.logger().Info("booking created",
		zap.Uint("booking_id", created.ID),
		zap.String("booking_code", created.BookingCode),
		zap.Uint("guest_id", created.GuestID),
		zap.Int("rooms", created.TotalRooms()),
		zap.Int64("total_price", created.Cost.TotalPrice),
	)
	return ToResponse(created), nil
}

func validateLines(lines []LineRequest) error {
	if len(lines) == 0 {
		return booking.ErrInvalidLines
	}
	seen := make(map[uint]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return booking.ErrInvalidLines
		}
		// 同一房型只能出现一行
		if _, ok := seen[l.RoomID]; ok {
			return booking.ErrInvalidLines
		}
		seen[l.RoomID] = struct{}{}
	}
	return nil
}

func (uc *CreateBookingUseCase) loadRooms(ctx context.Context, h *hotel.Hotel, lines []LineRequest) ([]*room.Room, error) {
	rooms := make([]*room.Room, len(lines))
	for i, l := range lines {
		rm, err := uc.deps.Rooms.FindByID(ctx, l.RoomID)
		if err != nil {
			return nil, err
		}
		if rm.HotelID != h.ID {
			return nil, booking.ErrRoomMismatch
		}
		rooms[i] = rm
	}
	return rooms, nil
}

func (uc *CreateBookingUseCase) checkLines(ctx context.Context, guestID uint, h *hotel.Hotel, rooms []*room.Room, reqs []LineRequest) ([]pricedLine, error) {
	lines := make([]pricedLine, len(reqs))
	for i, l := range reqs {
		rm := rooms[i]
		if !h.IsActive() || !rm.IsSellable() {
			return nil, room.ErrRoomUnavailable
		}
		if l.Quantity > rm.AvailableRooms {
			return nil, booking.ErrInsufficientCapacity
		}

		p, err := uc.deps.Resolver.Resolve(ctx, guestID, rm)
		if err != nil {
			return nil, err
		}
		if l.PricePerNight != p.Price {
			uc.deps.logger().Info("booking price mismatch",
				zap.Uint("room_id", rm.ID),
				zap.Int64("submitted", l.PricePerNight),
				zap.Int64("effective", p.Price),
				zap.String("source", string(p.Source)),
			)
			return nil, booking.ErrPriceMismatch
		}
		lines[i] = pricedLine{room: rm, req: l, price: p}
	}
	return lines, nil
}

// persist 在事务内扣减房量并写入预订
func (uc *CreateBookingUseCase) persist(ctx context.Context, b *booking.Booking, now time.Time) error {
	for _, l := range linesInLockOrder(b.Lines) {
		if err := uc.deps.Ledger.Adjust(ctx, l.RoomID, -l.Quantity, "booking.create"); err != nil {
			return err
		}
	}

	var err error
	for i := 0; i < maxCodeAttempts; i++ {
		b.BookingCode = booking.GenerateCode(now)
		err = uc.deps.Bookings.Create(ctx, b)
		if !errors.Is(err, booking.ErrDuplicateCode) {
			return err
		}
	}
	return err
}

// consumeLocks 删除本次预订用到的锁价
func (uc *CreateBookingUseCase) consumeLocks(ctx context.Context, guestID uint, lines []pricedLine) {
	for _, l := range lines {
		if l.price.Source != pricing.SourceLock {
			continue
		}
		lock := &pricing.PriceLock{ID: l.price.LockID, UserID: guestID, RoomID: l.room.ID}
		if err := uc.deps.Locks.Delete(ctx, lock); err != nil {
			uc.deps.logger().Warn("consume price lock failed",
				zap.String("lock_id", lock.ID),
				zap.Error(err),
			)
		}
	}
}

func cloneLines(lines []booking.Line) []booking.Line {
	return append([]booking.Line(nil), lines...)
}

// failureReason 失败原因标签，使用错误码
func failureReason(err error) string {
	return strconv.Itoa(apperrors.GetAppError(err).Code)
}
