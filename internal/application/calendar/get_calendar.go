package calendar

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/calendar"
	"github.com/xiebiao/lodging/internal/domain/room"
	"github.com/xiebiao/lodging/pkg/tracing"
)

// GetPriceCalendarUseCase 房型月度价格日历
// 房型与预订互不依赖，并行加载
type GetPriceCalendarUseCase struct {
	rooms    room.Repository
	bookings booking.Repository
}

// NewGetPriceCalendarUseCase 创建用例
func NewGetPriceCalendarUseCase(rooms room.Repository, bookings booking.Repository) *GetPriceCalendarUseCase {
	return &GetPriceCalendarUseCase{rooms: rooms, bookings: bookings}
}

// DayResponse 日历中的一天
type DayResponse struct {
	Date           string  `json:"date"`
	BookedUnits    int     `json:"booked_units"`
	AvailableUnits int     `json:"available_units"`
	OccupancyRate  float64 `json:"occupancy_rate"`
	Demand         string  `json:"demand"`
	IsWeekend      bool    `json:"is_weekend"`
	Price          int64   `json:"price"`
}

// CalendarResponse 价格日历
type CalendarResponse struct {
	RoomID   uint          `json:"room_id"`
	Month    string        `json:"month"`
	Days     []DayResponse `json:"days"`
	MinPrice DayResponse   `json:"min_price"`
	MaxPrice DayResponse   `json:"max_price"`
	Spread   int64         `json:"spread"`
}

// Execute month格式为YYYY-MM
func (uc *GetPriceCalendarUseCase) Execute(ctx context.Context, roomID uint, month string) (resp *CalendarResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "lodging/calendar", "GetPriceCalendar",
		attribute.Int64("room.id", int64(roomID)),
		attribute.String("month", month),
	)
	defer func() { tracing.EndSpan(span, err) }()

	first, err := calendar.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	from, to := calendar.MonthRange(first)

	var (
		rm       *room.Room
		bookings []*booking.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rm, err = uc.rooms.FindByID(gctx, roomID)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = uc.bookings.ListActiveByRoomInRange(gctx, roomID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return toResponse(calendar.Generate(rm, first, bookings)), nil
}

func toResponse(c *calendar.Calendar) *CalendarResponse {
	days := make([]DayResponse, len(c.Days))
	for i, d := range c.Days {
		days[i] = toDay(d)
	}
	return &CalendarResponse{
		RoomID:   c.RoomID,
		Month:    c.Month,
		Days:     days,
		MinPrice: toDay(c.MinPrice),
		MaxPrice: toDay(c.MaxPrice),
		Spread:   c.Spread,
	}
}

func toDay(d calendar.Day) DayResponse {
	return DayResponse{
		Date:           d.Date.Format(time.DateOnly),
		BookedUnits:    d.BookedUnits,
		AvailableUnits: d.AvailableUnits,
		OccupancyRate:  d.OccupancyRate,
		Demand:         string(d.Demand),
		IsWeekend:      d.IsWeekend,
		Price:          d.Price,
	}
}
