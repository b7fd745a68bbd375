package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/room"
)

func date(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func stay(roomID uint, qty int, in, out time.Time, status booking.Status) *booking.Booking {
	return &booking.Booking{
		Lines:    []booking.Line{{RoomID: roomID, Quantity: qty}},
		CheckIn:  in,
		CheckOut: out,
		Status:   status,
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, DemandHigh, Classify(8, 10))
	assert.Equal(t, DemandMedium, Classify(7, 10))
	assert.Equal(t, DemandMedium, Classify(4, 10))
	assert.Equal(t, DemandLow, Classify(3, 10))
	assert.Equal(t, DemandLow, Classify(0, 0))
	assert.Equal(t, DemandHigh, Classify(12, 10))
}

func TestParseMonth(t *testing.T) {
	first, err := ParseMonth("2026-01")
	require.NoError(t, err)
	assert.Equal(t, date(1), first)

	_, err = ParseMonth("2026/01")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestGenerate(t *testing.T) {
	rm := &room.Room{ID: 7, TotalRooms: 10, BasePrice: 100000, WeekendSurcharge: 20000}

	bookings := []*booking.Booking{
		// 2026-01-03是周六
		stay(7, 8, date(3), date(4), booking.StatusConfirmed),
		stay(7, 4, date(5), date(6), booking.StatusPending),
		stay(7, 10, date(10), date(12), booking.StatusCancelled),
	}

	cal := Generate(rm, date(1), bookings)
	require.Len(t, cal.Days, 31)
	assert.Equal(t, "2026-01", cal.Month)

	t.Run("周六8间已订为高需求", func(t *testing.T) {
		sat := cal.Days[2]
		assert.Equal(t, date(3), sat.Date)
		assert.Equal(t, 8, sat.BookedUnits)
		assert.Equal(t, 2, sat.AvailableUnits)
		assert.InDelta(t, 0.8, sat.OccupancyRate, 1e-9)
		assert.Equal(t, DemandHigh, sat.Demand)
		assert.True(t, sat.IsWeekend)
		assert.Equal(t, int64(144000), sat.Price)
	})

	t.Run("中等需求", func(t *testing.T) {
		mon := cal.Days[4]
		assert.Equal(t, DemandMedium, mon.Demand)
		assert.Equal(t, int64(105000), mon.Price)
	})

	t.Run("周五低需求只加周末价", func(t *testing.T) {
		fri := cal.Days[1]
		assert.Equal(t, DemandLow, fri.Demand)
		assert.Equal(t, int64(120000), fri.Price)
	})

	t.Run("已取消预订不占房", func(t *testing.T) {
		assert.Equal(t, 0, cal.Days[9].BookedUnits)
		assert.Equal(t, 10, cal.Days[9].AvailableUnits)
	})

	t.Run("离店日不计入", func(t *testing.T) {
		assert.Equal(t, 0, cal.Days[3].BookedUnits)
	})

	t.Run("最高最低价", func(t *testing.T) {
		assert.Equal(t, int64(100000), cal.MinPrice.Price)
		assert.Equal(t, date(1), cal.MinPrice.Date)
		assert.Equal(t, int64(144000), cal.MaxPrice.Price)
		assert.Equal(t, int64(44000), cal.Spread)
	})
}

func TestGenerate_OtherRoomLinesIgnored(t *testing.T) {
	rm := &room.Room{ID: 1, TotalRooms: 2, BasePrice: 1000}
	b := &booking.Booking{
		Lines: []booking.Line{
			{RoomID: 1, Quantity: 1},
			{RoomID: 2, Quantity: 5},
		},
		CheckIn:  date(1),
		CheckOut: date(2),
		Status:   booking.StatusConfirmed,
	}

	cal := Generate(rm, date(1), []*booking.Booking{b})
	assert.Equal(t, 1, cal.Days[0].BookedUnits)
	assert.Equal(t, DemandMedium, cal.Days[0].Demand)
}
