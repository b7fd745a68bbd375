// Package calendar 房型月度价格日历
//
// 日历是只读投影：由房型的总房量、基础价和覆盖当天的有效预订推算每天的
// 入住率、需求档位和参考价格，不修改任何状态。
package calendar

import (
	"fmt"
	"time"

	"github.com/xiebiao/lodging/internal/domain/booking"
	"github.com/xiebiao/lodging/internal/domain/money"
	"github.com/xiebiao/lodging/internal/domain/room"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

// MonthLayout 月份格式
const MonthLayout = "2006-01"

// ErrInvalidMonth 月份格式非法
var ErrInvalidMonth = apperrors.New(apperrors.ErrCodeInvalidParams, "月份格式应为YYYY-MM")

// Demand 需求档位
type Demand string

const (
	DemandLow    Demand = "LOW"
	DemandMedium Demand = "MEDIUM"
	DemandHigh   Demand = "HIGH"
)

// Classify 按已订/总房量划分档位：>=0.8为HIGH，>=0.4为MEDIUM
func Classify(booked, total int) Demand {
	if total <= 0 {
		return DemandLow
	}
	// 整数比较，避免0.8这类浮点边界误差
	switch {
	case booked*10 >= total*8:
		return DemandHigh
	case booked*10 >= total*4:
		return DemandMedium
	default:
		return DemandLow
	}
}

// multiplier 档位对应的价格系数（分子/分母）
func (d Demand) multiplier() (int64, int64) {
	switch d {
	case DemandHigh:
		return 120, 100
	case DemandMedium:
		return 105, 100
	default:
		return 1, 1
	}
}

// Day 日历中的一天
type Day struct {
	Date           time.Time
	BookedUnits    int
	AvailableUnits int
	OccupancyRate  float64
	Demand         Demand
	IsWeekend      bool
	Price          int64
}

// Calendar 一个房型一个月的价格日历
type Calendar struct {
	RoomID   uint
	Month    string
	Days     []Day
	MinPrice Day
	MaxPrice Day
	Spread   int64 // 最高价 - 最低价
}

// ParseMonth 解析YYYY-MM，返回该月1日（UTC）
func ParseMonth(month string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, month, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// MonthRange 返回[该月1日, 下月1日)
func MonthRange(first time.Time) (time.Time, time.Time) {
	return first, first.AddDate(0, 1, 0)
}

// Generate 生成日历
// bookings应为与该月有交集的有效预订，已取消的预订在这里也会被忽略
func Generate(rm *room.Room, first time.Time, bookings []*booking.Booking) *Calendar {
	from, to := MonthRange(first)

	cal := &Calendar{
		RoomID: rm.ID,
		Month:  first.Format(MonthLayout),
	}

	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		booked := 0
		for _, b := range bookings {
			if b.Status == booking.StatusCancelled || !b.Covers(d) {
				continue
			}
			booked += b.QuantityOf(rm.ID)
		}

		day := Day{
			Date:           d,
			BookedUnits:    booked,
			AvailableUnits: max(0, rm.TotalRooms-booked),
			Demand:         Classify(booked, rm.TotalRooms),
			IsWeekend:      booking.IsWeekendNight(d),
		}
		if rm.TotalRooms > 0 {
			day.OccupancyRate = float64(booked) / float64(rm.TotalRooms)
		}

		price := rm.BasePrice
		if day.IsWeekend {
			price += rm.WeekendSurcharge
		}
		num, den := day.Demand.multiplier()
		day.Price = money.Ratio(price, num, den)

		cal.Days = append(cal.Days, day)
	}

	if len(cal.Days) > 0 {
		cal.MinPrice, cal.MaxPrice = cal.Days[0], cal.Days[0]
		for _, d := range cal.Days[1:] {
			if d.Price < cal.MinPrice.Price {
				cal.MinPrice = d
			}
			if d.Price > cal.MaxPrice.Price {
				cal.MaxPrice = d
			}
		}
		cal.Spread = cal.MaxPrice.Price - cal.MinPrice.Price
	}
	return cal
}

// String 便于日志输出
func (d Day) String() string {
	return fmt.Sprintf("%s %s %s", d.Date.Format("2006-01-02"), d.Demand, money.Format(d.Price))
}
