package booking

import (
	"time"

	"github.com/xiebiao/lodging/internal/domain/money"
)

const day = 24 * time.Hour

// FeeSchedule 费用规则
type FeeSchedule struct {
	TaxPercent        int64 // 税费比例，默认10
	ServiceFeePercent int64 // 服务费比例，默认5
	EarlyCheckInFee   int64 // 提前入住固定费用
	LateCheckOutFee   int64 // 延迟退房固定费用
}

// DefaultFeeSchedule 默认费用规则
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		TaxPercent:        10,
		ServiceFeePercent: 5,
		EarlyCheckInFee:   20000,
		LateCheckOutFee:   20000,
	}
}

// CostBreakdown 费用明细，TotalPrice由其余各项推出
type CostBreakdown struct {
	Subtotal         int64
	WeekendSurcharge int64
	EarlyCheckInFee  int64
	LateCheckOutFee  int64
	Taxes            int64
	ServiceFee       int64
	Discount         int64
	TotalPrice       int64
}

// PricedLine 参与计价的一行
type PricedLine struct {
	Quantity         int
	PricePerNight    int64
	WeekendSurcharge int64 // 房型的周末加价（每间每晚）
}

// CostOptions 计价的附加选项
type CostOptions struct {
	EarlyCheckIn bool
	LateCheckOut bool
	Discount     int64
}

// CountNights 晚数 = ceil((离店 - 入住) / 1天)
func CountNights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return 0
	}
	nights := int(diff / day)
	if diff%day != 0 {
		nights++
	}
	return nights
}

// IsWeekendNight 周五、周六晚属于周末
func IsWeekendNight(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// CountWeekendNights 从入住日起连续nights晚中周末晚的数量
func CountWeekendNights(checkIn time.Time, nights int) int {
	count := 0
	for i := 0; i < nights; i++ {
		if IsWeekendNight(checkIn.AddDate(0, 0, i)) {
			count++
		}
	}
	return count
}

// CalculateCost 计算费用明细
//
//	subtotal  = Σ 数量 × 单价 × 晚数
//	周末加价   = Σ 数量 × 房型周末加价 × 周末晚数
//	税费       = round(subtotal × 税率)
//	服务费     = round(subtotal × 服务费率)
//	总价       = subtotal + 周末加价 + 提前入住费 + 延迟退房费 + 税费 + 服务费 - 折扣
func CalculateCost(lines []PricedLine, checkIn time.Time, nights int, fees FeeSchedule, opts CostOptions) CostBreakdown {
	weekendNights := CountWeekendNights(checkIn, nights)

	var c CostBreakdown
	for _, l := range lines {
		q := int64(l.Quantity)
		c.Subtotal += q * l.PricePerNight * int64(nights)
		c.WeekendSurcharge += q * l.WeekendSurcharge * int64(weekendNights)
	}

	if opts.EarlyCheckIn {
		c.EarlyCheckInFee = fees.EarlyCheckInFee
	}
	if opts.LateCheckOut {
		c.LateCheckOutFee = fees.LateCheckOutFee
	}

	c.Taxes = money.Percent(c.Subtotal, fees.TaxPercent)
	c.ServiceFee = money.Percent(c.Subtotal, fees.ServiceFeePercent)
	c.Discount = opts.Discount

	c.TotalPrice = c.Subtotal + c.WeekendSurcharge + c.EarlyCheckInFee + c.LateCheckOutFee +
		c.Taxes + c.ServiceFee - c.Discount
	return c
}
