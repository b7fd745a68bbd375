package booking

import (
	"time"

	"github.com/xiebiao/lodging/internal/domain/money"
)

// DaysUntil 距入住的天数 = ceil((入住 - now) / 1天)，入住已过时为0或负数
func DaysUntil(checkIn, now time.Time) int {
	diff := checkIn.Sub(now)
	days := int(diff / day)
	if diff > 0 && diff%day != 0 {
		days++
	}
	return days
}

// RefundPercent 退款比例：超过7天全退，3到7天退一半，其余不退
func RefundPercent(daysUntilCheckIn int) int64 {
	switch {
	case daysUntilCheckIn > 7:
		return 100
	case daysUntilCheckIn >= 3:
		return 50
	default:
		return 0
	}
}

// CalculateRefund 按已支付金额和距入住天数计算退款
func CalculateRefund(paidAmount int64, checkIn, now time.Time) int64 {
	if paidAmount <= 0 {
		return 0
	}
	return money.Percent(paidAmount, RefundPercent(DaysUntil(checkIn, now)))
}
