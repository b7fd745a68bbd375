package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStatus_StateMachine(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow},
		StatusCheckedIn: {StatusCheckedOut},
	}

	t.Run("流转表之外的组合全部非法", func(t *testing.T) {
		for _, from := range AllStatuses() {
			for _, to := range AllStatuses() {
				want := false
				for _, a := range allowed[from] {
					if a == to {
						want = true
					}
				}
				assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("终态", func(t *testing.T) {
		assert.True(t, StatusCheckedOut.IsTerminal())
		assert.True(t, StatusCancelled.IsTerminal())
		assert.True(t, StatusNoShow.IsTerminal())
		assert.False(t, StatusPending.IsTerminal())
		assert.False(t, StatusConfirmed.IsTerminal())
		assert.False(t, StatusCheckedIn.IsTerminal())
	})

	t.Run("未知状态", func(t *testing.T) {
		assert.False(t, Status("REFUNDED").IsValid())
		assert.False(t, Status("REFUNDED").CanTransitionTo(StatusConfirmed))
	})
}

func TestBooking_TransitionTo(t *testing.T) {
	now := date(2026, 1, 1)
	b := NewBooking(1, 1, nil, date(2026, 2, 1), date(2026, 2, 3), CostBreakdown{}, now)

	t.Run("不能通过普通流转取消", func(t *testing.T) {
		assert.ErrorIs(t, b.TransitionTo(StatusCancelled, now), ErrIllegalTransition)
		assert.Equal(t, StatusPending, b.Status)
	})

	t.Run("完整生命周期", func(t *testing.T) {
		require.NoError(t, b.TransitionTo(StatusConfirmed, now))
		require.NoError(t, b.TransitionTo(StatusCheckedIn, now))
		require.NoError(t, b.TransitionTo(StatusCheckedOut, now))
		assert.Equal(t, StatusCheckedOut, b.Status)
	})

	t.Run("失败的流转保持原状态", func(t *testing.T) {
		assert.ErrorIs(t, b.TransitionTo(StatusCheckedIn, now), ErrIllegalTransition)
		assert.Equal(t, StatusCheckedOut, b.Status)
	})
}

func TestCountNights(t *testing.T) {
	assert.Equal(t, 3, CountNights(date(2026, 1, 1), date(2026, 1, 4)))
	assert.Equal(t, 1, CountNights(date(2026, 1, 1), date(2026, 1, 1).Add(2*time.Hour)), "不足一天按一晚计")
	assert.Equal(t, 0, CountNights(date(2026, 1, 4), date(2026, 1, 1)))
	assert.Equal(t, 0, CountNights(date(2026, 1, 1), date(2026, 1, 1)))
}

func TestCountWeekendNights(t *testing.T) {
	// 2026-01-01是周四
	assert.Equal(t, 2, CountWeekendNights(date(2026, 1, 1), 3))
	assert.Equal(t, 0, CountWeekendNights(date(2026, 1, 4), 4))
	assert.Equal(t, 2, CountWeekendNights(date(2026, 1, 1), 7))
}

func TestCalculateCost(t *testing.T) {
	lines := []PricedLine{{Quantity: 2, PricePerNight: 100000, WeekendSurcharge: 20000}}
	fees := DefaultFeeSchedule()

	t.Run("基础费用", func(t *testing.T) {
		c := CalculateCost(lines, date(2026, 1, 1), 3, fees, CostOptions{})
		assert.Equal(t, int64(600000), c.Subtotal)
		assert.Equal(t, int64(80000), c.WeekendSurcharge)
		assert.Equal(t, int64(60000), c.Taxes)
		assert.Equal(t, int64(30000), c.ServiceFee)
		assert.Equal(t, int64(770000), c.TotalPrice)
	})

	t.Run("提前入住和延迟退房", func(t *testing.T) {
		c := CalculateCost(lines, date(2026, 1, 1), 3, fees, CostOptions{EarlyCheckIn: true, LateCheckOut: true})
		assert.Equal(t, int64(20000), c.EarlyCheckInFee)
		assert.Equal(t, int64(20000), c.LateCheckOutFee)
		assert.Equal(t, int64(810000), c.TotalPrice)
	})

	t.Run("总价等于各项之和", func(t *testing.T) {
		multi := []PricedLine{
			{Quantity: 1, PricePerNight: 33333, WeekendSurcharge: 1111},
			{Quantity: 3, PricePerNight: 45555, WeekendSurcharge: 0},
		}
		c := CalculateCost(multi, date(2026, 1, 2), 2, fees, CostOptions{Discount: 500})
		want := c.Subtotal + c.WeekendSurcharge + c.EarlyCheckInFee + c.LateCheckOutFee + c.Taxes + c.ServiceFee - c.Discount
		assert.Equal(t, want, c.TotalPrice)
		assert.Equal(t, int64(1*33333*2+3*45555*2), c.Subtotal)
	})
}

func TestCalculateRefund(t *testing.T) {
	now := date(2026, 1, 1)

	tests := []struct {
		name    string
		checkIn time.Time
		paid    int64
		want    int64
	}{
		{"提前8天全额退款", now.AddDate(0, 0, 8), 770000, 770000},
		{"提前5天退一半", now.AddDate(0, 0, 5), 770000, 385000},
		{"提前1天不退款", now.AddDate(0, 0, 1), 770000, 0},
		{"恰好7天退一半", now.AddDate(0, 0, 7), 1000, 500},
		{"7天多1小时向上取整为8天", now.AddDate(0, 0, 7).Add(time.Hour), 1000, 1000},
		{"恰好3天退一半", now.AddDate(0, 0, 3), 1000, 500},
		{"2天多1小时向上取整为3天", now.AddDate(0, 0, 2).Add(time.Hour), 1000, 500},
		{"恰好2天不退款", now.AddDate(0, 0, 2), 1000, 0},
		{"半数四舍五入", now.AddDate(0, 0, 5), 1001, 501},
		{"未付款无退款", now.AddDate(0, 0, 30), 0, 0},
		{"入住日已过", now.AddDate(0, 0, -1), 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateRefund(tt.paid, tt.checkIn, now))
		})
	}
}

func TestBooking_Cancel(t *testing.T) {
	now := date(2026, 1, 1)

	t.Run("已支付预订取消后标记退款", func(t *testing.T) {
		b := NewBooking(1, 1, nil, now.AddDate(0, 0, 10), now.AddDate(0, 0, 12), CostBreakdown{TotalPrice: 5000}, now)
		b.PaidAmount = 5000
		b.PaymentStatus = PaymentPaid

		refund, err := b.Cancel("行程变更", now)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), refund)
		assert.Equal(t, StatusCancelled, b.Status)
		assert.Equal(t, PaymentRefunded, b.PaymentStatus)
		assert.Equal(t, "行程变更", b.CancellationReason)
		require.NotNil(t, b.CancellationDate)
		assert.Equal(t, now, *b.CancellationDate)
	})

	t.Run("无退款时支付状态不变", func(t *testing.T) {
		b := NewBooking(1, 1, nil, now.AddDate(0, 0, 1), now.AddDate(0, 0, 2), CostBreakdown{TotalPrice: 5000}, now)
		b.PaidAmount = 5000
		b.PaymentStatus = PaymentPaid

		refund, err := b.Cancel("", now)
		require.NoError(t, err)
		assert.Zero(t, refund)
		assert.Equal(t, PaymentPaid, b.PaymentStatus)
	})

	t.Run("入住后不能取消", func(t *testing.T) {
		b := NewBooking(1, 1, nil, now, now.AddDate(0, 0, 1), CostBreakdown{}, now)
		b.Status = StatusCheckedIn

		_, err := b.Cancel("", now)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, StatusCheckedIn, b.Status)
		assert.Nil(t, b.CancellationDate)
	})
}

func TestBooking_RecordPayment(t *testing.T) {
	now := date(2026, 1, 1)
	b := NewBooking(1, 1, nil, now.AddDate(0, 0, 3), now.AddDate(0, 0, 4), CostBreakdown{TotalPrice: 1000}, now)

	assert.ErrorIs(t, b.RecordPayment(0, now), ErrInvalidPayment)

	require.NoError(t, b.RecordPayment(400, now))
	assert.Equal(t, PaymentPending, b.PaymentStatus)

	require.NoError(t, b.RecordPayment(600, now))
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	assert.Equal(t, int64(1000), b.PaidAmount)

	b.Status = StatusNoShow
	assert.ErrorIs(t, b.RecordPayment(100, now), ErrIllegalTransition)
}

func TestBooking_Covers(t *testing.T) {
	b := &Booking{CheckIn: date(2026, 1, 10), CheckOut: date(2026, 1, 12)}

	assert.False(t, b.Covers(date(2026, 1, 9)))
	assert.True(t, b.Covers(date(2026, 1, 10)))
	assert.True(t, b.Covers(date(2026, 1, 11)))
	assert.False(t, b.Covers(date(2026, 1, 12)), "离店当天不占用")
}

func TestGenerateCode(t *testing.T) {
	now := date(2026, 1, 1)
	code := GenerateCode(now)

	assert.True(t, strings.HasPrefix(code, "BK1767225600"))
	assert.Len(t, code, 2+10+6)
}
