package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	cases := []struct {
		name         string
		amount, n, d int64
		want         int64
	}{
		{"整除", 100000, 120, 100, 120000},
		{"向上舍入", 15, 1, 10, 2},
		{"向下舍入", 14, 1, 10, 1},
		{"半数远离零", 25, 1, 10, 3},
		{"负数对称", -25, 1, 10, -3},
		{"分母为零", 100, 1, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Ratio(tc.amount, tc.n, tc.d))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(60000), Percent(600000, 10))
	assert.Equal(t, int64(30000), Percent(600000, 5))
	assert.Equal(t, int64(50001), Percent(100001, 50), "50%的奇数金额四舍五入")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "123.45", Format(12345))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "-1.50", Format(-150))
}
