// Package money 金额计算
//
// 金额一律使用int64的最小货币单位，避免浮点误差；
// 比例计算用分子/分母表示，结果四舍五入（.5远离零）。
package money

import "fmt"

// Amount 最小货币单位的金额
type Amount = int64

// Ratio 计算amount*num/den并四舍五入
func Ratio(amount, num, den int64) int64 {
	if den == 0 {
		return 0
	}
	if den < 0 {
		num, den = -num, -den
	}
	product := amount * num
	if product >= 0 {
		return (product*2 + den) / (2 * den)
	}
	return -((-product*2 + den) / (2 * den))
}

// Percent 计算amount的pct%并四舍五入
func Percent(amount, pct int64) int64 {
	return Ratio(amount, pct, 100)
}

// Format 格式化为两位小数的字符串（如12345 -> "123.45"）
func Format(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
