package util

import (
	"math"
)

// Round2 四舍五入保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent 返回 part/whole 的百分比（两位小数），whole 为 0 时返回 0
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return Round2(float64(part) / float64(whole) * 100)
}
