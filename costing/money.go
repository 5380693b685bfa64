package costing

import (
	"math"

	"github.com/shopspring/decimal"
)

// 金额在内部一律以分（int64）运算，仅在边界与元互转，
// 避免多名员工、多个步骤累加时产生浮点误差。
// 各步骤的进位方式（四舍五入/无条件舍去）对齐历史薪资结果，不得互换。

// ToCents 元转分，四舍五入到分
func ToCents(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

// CentsToUnits 分转元（保留小数）
func CentsToUnits(cents int64) float64 {
	return float64(cents) / 100
}

// RoundHalfUp 四舍五入到整数
func RoundHalfUp(x float64) int64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	if x < 0 {
		return -int64(math.Floor(-x + 0.5))
	}
	return int64(math.Floor(x + 0.5))
}

// RoundHalfUpDiv 整数除法，四舍五入
func RoundHalfUpDiv(numerator, denominator int64) int64 {
	if denominator == 0 {
		return 0
	}
	return RoundHalfUp(float64(numerator) / float64(denominator))
}

// FloorCents 无条件舍去到整数分
func FloorCents(x float64) int64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int64(math.Floor(x))
}

// validAmount 金额是否为有效的正数（防御单笔脏数据污染整月报表）
func validAmount(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0
}

// DecimalToCents 精确小数金额转分，四舍五入
func DecimalToCents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
