package costing

import (
	"fmt"
	"time"
)

// ParseYearMonth 解析 "2006-01" 格式的年月字符串
func ParseYearMonth(s string) (int, int, error) {
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return 0, 0, fmt.Errorf("年月格式错误，应为 2006-01: %w", err)
	}
	return t.Year(), int(t.Month()), nil
}

// FormatYearMonth 输出 "2006-01" 格式的年月字符串
func FormatYearMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthCount 计算两个年月之间的月数（含头尾）
// 例如 2024-01 到 2024-03 为 3 个月。
func MonthCount(start, end string) (int, error) {
	sy, sm, err := ParseYearMonth(start)
	if err != nil {
		return 0, err
	}
	ey, em, err := ParseYearMonth(end)
	if err != nil {
		return 0, err
	}
	n := (ey-sy)*12 + (em - sm) + 1
	if n < 1 {
		return 0, fmt.Errorf("服务期间起讫错误: %s > %s", start, end)
	}
	return n, nil
}

// InSpan 目标年月是否落在 [start, end] 期间内
// 年月为零填充字符串，可直接按字典序比较。
func InSpan(target, start, end string) bool {
	return start <= target && target <= end
}

// MonthBounds 返回指定月份的第一天 0 点与最后一天 23:59:59
func MonthBounds(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, 0).Add(-time.Second)
	return first, last
}
