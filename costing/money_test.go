package costing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(10000), ToCents(100))
	assert.Equal(t, int64(9999), ToCents(99.99))
	// 四舍五入到分（0.125 可被二进制精确表示）
	assert.Equal(t, int64(13), ToCents(0.125))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, int64(2), RoundHalfUp(1.5))
	assert.Equal(t, int64(1), RoundHalfUp(1.4))
	assert.Equal(t, int64(-2), RoundHalfUp(-1.5))
	// 非有限值防御性归零
	assert.Equal(t, int64(0), RoundHalfUp(math.NaN()))
	assert.Equal(t, int64(0), RoundHalfUp(math.Inf(1)))
}

func TestRoundHalfUpDiv(t *testing.T) {
	assert.Equal(t, int64(3), RoundHalfUpDiv(5, 2))
	assert.Equal(t, int64(2), RoundHalfUpDiv(7, 3))
	assert.Equal(t, int64(0), RoundHalfUpDiv(100, 0))

	// 加班时薪口径：基本薪资分 / 240
	assert.Equal(t, int64(20000), RoundHalfUpDiv(4800000, 240))
	assert.Equal(t, int64(14583), RoundHalfUpDiv(3500000, 240)) // 14583.33... 取整
}

func TestFloorCents(t *testing.T) {
	assert.Equal(t, int64(1234), FloorCents(1234.99))
	assert.Equal(t, int64(0), FloorCents(math.NaN()))
}

func TestMonthCount(t *testing.T) {
	n, err := MonthCount("2024-01", "2024-03")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = MonthCount("2024-01", "2024-01")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = MonthCount("2023-11", "2024-02")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// 起讫颠倒报错
	_, err = MonthCount("2024-03", "2024-01")
	assert.Error(t, err)

	_, err = MonthCount("2024/01", "2024-03")
	assert.Error(t, err)
}

func TestInSpan(t *testing.T) {
	assert.True(t, InSpan("2024-02", "2024-01", "2024-03"))
	assert.True(t, InSpan("2024-01", "2024-01", "2024-03"))
	assert.True(t, InSpan("2024-03", "2024-01", "2024-03"))
	assert.False(t, InSpan("2024-04", "2024-01", "2024-03"))
	assert.False(t, InSpan("2023-12", "2024-01", "2024-03"))
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, 2)
	assert.Equal(t, "2024-02-01", first.Format("2006-01-02"))
	// 2024 为闰年
	assert.Equal(t, "2024-02-29", last.Format("2006-01-02"))
}
