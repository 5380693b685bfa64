package costing

import "fmt"

// WorkType 工作类型定义
// PayMultiplier 为加班费倍率；CompMultiplier > 0 表示该类型产生补休时数
// （每小时产生 hours × CompMultiplier 的补休）；FixedEightHours 表示整日出勤，
// 不论填报时数一律产生 8 小时补休。
type WorkType struct {
	Code            int
	Name            string
	PayMultiplier   float64
	CompMultiplier  float64
	FixedEightHours bool
}

// 工作类型代码为封闭集合 1~12，未知代码一律报错，不静默忽略
var workTypes = map[int]WorkType{
	1:  {Code: 1, Name: "正常工时", PayMultiplier: 1.0},
	2:  {Code: 2, Name: "平日加班（前两小时）", PayMultiplier: 1.34, CompMultiplier: 1.34},
	3:  {Code: 3, Name: "平日加班（两小时后）", PayMultiplier: 1.67, CompMultiplier: 1.67},
	4:  {Code: 4, Name: "休息日加班（前两小时）", PayMultiplier: 1.34, CompMultiplier: 1.34},
	5:  {Code: 5, Name: "休息日加班（二至八小时）", PayMultiplier: 1.67, CompMultiplier: 1.67},
	6:  {Code: 6, Name: "休息日加班（八小时后）", PayMultiplier: 2.67, CompMultiplier: 2.67},
	7:  {Code: 7, Name: "国定假日出勤", PayMultiplier: 2.0, CompMultiplier: 1.0, FixedEightHours: true},
	8:  {Code: 8, Name: "天灾出勤", PayMultiplier: 2.0, CompMultiplier: 2.0},
	9:  {Code: 9, Name: "例假日出勤", PayMultiplier: 2.0, CompMultiplier: 2.0},
	10: {Code: 10, Name: "特休日出勤", PayMultiplier: 1.0, CompMultiplier: 1.0, FixedEightHours: true},
	11: {Code: 11, Name: "外勤出差", PayMultiplier: 1.0},
	12: {Code: 12, Name: "教育训练", PayMultiplier: 1.0},
}

// WorkTypeByCode 按代码查找工作类型，未知代码返回错误
func WorkTypeByCode(code int) (WorkType, error) {
	wt, ok := workTypes[code]
	if !ok {
		return WorkType{}, fmt.Errorf("未知的工作类型代码: %d", code)
	}
	return wt, nil
}

// GeneratesComp 该类型是否产生补休时数
func (w WorkType) GeneratesComp() bool {
	return w.CompMultiplier > 0 || w.FixedEightHours
}

// CompHours 依填报时数计算产生的补休时数
func (w WorkType) CompHours(hours float64) float64 {
	if !w.GeneratesComp() {
		return 0
	}
	if w.FixedEightHours {
		return 8
	}
	return hours * w.CompMultiplier
}
