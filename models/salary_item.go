package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// 薪资项目类别常量
const (
	SalaryCategoryRegularAllowance   = "regular_allowance"   // 经常性津贴
	SalaryCategoryIrregularAllowance = "irregular_allowance" // 非经常性津贴
	SalaryCategoryBonus              = "bonus"               // 奖金
	SalaryCategoryYearEndBonus       = "year_end_bonus"      // 年终奖金
	SalaryCategoryDeduction          = "deduction"           // 扣款项目
)

// 薪资项目发放周期常量
const (
	RecurrenceMonthly = "monthly" // 每月发放
	RecurrenceOnce    = "once"    // 仅生效当月发放一次
	RecurrenceYearly  = "yearly"  // 每年指定月份发放
)

// SalaryItemType 薪资项目类型（字典表，由系统预置）
type SalaryItemType struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Code      string         `json:"code" gorm:"uniqueIndex;size:30;not null"` // 如 FULL_ATTENDANCE
	Name      string         `json:"name" gorm:"size:50;not null"`             // 如 全勤奖金
	Category  string         `json:"category" gorm:"size:30;not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (SalaryItemType) TableName() string {
	return "salary_item_types"
}

// IsFullAttendance 是否为全勤奖金项目（依代码或名称判断）
func (t SalaryItemType) IsFullAttendance() bool {
	return strings.Contains(strings.ToUpper(t.Code), "FULL") || strings.Contains(t.Name, "全勤")
}

// SalaryItem 员工薪资项目（津贴、奖金、扣款等）
// 金额以分为单位存储，避免多项累加时产生浮点误差。
type SalaryItem struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	TypeID          uint           `json:"type_id" gorm:"index;not null"`
	AmountCents     int64          `json:"amount_cents" gorm:"not null"`
	RecurrenceType  string         `json:"recurrence_type" gorm:"size:20;not null;default:monthly"` // monthly/once/yearly
	RecurringMonths string         `json:"recurring_months" gorm:"size:50"`                         // yearly 适用月份，逗号分隔，如 "2,8"
	EffectiveDate   time.Time      `json:"effective_date" gorm:"not null;index"`
	ExpiryDate      *time.Time     `json:"expiry_date"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
	Type            SalaryItemType `json:"type" gorm:"foreignKey:TypeID"`
	User            User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (SalaryItem) TableName() string {
	return "salary_items"
}

// Months 解析 yearly 项目的适用月份列表，忽略非法片段
func (s SalaryItem) Months() []int {
	if s.RecurringMonths == "" {
		return nil
	}
	var months []int
	for _, part := range strings.Split(s.RecurringMonths, ",") {
		m, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || m < 1 || m > 12 {
			continue
		}
		months = append(months, m)
	}
	return months
}
