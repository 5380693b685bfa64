package models

import (
	"time"

	"gorm.io/gorm"
)

// 请假类型常量
const (
	LeaveTypeSick         = "sick"         // 病假，扣半薪
	LeaveTypePersonal     = "personal"     // 事假，扣全薪
	LeaveTypeMenstrual    = "menstrual"    // 生理假，扣半薪
	LeaveTypeCompensatory = "compensatory" // 补休，抵扣加班产生的补休时数
	LeaveTypeAnnual       = "annual"       // 特休，不扣薪
	LeaveTypeOther        = "other"        // 其他
)

// 请假单状态常量，仅 approved 参与成本计算
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// 请假时数单位常量，1 天折算 8 小时
const (
	LeaveUnitHours = "hours"
	LeaveUnitDays  = "days"
)

// LeaveRequest 请假单模型
type LeaveRequest struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	Type      string         `json:"type" gorm:"size:20;not null;index"`
	Status    string         `json:"status" gorm:"size:20;default:pending;index"`
	StartDate time.Time      `json:"start_date" gorm:"not null;index"`
	EndDate   time.Time      `json:"end_date" gorm:"not null"`
	Amount    float64        `json:"amount" gorm:"type:decimal(6,2);not null"` // 请假量，配合 Unit 解读
	Unit      string         `json:"unit" gorm:"size:10;default:hours"`        // hours/days
	Reason    string         `json:"reason" gorm:"size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// HoursAmount 将请假量折算为小时数（天单位 × 8）
func (l LeaveRequest) HoursAmount() float64 {
	if l.Unit == LeaveUnitDays {
		return l.Amount * 8
	}
	return l.Amount
}

// OverlapsMonth 请假期间是否与指定月份有交集
func (l LeaveRequest) OverlapsMonth(firstDay, lastDay time.Time) bool {
	return !l.StartDate.After(lastDay) && !l.EndDate.Before(firstDay)
}
