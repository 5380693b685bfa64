package models

import (
	"time"

	"gorm.io/gorm"
)

// Timesheet 工时记录模型
// WorkType 为 1~12 的工作类型代码，对应加班倍率与补休规则，定义见 costing 包。
type Timesheet struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index;not null"` // 员工ID
	ClientID  uint           `json:"client_id" gorm:"index;not null"`
	TaskID    *uint          `json:"task_id" gorm:"index"` // 可选，关联客户任务
	WorkDate  time.Time      `json:"work_date" gorm:"not null;index"`
	WorkType  int            `json:"work_type" gorm:"not null;default:1"`
	Hours     float64        `json:"hours" gorm:"type:decimal(6,2);not null"`
	Note      string         `json:"note" gorm:"size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      User           `json:"-" gorm:"foreignKey:UserID"`
	Client    Client         `json:"-" gorm:"foreignKey:ClientID"`
}

// TableName 设置表名
func (Timesheet) TableName() string {
	return "timesheets"
}
