package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// UserStatusLocked 锁定：不可登录
	UserStatusLocked = "locked"
	// UserStatusActive 正常：可登录
	UserStatusActive = "active"
)

// User 员工模型（事务所内部用户，登录账号与薪资主体）
type User struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Username   string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password   string         `json:"-" gorm:"size:255;not null"`
	Name       string         `json:"name" gorm:"size:50"`                           // 姓名
	Email      string         `json:"email" gorm:"size:100"`
	IsAdmin    bool           `json:"is_admin" gorm:"default:false;index"`            // 管理员，可维护他人数据
	Status     string         `json:"status" gorm:"size:20;default:locked;index"`     // 用户状态：locked/active
	BaseSalary float64        `json:"base_salary" gorm:"type:decimal(12,2);default:0"` // 月基本薪资（元）
	HireDate   *time.Time     `json:"hire_date"`                                      // 到职日
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
