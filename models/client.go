package models

import (
	"time"

	"gorm.io/gorm"
)

// Client 客户模型（事务所服务的公司）
type Client struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:100;not null;index"`
	TaxID       string         `json:"tax_id" gorm:"size:20;index"` // 统一编号
	ContactName string         `json:"contact_name" gorm:"size:50"`
	Phone       string         `json:"phone" gorm:"size:30"`
	Email       string         `json:"email" gorm:"size:100"`
	IsActive    bool           `json:"is_active" gorm:"default:true;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Client) TableName() string {
	return "clients"
}

// Task 客户任务（记工时的最小单位，例如记帐、年度申报）
type Task struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ClientID  uint           `json:"client_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Client    Client         `json:"-" gorm:"foreignKey:ClientID"`
}

// TableName 设置表名
func (Task) TableName() string {
	return "tasks"
}
