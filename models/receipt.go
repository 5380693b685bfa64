package models

import (
	"time"

	"gorm.io/gorm"
)

// 收款单状态常量
const (
	ReceiptStatusPending   = "pending"   // 待收款
	ReceiptStatusPaid      = "paid"      // 已收款
	ReceiptStatusCancelled = "cancelled" // 已作废，不参与任何统计
)

// Receipt 收款单模型
// 服务期间二选一：ServiceMonth 表示单月认列；ServiceStartMonth/ServiceEndMonth
// 表示跨月认列，金额按月数平均分摊到期间内每个月。
type Receipt struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	ClientID          uint           `json:"client_id" gorm:"index;not null"`
	Amount            float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	ServiceMonth      *string        `json:"service_month" gorm:"size:7;index"`       // 单月认列，格式 2024-01
	ServiceStartMonth *string        `json:"service_start_month" gorm:"size:7;index"` // 跨月认列起始月
	ServiceEndMonth   *string        `json:"service_end_month" gorm:"size:7"`         // 跨月认列结束月
	Status            string         `json:"status" gorm:"size:20;default:pending;index"`
	Description       string         `json:"description" gorm:"size:255"`
	ReceivedAt        *time.Time     `json:"received_at"` // 实际收款日
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
	Client            Client         `json:"-" gorm:"foreignKey:ClientID"`
}

// TableName 设置表名
func (Receipt) TableName() string {
	return "receipts"
}
