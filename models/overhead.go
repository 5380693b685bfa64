package models

import (
	"time"

	"gorm.io/gorm"
)

// 间接成本分摊方式常量
const (
	AllocationPerEmployee = "per_employee" // 按人数均摊
	AllocationPerHour     = "per_hour"     // 按工时比例分摊
	AllocationPerRevenue  = "per_revenue"  // 按归属营收比例分摊
)

// OverheadCostType 间接成本类型（房租、水电等共同费用）
type OverheadCostType struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Name             string         `json:"name" gorm:"size:50;not null"`
	AllocationMethod string         `json:"allocation_method" gorm:"size:20;not null;default:per_employee"`
	IsActive         bool           `json:"is_active" gorm:"default:true;index"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (OverheadCostType) TableName() string {
	return "overhead_cost_types"
}

// MonthlyOverheadCost 月度间接成本
// 仅软删除不硬删除，保证历史报表可重现。
type MonthlyOverheadCost struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	CostTypeID uint             `json:"cost_type_id" gorm:"index;not null"`
	Year       int              `json:"year" gorm:"not null;index:idx_overhead_ym"`
	Month      int              `json:"month" gorm:"not null;index:idx_overhead_ym"`
	Amount     float64          `json:"amount" gorm:"type:decimal(12,2);not null"` // 金额（元）
	Note       string           `json:"note" gorm:"size:255"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `json:"-" gorm:"index"`
	CostType   OverheadCostType `json:"cost_type" gorm:"foreignKey:CostTypeID"`
}

// TableName 设置表名
func (MonthlyOverheadCost) TableName() string {
	return "monthly_overhead_costs"
}
