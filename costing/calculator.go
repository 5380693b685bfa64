// Package costing 实现成本与营收归属引擎：
// 将客户收款按服务期间分摊到各月与各员工、计算员工全负担人力成本
// （基本薪资、薪资项目、补休到期折算加班费、请假扣款）、分摊间接成本，
// 并汇总出客户别的成本、营收与毛利。
//
// 本包只读不写，不保留跨次调用状态；相同数据下重复计算结果逐位一致，
// 以保证财务报表可重现。数据库错误直接向上传递，不重试、不给部分结果。
package costing

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"accounting/models"
)

// Capabilities 数据库结构能力
// 旧版数据库的 receipts 表没有跨月认列栏位，查询时需退回只按单月匹配。
// 依设计在连线建立时探测一次，避免每次计算都吃一次失败查询。
type Capabilities struct {
	ServiceSpan bool // receipts 是否有 service_start_month/service_end_month 栏位
}

// DetectCapabilities 探测数据库结构能力，应在初始化时调用一次
func DetectCapabilities(db *gorm.DB) Capabilities {
	return Capabilities{
		ServiceSpan: db.Migrator().HasColumn(&models.Receipt{}, "service_start_month"),
	}
}

// Calculator 成本与营收归属计算器
// 通过注入的 *gorm.DB 只读访问收款单、工时、员工、薪资项目、请假单与
// 间接成本表；单次调用内的多笔查询需由调用方保证观察到一致快照。
type Calculator struct {
	db   *gorm.DB
	caps Capabilities
}

// NewCalculator 创建计算器
func NewCalculator(db *gorm.DB, caps Capabilities) *Calculator {
	return &Calculator{db: db, caps: caps}
}

// RevenueDistribution 月度营收分摊结果
type RevenueDistribution struct {
	YearMonth            string                   `json:"year_month"`
	TotalRevenue         decimal.Decimal          `json:"total_revenue"`
	ClientRevenue        map[uint]decimal.Decimal `json:"client_revenue"`
	EmployeeRevenueShare map[uint]decimal.Decimal `json:"employee_revenue_share"`
}

// LaborCost 员工月度人力成本明细，内部金额均为分
type LaborCost struct {
	UserID                  uint    `json:"user_id"`
	Year                    int     `json:"year"`
	Month                   int     `json:"month"`
	BaseSalaryCents         int64   `json:"base_salary_cents"`
	SalaryItemCents         int64   `json:"salary_item_cents"`
	OvertimeHourlyRateCents int64   `json:"overtime_hourly_rate_cents"` // round(基本薪资分 / 240)
	CompHoursGenerated      float64 `json:"comp_hours_generated"`
	CompHoursUsed           float64 `json:"comp_hours_used"`
	ExpiredCompPayCents     int64   `json:"expired_comp_pay_cents"`
	LeaveDeductionCents     int64   `json:"leave_deduction_cents"`
	TotalCents              int64   `json:"total_cents"`
	Total                   int64   `json:"total"` // 元，round(TotalCents / 100)
}

// OverheadAllocation 月度间接成本分摊结果，金额为分
type OverheadAllocation struct {
	Year          int            `json:"year"`
	Month         int            `json:"month"`
	TotalCents    int64          `json:"total_cents"`
	EmployeeCents map[uint]int64 `json:"employee_cents"`
	ClientCents   map[uint]int64 `json:"client_cents"`
}

// TaskCostRow 客户任务别成本
type TaskCostRow struct {
	TaskID   uint    `json:"task_id"`
	TaskName string  `json:"task_name"`
	Hours    float64 `json:"hours"`
	Cost     float64 `json:"cost"` // 元
}

// ClientCostRow 客户别成本汇总
type ClientCostRow struct {
	ClientID      uint          `json:"client_id"`
	ClientName    string        `json:"client_name"`
	Hours         float64       `json:"hours"`
	AvgHourlyRate float64       `json:"avg_hourly_rate"` // 元/小时
	TotalCost     float64       `json:"total_cost"`      // 元
	Revenue       float64       `json:"revenue"`         // 元
	Profit        float64       `json:"profit"`          // 元
	Margin        float64       `json:"margin"`          // 毛利率 %，保留两位小数
	Tasks         []TaskCostRow `json:"tasks,omitempty"`
}
