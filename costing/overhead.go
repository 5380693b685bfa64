package costing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"accounting/models"
)

// monthlyOverhead 当月一笔待分摊的间接成本
type monthlyOverhead struct {
	AmountCents int64
	Method      string
}

// MonthlyOverheadAllocation 计算指定月份的间接成本分摊
// method 为空时汇总三种分摊方式，否则仅计算指定方式；未知方式报错。
// 各笔成本的分摊独立四舍五入后累计，不回补尾差，不保证分摊合计
// 与成本原额完全相等。
func (c *Calculator) MonthlyOverheadAllocation(year, month int, method string) (*OverheadAllocation, error) {
	if err := validateAllocationMethod(method); err != nil {
		return nil, err
	}

	costs, err := c.loadMonthlyOverheads(year, month, method)
	if err != nil {
		return nil, fmt.Errorf("查询间接成本失败: %w", err)
	}

	var employeeIDs []uint
	if err := c.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).
		Pluck("id", &employeeIDs).Error; err != nil {
		return nil, fmt.Errorf("查询在职员工失败: %w", err)
	}

	hours, err := c.loadClientEmployeeHours(year, month)
	if err != nil {
		return nil, fmt.Errorf("查询工时失败: %w", err)
	}

	// 仅在涉及按营收分摊时才需要营收分摊结果
	var rev *RevenueDistribution
	if needsRevenue(costs) {
		rev, err = c.MonthlyRevenueDistribution(FormatYearMonth(year, month))
		if err != nil {
			return nil, err
		}
	}

	result := allocateOverheads(costs, employeeIDs, hours, rev)
	result.Year = year
	result.Month = month
	return result, nil
}

// validateAllocationMethod 校验分摊方式（封闭集合，未知值报错）
func validateAllocationMethod(method string) error {
	switch method {
	case "", models.AllocationPerEmployee, models.AllocationPerHour, models.AllocationPerRevenue:
		return nil
	default:
		return fmt.Errorf("未知的分摊方式: %s", method)
	}
}

// loadMonthlyOverheads 查询当月有效的间接成本（成本类型需启用）
func (c *Calculator) loadMonthlyOverheads(year, month int, method string) ([]monthlyOverhead, error) {
	var rows []models.MonthlyOverheadCost
	q := c.db.Preload("CostType").
		Joins("JOIN overhead_cost_types ON overhead_cost_types.id = monthly_overhead_costs.cost_type_id").
		Where("monthly_overhead_costs.year = ? AND monthly_overhead_costs.month = ?", year, month).
		Where("overhead_cost_types.is_active = ? AND overhead_cost_types.deleted_at IS NULL", true)
	if method != "" {
		q = q.Where("overhead_cost_types.allocation_method = ?", method)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	costs := make([]monthlyOverhead, 0, len(rows))
	for _, row := range rows {
		if !validAmount(row.Amount) {
			continue
		}
		costs = append(costs, monthlyOverhead{
			AmountCents: ToCents(row.Amount),
			Method:      row.CostType.AllocationMethod,
		})
	}
	return costs, nil
}

func needsRevenue(costs []monthlyOverhead) bool {
	for _, cost := range costs {
		if cost.Method == models.AllocationPerRevenue {
			return true
		}
	}
	return false
}

// allocateOverheads 间接成本分摊纯计算
// 员工侧：
//   per_employee：金额 / 在职人数，人人均摊（四舍五入，不回补尾差）。
//   per_hour：金额 × 员工工时 / 全员工时。
//   per_revenue：金额 × 员工营收分摊 / 总营收，无营收分摊的员工为零。
// 客户侧按相同口径：均摊给当月有工时的客户、按客户工时占比、按客户营收占比。
func allocateOverheads(costs []monthlyOverhead, employeeIDs []uint, hours []clientEmployeeHours, rev *RevenueDistribution) *OverheadAllocation {
	result := &OverheadAllocation{
		EmployeeCents: make(map[uint]int64),
		ClientCents:   make(map[uint]int64),
	}

	employeeHours := make(map[uint]float64)
	clientHours := make(map[uint]float64)
	var totalHours float64
	for _, h := range hours {
		if !validAmount(h.Hours) {
			continue
		}
		employeeHours[h.UserID] += h.Hours
		clientHours[h.ClientID] += h.Hours
		totalHours += h.Hours
	}

	for _, cost := range costs {
		result.TotalCents += cost.AmountCents
		switch cost.Method {
		case models.AllocationPerEmployee:
			if n := int64(len(employeeIDs)); n > 0 {
				share := RoundHalfUpDiv(cost.AmountCents, n)
				for _, id := range employeeIDs {
					result.EmployeeCents[id] += share
				}
			}
			if n := int64(len(clientHours)); n > 0 {
				share := RoundHalfUpDiv(cost.AmountCents, n)
				for id := range clientHours {
					result.ClientCents[id] += share
				}
			}
		case models.AllocationPerHour:
			if totalHours <= 0 {
				continue
			}
			for id, h := range employeeHours {
				result.EmployeeCents[id] += RoundHalfUp(float64(cost.AmountCents) * h / totalHours)
			}
			for id, h := range clientHours {
				result.ClientCents[id] += RoundHalfUp(float64(cost.AmountCents) * h / totalHours)
			}
		case models.AllocationPerRevenue:
			if rev == nil || !rev.TotalRevenue.IsPositive() {
				continue
			}
			amount := decimal.NewFromInt(cost.AmountCents)
			for id, share := range rev.EmployeeRevenueShare {
				result.EmployeeCents[id] += amount.Mul(share).Div(rev.TotalRevenue).Round(0).IntPart()
			}
			for id, share := range rev.ClientRevenue {
				result.ClientCents[id] += amount.Mul(share).Div(rev.TotalRevenue).Round(0).IntPart()
			}
		}
	}
	return result
}
