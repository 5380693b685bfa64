package costing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"accounting/models"
)

// clientEmployeeHours 月度工时聚合行（按客户、员工分组）
type clientEmployeeHours struct {
	ClientID uint
	UserID   uint
	Hours    float64
}

// MonthlyRevenueDistribution 计算指定月份的营收分摊
// 1. 找出服务期间涵盖该月的有效收款单（未作废、未删除）：
//    单月认列需年月完全相等；跨月认列按期间月数平均分摊。
// 2. 按客户累计分摊金额，并依各员工在该客户的工时占比分摊到员工。
// 有营收但当月无工时的客户不会分摊给任何员工（维持历史口径）。
func (c *Calculator) MonthlyRevenueDistribution(yearMonth string) (*RevenueDistribution, error) {
	year, month, err := ParseYearMonth(yearMonth)
	if err != nil {
		return nil, err
	}

	receipts, err := c.loadReceiptsForMonth(yearMonth)
	if err != nil {
		return nil, fmt.Errorf("查询收款单失败: %w", err)
	}

	hours, err := c.loadClientEmployeeHours(year, month)
	if err != nil {
		return nil, fmt.Errorf("查询工时失败: %w", err)
	}

	total, clientRevenue, err := distributeRevenue(yearMonth, receipts)
	if err != nil {
		return nil, err
	}

	return &RevenueDistribution{
		YearMonth:            yearMonth,
		TotalRevenue:         total,
		ClientRevenue:        clientRevenue,
		EmployeeRevenueShare: distributeToEmployees(clientRevenue, hours),
	}, nil
}

// loadReceiptsForMonth 查询服务期间涵盖指定月份的有效收款单
// 旧版结构没有跨月认列栏位时退回只按单月匹配（见 Capabilities）。
func (c *Calculator) loadReceiptsForMonth(yearMonth string) ([]models.Receipt, error) {
	var receipts []models.Receipt
	q := c.db.Model(&models.Receipt{}).Where("status <> ?", models.ReceiptStatusCancelled)
	if c.caps.ServiceSpan {
		q = q.Where(
			"service_month = ? OR (service_start_month IS NOT NULL AND service_end_month IS NOT NULL AND service_start_month <= ? AND service_end_month >= ?)",
			yearMonth, yearMonth, yearMonth,
		)
	} else {
		q = q.Where("service_month = ?", yearMonth)
	}
	if err := q.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// loadClientEmployeeHours 查询指定月份按（客户, 员工）分组的工时合计
func (c *Calculator) loadClientEmployeeHours(year, month int) ([]clientEmployeeHours, error) {
	first, last := MonthBounds(year, month)
	var rows []clientEmployeeHours
	err := c.db.Model(&models.Timesheet{}).
		Select("client_id, user_id, SUM(hours) AS hours").
		Where("work_date >= ? AND work_date <= ?", first, last).
		Group("client_id, user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// distributeRevenue 将收款单金额分摊到指定月份，按客户累计
// 跨月认列：分摊金额 = 总额 / 期间月数（含头尾）；单月认列取全额。
// 金额非正或非有限值的单据跳过，不中断整月计算。
func distributeRevenue(yearMonth string, receipts []models.Receipt) (decimal.Decimal, map[uint]decimal.Decimal, error) {
	total := decimal.Zero
	clientRevenue := make(map[uint]decimal.Decimal)

	for _, r := range receipts {
		if !validAmount(r.Amount) {
			continue
		}
		var allocated decimal.Decimal
		switch {
		case r.ServiceStartMonth != nil && r.ServiceEndMonth != nil &&
			InSpan(yearMonth, *r.ServiceStartMonth, *r.ServiceEndMonth):
			n, err := MonthCount(*r.ServiceStartMonth, *r.ServiceEndMonth)
			if err != nil {
				return decimal.Zero, nil, fmt.Errorf("收款单 %d 服务期间错误: %w", r.ID, err)
			}
			allocated = decimal.NewFromFloat(r.Amount).Div(decimal.NewFromInt(int64(n)))
		case r.ServiceMonth != nil && *r.ServiceMonth == yearMonth:
			allocated = decimal.NewFromFloat(r.Amount)
		default:
			// 服务期间不涵盖目标月份，不贡献
			continue
		}
		clientRevenue[r.ClientID] = clientRevenue[r.ClientID].Add(allocated)
		total = total.Add(allocated)
	}
	return total, clientRevenue, nil
}

// distributeToEmployees 依工时占比将各客户营收分摊到员工
// 每个客户：员工分摊 = 客户营收 × (员工工时 / 客户总工时)，跨客户累计。
func distributeToEmployees(clientRevenue map[uint]decimal.Decimal, hours []clientEmployeeHours) map[uint]decimal.Decimal {
	clientTotalHours := make(map[uint]float64)
	for _, h := range hours {
		if !validAmount(h.Hours) {
			continue
		}
		clientTotalHours[h.ClientID] += h.Hours
	}

	shares := make(map[uint]decimal.Decimal)
	for _, h := range hours {
		if !validAmount(h.Hours) {
			continue
		}
		revenue, ok := clientRevenue[h.ClientID]
		if !ok {
			continue
		}
		totalHours := clientTotalHours[h.ClientID]
		if totalHours <= 0 {
			continue
		}
		// 先乘后除，避免比例先行舍入造成分摊合计超过营收
		share := revenue.Mul(decimal.NewFromFloat(h.Hours)).Div(decimal.NewFromFloat(totalHours))
		shares[h.UserID] = shares[h.UserID].Add(share)
	}
	return shares
}
