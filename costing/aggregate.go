package costing

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"accounting/models"
)

// AllEmployeesActualHourlyRate 计算全体员工的实际时薪（分/小时）
// 实际时薪 = (人力成本 + 间接成本分摊) / 当月工时，当月无工时者为 0。
// 相同数据下重复调用结果逐位一致。
func (c *Calculator) AllEmployeesActualHourlyRate(year, month int, yearMonth string) (map[uint]int64, error) {
	return c.employeesActualHourlyRate(year, month, yearMonth, "")
}

// employeesActualHourlyRate 实际时薪计算，可指定分摊方式过滤
func (c *Calculator) employeesActualHourlyRate(year, month int, yearMonth string, method string) (map[uint]int64, error) {
	if _, _, err := ParseYearMonth(yearMonth); err != nil {
		return nil, err
	}

	var employeeIDs []uint
	if err := c.db.Model(&models.User{}).Pluck("id", &employeeIDs).Error; err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}

	overhead, err := c.MonthlyOverheadAllocation(year, month, method)
	if err != nil {
		return nil, err
	}

	hours, err := c.loadClientEmployeeHours(year, month)
	if err != nil {
		return nil, fmt.Errorf("查询工时失败: %w", err)
	}
	employeeHours := make(map[uint]float64)
	for _, h := range hours {
		if !validAmount(h.Hours) {
			continue
		}
		employeeHours[h.UserID] += h.Hours
	}

	rates := make(map[uint]int64, len(employeeIDs))
	for _, id := range employeeIDs {
		monthHours := employeeHours[id]
		if monthHours <= 0 {
			rates[id] = 0
			continue
		}
		labor, err := c.EmployeeLaborCost(id, year, month)
		if err != nil {
			return nil, err
		}
		loadedCents := labor.TotalCents + overhead.EmployeeCents[id]
		rates[id] = RoundHalfUp(float64(loadedCents) / monthHours)
	}
	return rates, nil
}

// ClientCostSummary 计算客户别成本汇总
// 每笔工时按员工实际时薪计价（工作类型倍率已反映在人力成本内，此处不再
// 重复套用），按客户与任务累计；营收只取单月认列等于目标月份的收款单
// （此处沿用历史口径，不做跨月分摊）。毛利率 = round(毛利/营收×10000)/100。
func (c *Calculator) ClientCostSummary(year, month int, yearMonth string, method string) ([]ClientCostRow, error) {
	rates, err := c.employeesActualHourlyRate(year, month, yearMonth, method)
	if err != nil {
		return nil, err
	}

	first, last := MonthBounds(year, month)
	var timesheets []models.Timesheet
	if err := c.db.Where("work_date >= ? AND work_date <= ?", first, last).
		Order("work_date").Find(&timesheets).Error; err != nil {
		return nil, fmt.Errorf("查询工时失败: %w", err)
	}

	revenue, err := c.loadSingleMonthRevenue(yearMonth)
	if err != nil {
		return nil, err
	}

	type clientAgg struct {
		hours     float64
		costCents int64
		taskHours map[uint]float64
		taskCents map[uint]int64
	}
	aggs := make(map[uint]*clientAgg)
	agg := func(clientID uint) *clientAgg {
		a, ok := aggs[clientID]
		if !ok {
			a = &clientAgg{taskHours: make(map[uint]float64), taskCents: make(map[uint]int64)}
			aggs[clientID] = a
		}
		return a
	}

	for _, ts := range timesheets {
		if !validAmount(ts.Hours) {
			continue
		}
		costCents := RoundHalfUp(ts.Hours * float64(rates[ts.UserID]))
		a := agg(ts.ClientID)
		a.hours += ts.Hours
		a.costCents += costCents
		if ts.TaskID != nil {
			a.taskHours[*ts.TaskID] += ts.Hours
			a.taskCents[*ts.TaskID] += costCents
		}
	}

	// 有营收但无工时的客户也要出现在汇总中
	for clientID := range revenue {
		agg(clientID)
	}

	clientIDs := make([]uint, 0, len(aggs))
	taskIDSet := make(map[uint]struct{})
	for clientID, a := range aggs {
		clientIDs = append(clientIDs, clientID)
		for taskID := range a.taskHours {
			taskIDSet[taskID] = struct{}{}
		}
	}
	taskIDs := make([]uint, 0, len(taskIDSet))
	for taskID := range taskIDSet {
		taskIDs = append(taskIDs, taskID)
	}

	clientNames, taskNames, err := c.loadNames(clientIDs, taskIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]ClientCostRow, 0, len(aggs))
	for clientID, a := range aggs {
		row := ClientCostRow{
			ClientID:   clientID,
			ClientName: clientNames[clientID],
			Hours:      a.hours,
			TotalCost:  CentsToUnits(a.costCents),
		}
		if rev, ok := revenue[clientID]; ok {
			row.Revenue, _ = rev.Float64()
		}
		if a.hours > 0 {
			row.AvgHourlyRate = math.Floor(CentsToUnits(a.costCents)/a.hours*100+0.5) / 100
		}
		row.Profit = row.Revenue - row.TotalCost
		if row.Revenue > 0 {
			row.Margin = float64(RoundHalfUp(row.Profit/row.Revenue*10000)) / 100
		}
		for taskID, h := range a.taskHours {
			row.Tasks = append(row.Tasks, TaskCostRow{
				TaskID:   taskID,
				TaskName: taskNames[taskID],
				Hours:    h,
				Cost:     CentsToUnits(a.taskCents[taskID]),
			})
		}
		sort.Slice(row.Tasks, func(i, j int) bool { return row.Tasks[i].TaskID < row.Tasks[j].TaskID })
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ClientID < rows[j].ClientID })
	return rows, nil
}

// loadSingleMonthRevenue 查询单月认列等于目标月份的客户营收
func (c *Calculator) loadSingleMonthRevenue(yearMonth string) (map[uint]decimal.Decimal, error) {
	var receipts []models.Receipt
	if err := c.db.Where("status <> ? AND service_month = ?", models.ReceiptStatusCancelled, yearMonth).
		Find(&receipts).Error; err != nil {
		return nil, fmt.Errorf("查询收款单失败: %w", err)
	}
	revenue := make(map[uint]decimal.Decimal)
	for _, r := range receipts {
		if !validAmount(r.Amount) {
			continue
		}
		revenue[r.ClientID] = revenue[r.ClientID].Add(decimal.NewFromFloat(r.Amount))
	}
	return revenue, nil
}

// loadNames 查询汇总涉及的客户与任务名称
func (c *Calculator) loadNames(clientIDs, taskIDs []uint) (map[uint]string, map[uint]string, error) {
	clientNames := make(map[uint]string, len(clientIDs))
	if len(clientIDs) > 0 {
		var clients []models.Client
		if err := c.db.Where("id IN ?", clientIDs).Find(&clients).Error; err != nil {
			return nil, nil, fmt.Errorf("查询客户失败: %w", err)
		}
		for _, client := range clients {
			clientNames[client.ID] = client.Name
		}
	}

	taskNames := make(map[uint]string, len(taskIDs))
	if len(taskIDs) > 0 {
		var tasks []models.Task
		if err := c.db.Where("id IN ?", taskIDs).Find(&tasks).Error; err != nil {
			return nil, nil, fmt.Errorf("查询任务失败: %w", err)
		}
		for _, task := range tasks {
			taskNames[task.ID] = task.Name
		}
	}
	return clientNames, taskNames, nil
}
