package costing

import (
	"fmt"
	"sort"
	"time"

	"accounting/models"
)

// 补休折算加班费的月分母：基本薪资 / 240 小时
const overtimeRateDivisor = 240

// 请假扣薪系数：病假与生理假扣半薪，事假扣全薪
const (
	sickLeaveFactor      = 0.5
	personalLeaveFactor  = 1.0
	menstrualLeaveFactor = 0.5
)

// compEntry 补休产生记录（依工时单逐笔累计）
type compEntry struct {
	Date       time.Time
	CompHours  float64
	Multiplier float64 // 折算加班费时使用的倍率
}

// EmployeeLaborCost 计算员工指定月份的全负担人力成本
// 计算顺序（逐步累计到总成本，起点为基本薪资）：
//  1. 薪资项目：按发放周期与生效区间判断当月是否发放，扣款项目不在此加项；
//     全勤奖金仅在当月无已核准病假、事假时发放。
//  2. 补休到期折算：当月产生的补休扣除补休假使用量后，剩余时数视同到期，
//     按加班时薪 × 各笔倍率折算加班费。
//  3. 请假扣款：病假 ×0.5、事假 ×1.0、生理假 ×0.5，各项分别无条件舍去后加总。
//
// 各步骤的进位方式对齐历史薪资结果，不得统一改为同一种进位。
func (c *Calculator) EmployeeLaborCost(userID uint, year, month int) (*LaborCost, error) {
	var user models.User
	if err := c.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}

	var items []models.SalaryItem
	if err := c.db.Preload("Type").Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("查询薪资项目失败: %w", err)
	}

	first, last := MonthBounds(year, month)

	var timesheets []models.Timesheet
	if err := c.db.Where("user_id = ? AND work_date >= ? AND work_date <= ?", userID, first, last).
		Order("work_date").Find(&timesheets).Error; err != nil {
		return nil, fmt.Errorf("查询工时失败: %w", err)
	}

	var leaves []models.LeaveRequest
	if err := c.db.Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
		userID, models.LeaveStatusApproved, last, first).Find(&leaves).Error; err != nil {
		return nil, fmt.Errorf("查询请假单失败: %w", err)
	}

	return computeLaborCost(user, items, timesheets, leaves, year, month)
}

// computeLaborCost 人力成本纯计算（输入已从存储加载完毕）
func computeLaborCost(user models.User, items []models.SalaryItem, timesheets []models.Timesheet,
	leaves []models.LeaveRequest, year, month int) (*LaborCost, error) {

	baseCents := ToCents(user.BaseSalary)
	overtimeRate := RoundHalfUpDiv(baseCents, overtimeRateDivisor)

	leaveHours := sumLeaveHoursByType(leaves, year, month)

	result := &LaborCost{
		UserID:                  user.ID,
		Year:                    year,
		Month:                   month,
		BaseSalaryCents:         baseCents,
		OvertimeHourlyRateCents: overtimeRate,
	}
	totalCents := baseCents

	// 步骤一：薪资项目
	fullAttendance := leaveHours[models.LeaveTypeSick]+leaveHours[models.LeaveTypePersonal] == 0
	for _, item := range items {
		if item.Type.Category == models.SalaryCategoryDeduction {
			// 扣款项目不在此加项（维持现行设计）
			continue
		}
		if !salaryItemPayable(item, year, month) {
			continue
		}
		if item.Type.IsFullAttendance() && !fullAttendance {
			continue
		}
		result.SalaryItemCents += item.AmountCents
	}
	totalCents += result.SalaryItemCents

	// 步骤二：补休到期折算加班费
	entries, err := collectCompEntries(timesheets)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		result.CompHoursGenerated += e.CompHours
	}
	result.CompHoursUsed = leaveHours[models.LeaveTypeCompensatory]
	unused := result.CompHoursGenerated - result.CompHoursUsed
	if unused < 0 {
		unused = 0
	}
	result.ExpiredCompPayCents = expiredCompPay(entries, unused, overtimeRate)
	totalCents += result.ExpiredCompPayCents

	// 步骤三：请假扣款
	result.LeaveDeductionCents = leaveDeduction(leaveHours, overtimeRate)
	totalCents -= result.LeaveDeductionCents

	result.TotalCents = totalCents
	result.Total = RoundHalfUpDiv(totalCents, 100)
	return result, nil
}

// salaryItemPayable 判断薪资项目当月是否发放
// monthly：生效区间内每月发放；once：仅生效日当月发放；
// yearly：目标月份在适用月份列表中才发放。
// 另需满足 生效日 ≤ 当月最后一天，且（无失效日或失效日 ≥ 当月第一天）。
func salaryItemPayable(item models.SalaryItem, year, month int) bool {
	first, last := MonthBounds(year, month)
	if item.EffectiveDate.After(last) {
		return false
	}
	if item.ExpiryDate != nil && item.ExpiryDate.Before(first) {
		return false
	}

	switch item.RecurrenceType {
	case models.RecurrenceMonthly:
		return true
	case models.RecurrenceOnce:
		return item.EffectiveDate.Year() == year && int(item.EffectiveDate.Month()) == month
	case models.RecurrenceYearly:
		for _, m := range item.Months() {
			if m == month {
				return true
			}
		}
		return false
	default:
		// 未知周期不发放
		return false
	}
}

// collectCompEntries 从工时单收集补休产生记录（按工作日期升序）
func collectCompEntries(timesheets []models.Timesheet) ([]compEntry, error) {
	var entries []compEntry
	for _, ts := range timesheets {
		if !validAmount(ts.Hours) {
			continue
		}
		wt, err := WorkTypeByCode(ts.WorkType)
		if err != nil {
			return nil, fmt.Errorf("工时单 %d: %w", ts.ID, err)
		}
		compHours := wt.CompHours(ts.Hours)
		if compHours <= 0 {
			continue
		}
		entries = append(entries, compEntry{
			Date:       ts.WorkDate,
			CompHours:  compHours,
			Multiplier: wt.PayMultiplier,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

// expiredCompPay 按后进先出消耗未使用补休并折算加班费
// 从最近的产生记录开始逐笔消耗，每小时按 加班时薪 × 该笔倍率 计价，
// 每笔分别四舍五入后累计。
func expiredCompPay(entries []compEntry, unusedHours float64, overtimeRateCents int64) int64 {
	var payCents int64
	remaining := unusedHours
	for i := len(entries) - 1; i >= 0 && remaining > 0; i-- {
		consumed := entries[i].CompHours
		if consumed > remaining {
			consumed = remaining
		}
		payCents += RoundHalfUp(consumed * entries[i].Multiplier * float64(overtimeRateCents))
		remaining -= consumed
	}
	return payCents
}

// sumLeaveHoursByType 汇总与指定月份有交集的已核准请假时数（按类型）
func sumLeaveHoursByType(leaves []models.LeaveRequest, year, month int) map[string]float64 {
	first, last := MonthBounds(year, month)
	hours := make(map[string]float64)
	for _, l := range leaves {
		if l.Status != models.LeaveStatusApproved {
			continue
		}
		if !l.OverlapsMonth(first, last) {
			continue
		}
		h := l.HoursAmount()
		if !validAmount(h) {
			continue
		}
		hours[l.Type] += h
	}
	return hours
}

// leaveDeduction 计算请假扣款
// 病假 ×0.5、事假 ×1.0、生理假 ×0.5，各项分别无条件舍去到分后加总。
func leaveDeduction(leaveHours map[string]float64, overtimeRateCents int64) int64 {
	rate := float64(overtimeRateCents)
	deduction := FloorCents(leaveHours[models.LeaveTypeSick] * sickLeaveFactor * rate)
	deduction += FloorCents(leaveHours[models.LeaveTypePersonal] * personalLeaveFactor * rate)
	deduction += FloorCents(leaveHours[models.LeaveTypeMenstrual] * menstrualLeaveFactor * rate)
	return deduction
}
