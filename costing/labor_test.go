package costing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accounting/models"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestSalaryItemPayable(t *testing.T) {
	tests := []struct {
		name string
		item models.SalaryItem
		want bool
	}{
		{
			name: "monthly 生效区间内发放",
			item: models.SalaryItem{RecurrenceType: models.RecurrenceMonthly, EffectiveDate: date(2024, 1, 1)},
			want: true,
		},
		{
			name: "monthly 生效日在目标月之后不发放",
			item: models.SalaryItem{RecurrenceType: models.RecurrenceMonthly, EffectiveDate: date(2024, 7, 1)},
			want: false,
		},
		{
			name: "monthly 生效日在目标月内发放",
			item: models.SalaryItem{RecurrenceType: models.RecurrenceMonthly, EffectiveDate: date(2024, 6, 15)},
			want: true,
		},
		{
			name: "monthly 失效日早于目标月不发放",
			item: models.SalaryItem{
				RecurrenceType: models.RecurrenceMonthly,
				EffectiveDate:  date(2024, 1, 1),
				ExpiryDate:     timePtr(date(2024, 5, 31)),
			},
			want: false,
		},
		{
			name: "monthly 失效日在目标月内仍发放",
			item: models.SalaryItem{
				RecurrenceType: models.RecurrenceMonthly,
				EffectiveDate:  date(2024, 1, 1),
				ExpiryDate:     timePtr(date(2024, 6, 10)),
			},
			want: true,
		},
		{
			name: "once 仅生效当月发放",
			item: models.SalaryItem{RecurrenceType: models.RecurrenceOnce, EffectiveDate: date(2024, 6, 10)},
			want: true,
		},
		{
			name: "once 其他月份不发放",
			item: models.SalaryItem{RecurrenceType: models.RecurrenceOnce, EffectiveDate: date(2024, 5, 10)},
			want: false,
		},
		{
			name: "yearly 目标月份在适用列表内发放",
			item: models.SalaryItem{
				RecurrenceType:  models.RecurrenceYearly,
				RecurringMonths: "2,6,8",
				EffectiveDate:   date(2023, 1, 1),
			},
			want: true,
		},
		{
			name: "yearly 目标月份不在适用列表内不发放",
			item: models.SalaryItem{
				RecurrenceType:  models.RecurrenceYearly,
				RecurringMonths: "2,8",
				EffectiveDate:   date(2023, 1, 1),
			},
			want: false,
		},
		{
			name: "未知周期不发放",
			item: models.SalaryItem{RecurrenceType: "weekly", EffectiveDate: date(2024, 1, 1)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, salaryItemPayable(tt.item, 2024, 6))
		})
	}
}

func TestExpiredCompPay_LIFO(t *testing.T) {
	rate := int64(20000) // 加班时薪 200 元

	entries := []compEntry{
		{Date: date(2024, 6, 5), CompHours: 2, Multiplier: 1.34},
		{Date: date(2024, 6, 20), CompHours: 3, Multiplier: 1.67},
	}

	// 未使用 4 小时：先消耗最近一笔 3 小时（1.67），再消耗较早一笔 1 小时（1.34）
	got := expiredCompPay(entries, 4, rate)
	want := RoundHalfUp(3*1.67*float64(rate)) + RoundHalfUp(1*1.34*float64(rate))
	assert.Equal(t, want, got)

	// 顺序敏感：若两笔日期对调，结果必须不同
	swapped := []compEntry{
		{Date: date(2024, 6, 5), CompHours: 3, Multiplier: 1.67},
		{Date: date(2024, 6, 20), CompHours: 2, Multiplier: 1.34},
	}
	gotSwapped := expiredCompPay(swapped, 4, rate)
	wantSwapped := RoundHalfUp(2*1.34*float64(rate)) + RoundHalfUp(2*1.67*float64(rate))
	assert.Equal(t, wantSwapped, gotSwapped)
	assert.NotEqual(t, got, gotSwapped)
}

func TestExpiredCompPay_Exhaustion(t *testing.T) {
	rate := int64(20000)
	entries := []compEntry{
		{Date: date(2024, 6, 5), CompHours: 2, Multiplier: 1.34},
	}

	// 未使用时数为零：无折算
	assert.Equal(t, int64(0), expiredCompPay(entries, 0, rate))

	// 未使用时数超过产生总量：只按产生量折算
	assert.Equal(t, RoundHalfUp(2*1.34*float64(rate)), expiredCompPay(entries, 10, rate))
}

func TestLeaveDeduction_IndependentFloor(t *testing.T) {
	// 病假 8 小时 + 事假 8 小时，时薪 200 分：
	// floor(8×0.5×200) + floor(8×1×200) = 800 + 1600 = 2400
	hours := map[string]float64{
		models.LeaveTypeSick:     8,
		models.LeaveTypePersonal: 8,
	}
	assert.Equal(t, int64(2400), leaveDeduction(hours, 200))

	// 各项分别舍去：时薪 333 分，病假 1.5h、事假 2.5h、生理假 1.5h
	// 249.75→249、832.5→832、249.75→249，合计 1330（整体舍去会是 1332）
	hours = map[string]float64{
		models.LeaveTypeSick:      1.5,
		models.LeaveTypePersonal:  2.5,
		models.LeaveTypeMenstrual: 1.5,
	}
	assert.Equal(t, int64(1330), leaveDeduction(hours, 333))
}

func TestComputeLaborCost_FullPipeline(t *testing.T) {
	user := models.User{ID: 1, BaseSalary: 48000} // 4800000 分，加班时薪 20000 分

	fullType := models.SalaryItemType{ID: 1, Code: "FULL_ATTENDANCE", Name: "全勤奖金", Category: models.SalaryCategoryBonus}
	mealType := models.SalaryItemType{ID: 2, Code: "MEAL", Name: "伙食津贴", Category: models.SalaryCategoryRegularAllowance}
	dedType := models.SalaryItemType{ID: 3, Code: "INSURANCE", Name: "劳保自付额", Category: models.SalaryCategoryDeduction}

	items := []models.SalaryItem{
		{ID: 1, UserID: 1, AmountCents: 100000, RecurrenceType: models.RecurrenceMonthly, EffectiveDate: date(2024, 1, 1), Type: fullType},
		{ID: 2, UserID: 1, AmountCents: 240000, RecurrenceType: models.RecurrenceMonthly, EffectiveDate: date(2024, 1, 1), Type: mealType},
		// 扣款项目不参与加项
		{ID: 3, UserID: 1, AmountCents: 50000, RecurrenceType: models.RecurrenceMonthly, EffectiveDate: date(2024, 1, 1), Type: dedType},
	}

	timesheets := []models.Timesheet{
		{ID: 1, UserID: 1, ClientID: 10, WorkDate: date(2024, 6, 3), WorkType: 1, Hours: 8},
		{ID: 2, UserID: 1, ClientID: 10, WorkDate: date(2024, 6, 10), WorkType: 2, Hours: 2}, // 补休 2.68h @1.34
	}

	got, err := computeLaborCost(user, items, timesheets, nil, 2024, 6)
	require.NoError(t, err)

	assert.Equal(t, int64(4800000), got.BaseSalaryCents)
	assert.Equal(t, int64(20000), got.OvertimeHourlyRateCents)
	// 无病假事假：全勤奖金 + 伙食津贴
	assert.Equal(t, int64(340000), got.SalaryItemCents)
	assert.InDelta(t, 2.68, got.CompHoursGenerated, 1e-9)
	// 未使用补休全数折算：round(2.68×1.34×20000)
	wantComp := RoundHalfUp(2.68 * 1.34 * 20000)
	assert.Equal(t, wantComp, got.ExpiredCompPayCents)
	assert.Equal(t, int64(0), got.LeaveDeductionCents)
	assert.Equal(t, 4800000+340000+wantComp, got.TotalCents)
	assert.Equal(t, RoundHalfUpDiv(got.TotalCents, 100), got.Total)
}

func TestComputeLaborCost_FullAttendanceBlockedByLeave(t *testing.T) {
	user := models.User{ID: 1, BaseSalary: 48000}
	fullType := models.SalaryItemType{ID: 1, Code: "FULL_ATTENDANCE", Name: "全勤奖金", Category: models.SalaryCategoryBonus}
	items := []models.SalaryItem{
		{ID: 1, UserID: 1, AmountCents: 100000, RecurrenceType: models.RecurrenceMonthly, EffectiveDate: date(2024, 1, 1), Type: fullType},
	}
	leaves := []models.LeaveRequest{
		{ID: 1, UserID: 1, Type: models.LeaveTypeSick, Status: models.LeaveStatusApproved,
			StartDate: date(2024, 6, 12), EndDate: date(2024, 6, 12), Amount: 4, Unit: models.LeaveUnitHours},
	}

	got, err := computeLaborCost(user, items, nil, leaves, 2024, 6)
	require.NoError(t, err)

	// 当月有已核准病假：全勤奖金不发放，且病假扣半薪
	assert.Equal(t, int64(0), got.SalaryItemCents)
	assert.Equal(t, FloorCents(4*0.5*20000), got.LeaveDeductionCents)

	// 未核准的请假不影响全勤
	leaves[0].Status = models.LeaveStatusPending
	got, err = computeLaborCost(user, items, nil, leaves, 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), got.SalaryItemCents)
	assert.Equal(t, int64(0), got.LeaveDeductionCents)
}

func TestComputeLaborCost_CompUsageOffset(t *testing.T) {
	user := models.User{ID: 1, BaseSalary: 48000}

	timesheets := []models.Timesheet{
		{ID: 1, UserID: 1, ClientID: 10, WorkDate: date(2024, 6, 5), WorkType: 7, Hours: 8}, // 固定 8h 补休 @2.0
	}
	leaves := []models.LeaveRequest{
		// 补休假 1 天 = 8 小时，恰好抵掉产生量
		{ID: 1, UserID: 1, Type: models.LeaveTypeCompensatory, Status: models.LeaveStatusApproved,
			StartDate: date(2024, 6, 20), EndDate: date(2024, 6, 20), Amount: 1, Unit: models.LeaveUnitDays},
	}

	got, err := computeLaborCost(user, nil, timesheets, leaves, 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.CompHoursGenerated)
	assert.Equal(t, 8.0, got.CompHoursUsed)
	assert.Equal(t, int64(0), got.ExpiredCompPayCents)
	assert.Equal(t, int64(4800000), got.TotalCents)
}

func TestComputeLaborCost_UnknownWorkType(t *testing.T) {
	user := models.User{ID: 1, BaseSalary: 48000}
	timesheets := []models.Timesheet{
		{ID: 1, UserID: 1, ClientID: 10, WorkDate: date(2024, 6, 5), WorkType: 99, Hours: 8},
	}

	_, err := computeLaborCost(user, nil, timesheets, nil, 2024, 6)
	assert.Error(t, err)
}

func TestSumLeaveHoursByType(t *testing.T) {
	leaves := []models.LeaveRequest{
		// 跨月请假与 6 月有交集即计入
		{Type: models.LeaveTypeSick, Status: models.LeaveStatusApproved,
			StartDate: date(2024, 5, 30), EndDate: date(2024, 6, 2), Amount: 2, Unit: models.LeaveUnitDays},
		// 与 6 月无交集不计入
		{Type: models.LeaveTypeSick, Status: models.LeaveStatusApproved,
			StartDate: date(2024, 7, 1), EndDate: date(2024, 7, 1), Amount: 8, Unit: models.LeaveUnitHours},
		// 驳回不计入
		{Type: models.LeaveTypePersonal, Status: models.LeaveStatusRejected,
			StartDate: date(2024, 6, 5), EndDate: date(2024, 6, 5), Amount: 8, Unit: models.LeaveUnitHours},
	}

	hours := sumLeaveHoursByType(leaves, 2024, 6)
	assert.Equal(t, 16.0, hours[models.LeaveTypeSick])
	assert.Equal(t, 0.0, hours[models.LeaveTypePersonal])
}
