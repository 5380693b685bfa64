package costing

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"accounting/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() { sqlDB.Close() }
}

func receiptRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "client_id", "amount", "service_month", "service_start_month", "service_end_month", "status"})
}

func hourRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"client_id", "user_id", "hours"})
}

func expectRevenueQueries(mock sqlmock.Sqlmock, spanArgs bool) {
	q := mock.ExpectQuery("SELECT .* FROM `receipts`")
	if spanArgs {
		q.WithArgs(models.ReceiptStatusCancelled, "2024-06", "2024-06", "2024-06").
			WillReturnRows(receiptRows().
				AddRow(1, 10, 3000.0, nil, "2024-05", "2024-07", models.ReceiptStatusPaid).
				AddRow(2, 20, 500.0, "2024-06", nil, nil, models.ReceiptStatusPaid))
	} else {
		q.WithArgs(models.ReceiptStatusCancelled, "2024-06").
			WillReturnRows(receiptRows().
				AddRow(2, 20, 500.0, "2024-06", nil, nil, models.ReceiptStatusPaid))
	}
	mock.ExpectQuery("SELECT client_id, user_id, SUM\\(hours\\) AS hours FROM `timesheets`").
		WillReturnRows(hourRows().
			AddRow(10, 1, 20.0).
			AddRow(20, 1, 5.0).
			AddRow(20, 2, 5.0))
}

func TestMonthlyRevenueDistribution_WithSpanColumns(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectRevenueQueries(mock, true)

	calc := NewCalculator(db, Capabilities{ServiceSpan: true})
	got, err := calc.MonthlyRevenueDistribution("2024-06")
	require.NoError(t, err)

	// 跨月单 3000/3=1000，单月单 500，合计 1500
	assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(1500)), "got %s", got.TotalRevenue)
	assert.True(t, got.ClientRevenue[10].Equal(decimal.NewFromInt(1000)))
	assert.True(t, got.ClientRevenue[20].Equal(decimal.NewFromInt(500)))
	// 员工 1：客户 10 全额 1000 + 客户 20 一半 250
	assert.True(t, got.EmployeeRevenueShare[1].Equal(decimal.NewFromInt(1250)), "got %s", got.EmployeeRevenueShare[1])
	assert.True(t, got.EmployeeRevenueShare[2].Equal(decimal.NewFromInt(250)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyRevenueDistribution_LegacySchemaFallback(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	// 旧版结构：查询只带单月条件（两个参数），跨月单不可见
	expectRevenueQueries(mock, false)

	calc := NewCalculator(db, Capabilities{ServiceSpan: false})
	got, err := calc.MonthlyRevenueDistribution("2024-06")
	require.NoError(t, err)

	assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(500)), "got %s", got.TotalRevenue)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyRevenueDistribution_Idempotent(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectRevenueQueries(mock, true)
	expectRevenueQueries(mock, true)

	calc := NewCalculator(db, Capabilities{ServiceSpan: true})
	first, err := calc.MonthlyRevenueDistribution("2024-06")
	require.NoError(t, err)
	second, err := calc.MonthlyRevenueDistribution("2024-06")
	require.NoError(t, err)

	// 数据未变，两次结果必须逐位一致
	assert.True(t, first.TotalRevenue.Equal(second.TotalRevenue))
	require.Equal(t, len(first.EmployeeRevenueShare), len(second.EmployeeRevenueShare))
	for id, s := range first.EmployeeRevenueShare {
		assert.True(t, s.Equal(second.EmployeeRevenueShare[id]), "员工 %d", id)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyRevenueDistribution_InvalidYearMonth(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	calc := NewCalculator(db, Capabilities{ServiceSpan: true})
	_, err := calc.MonthlyRevenueDistribution("202406")
	assert.Error(t, err)
}

func TestAllEmployeesActualHourlyRate_ZeroHours(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 员工清单
	mock.ExpectQuery("SELECT `id` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	// 当月无间接成本
	mock.ExpectQuery("SELECT .* FROM `monthly_overhead_costs`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "cost_type_id", "year", "month", "amount"}))
	// 在职员工
	mock.ExpectQuery("SELECT `id` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	// 间接成本分摊与时薪计算各查一次工时，均为空
	mock.ExpectQuery("SELECT client_id, user_id, SUM\\(hours\\) AS hours FROM `timesheets`").
		WillReturnRows(hourRows())
	mock.ExpectQuery("SELECT client_id, user_id, SUM\\(hours\\) AS hours FROM `timesheets`").
		WillReturnRows(hourRows())

	calc := NewCalculator(db, Capabilities{ServiceSpan: true})
	rates, err := calc.AllEmployeesActualHourlyRate(2024, 6, "2024-06")
	require.NoError(t, err)

	// 无工时的员工实际时薪为 0，不得出现除零或 NaN
	assert.Equal(t, int64(0), rates[1])
	require.NoError(t, mock.ExpectationsWereMet())
}
