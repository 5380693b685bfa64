package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"accounting/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectAdminUser(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(1, "admin", "x", "管理员", "", true, models.UserStatusActive, 0, nil, time.Now(), time.Now(), nil))
}

func TestReportHandler_HourlyRates(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectAdminUser(mock)
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
		WillReturnRows(sqlmock.NewRows([]string{"client_id", "user_id", "hours"}))
	mock.ExpectQuery("SELECT client_id, user_id, SUM\\(hours\\) AS hours FROM `timesheets`").
		WillReturnRows(sqlmock.NewRows([]string{"client_id", "user_id", "hours"}))
	// 补充员工姓名
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(1, "admin", "x", "管理员", "", true, models.UserStatusActive, 0, nil, time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/reports/hourly-rates", NewReportHandler(testConfig()).HourlyRates)

	req := httptest.NewRequest("GET", "/reports/hourly-rates?month=2024-06", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data []EmployeeRateRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	// 无工时的员工实际时薪为 0
	assert.Equal(t, uint(1), resp.Data[0].UserID)
	assert.Equal(t, float64(0), resp.Data[0].HourlyRate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_HourlyRates_NotAdmin(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(2, "chen", "x", "陈小姐", "", false, models.UserStatusActive, 0, nil, time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(2))
	router.GET("/reports/hourly-rates", NewReportHandler(testConfig()).HourlyRates)

	req := httptest.NewRequest("GET", "/reports/hourly-rates?month=2024-06", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_InvalidMonth(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectAdminUser(mock)

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/reports/revenue-distribution", NewReportHandler(testConfig()).RevenueDistribution)

	req := httptest.NewRequest("GET", "/reports/revenue-distribution?month=2024-13", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_LaborCost_SelfOnly(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 普通员工查询本人成本，忽略 user_id 参数
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(2, "chen", "x", "陈小姐", "", false, models.UserStatusActive, 42000.0, nil, time.Now(), time.Now(), nil))
	// 计算本人（ID=2）的人力成本：依次载入员工、薪资项目、工时、请假单
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(2, "chen", "x", "陈小姐", "", false, models.UserStatusActive, 42000.0, nil, time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `salary_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type_id", "amount_cents", "recurrence_type", "effective_date"}))
	mock.ExpectQuery("SELECT .* FROM `timesheets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "client_id", "work_date", "work_type", "hours"}))
	mock.ExpectQuery("SELECT .* FROM `leave_requests`").
		WillReturnRows(leaveRows())

	router := gin.New()
	router.Use(setUserIDMiddleware(2))
	router.GET("/reports/labor-cost", NewReportHandler(testConfig()).LaborCost)

	req := httptest.NewRequest("GET", "/reports/labor-cost?month=2024-06&user_id=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data struct {
			UserID          uint  `json:"user_id"`
			BaseSalaryCents int64 `json:"base_salary_cents"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(2), resp.Data.UserID)
	assert.Equal(t, int64(4200000), resp.Data.BaseSalaryCents)
	require.NoError(t, mock.ExpectationsWereMet())
}
