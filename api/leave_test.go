package api

import (
	"bytes"
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

func leaveRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "type", "status", "start_date", "end_date", "amount", "unit", "created_at", "updated_at", "deleted_at"})
}

func TestLeaveHandler_Approve(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 当前用户为管理员
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(1, "admin", "x", "管理员", "", true, models.UserStatusActive, 0, nil, time.Now(), time.Now(), nil))
	// 待审批的请假单
	mock.ExpectQuery("SELECT .* FROM `leave_requests`").
		WillReturnRows(leaveRows().
			AddRow(5, 2, models.LeaveTypeSick, models.LeaveStatusPending, time.Now(), time.Now(), 1, models.LeaveUnitDays, time.Now(), time.Now(), nil))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `leave_requests`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/leaves/:id/approve", NewLeaveHandler().Approve)

	body := `{"status":"approved"}`
	req := httptest.NewRequest("PUT", "/leaves/5/approve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "审批完成", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveHandler_Approve_NotAdmin(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 普通员工无审批权限
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(2, "chen", "x", "陈小姐", "", false, models.UserStatusActive, 0, nil, time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(2))
	router.PUT("/leaves/:id/approve", NewLeaveHandler().Approve)

	body := `{"status":"approved"}`
	req := httptest.NewRequest("PUT", "/leaves/5/approve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveHandler_Approve_AlreadyApproved(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(1, "admin", "x", "管理员", "", true, models.UserStatusActive, 0, nil, time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `leave_requests`").
		WillReturnRows(leaveRows().
			AddRow(5, 2, models.LeaveTypeSick, models.LeaveStatusApproved, time.Now(), time.Now(), 1, models.LeaveUnitDays, time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/leaves/:id/approve", NewLeaveHandler().Approve)

	body := `{"status":"rejected"}`
	req := httptest.NewRequest("PUT", "/leaves/5/approve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveHandler_Create_EndBeforeStart(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(2))
	router.POST("/leaves", NewLeaveHandler().Create)

	body := `{"type":"sick","start_date":"2024-06-10","end_date":"2024-06-09","amount":1,"unit":"days"}`
	req := httptest.NewRequest("POST", "/leaves", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestLeaveHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `leave_requests`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(2))
	router.POST("/leaves", NewLeaveHandler().Create)

	body := `{"type":"sick","start_date":"2024-06-10","end_date":"2024-06-10","amount":1,"unit":"days","reason":"感冒就医"}`
	req := httptest.NewRequest("POST", "/leaves", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data models.LeaveRequest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.LeaveStatusPending, resp.Data.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
