package api

import (
	"strconv"
	"time"

	"accounting/costing"
	"accounting/database"
	"accounting/middleware"
	"accounting/models"

	"github.com/gin-gonic/gin"
)

// TimesheetHandler 工时记录处理器
type TimesheetHandler struct{}

// NewTimesheetHandler 创建工时记录处理器
func NewTimesheetHandler() *TimesheetHandler {
	return &TimesheetHandler{}
}

// CreateTimesheetRequest 创建工时记录请求
type CreateTimesheetRequest struct {
	ClientID uint    `json:"client_id" binding:"required" example:"1"`
	TaskID   *uint   `json:"task_id" example:"3"`
	WorkDate string  `json:"work_date" binding:"required" example:"2024-06-03"`
	WorkType int     `json:"work_type" binding:"required" example:"1"`
	Hours    float64 `json:"hours" binding:"required,gt=0" example:"8"`
	Note     string  `json:"note" example:"五月营业税申报"`
}

// UpdateTimesheetRequest 更新工时记录请求
type UpdateTimesheetRequest struct {
	WorkType int     `json:"work_type" example:"2"`
	Hours    float64 `json:"hours" binding:"omitempty,gt=0" example:"2"`
	Note     string  `json:"note"`
}

// Create 创建工时记录
// @Summary 创建工时记录
// @Description 为当前员工填报一笔客户工时，工作类型代码为 1~12
// @Tags 工时
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTimesheetRequest true "工时信息"
// @Success 200 {object} Response{data=models.Timesheet} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/timesheets [post]
func (h *TimesheetHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 工作类型为封闭集合，未知代码直接拒绝
	if _, err := costing.WorkTypeByCode(req.WorkType); err != nil {
		BadRequest(c, err.Error())
		return
	}

	workDate, err := time.ParseInLocation("2006-01-02", req.WorkDate, time.Local)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	var client models.Client
	if err := database.DB.First(&client, req.ClientID).Error; err != nil {
		BadRequest(c, "客户不存在")
		return
	}
	if req.TaskID != nil {
		var task models.Task
		if err := database.DB.Where("client_id = ?", req.ClientID).First(&task, *req.TaskID).Error; err != nil {
			BadRequest(c, "任务不存在或不属于该客户")
			return
		}
	}

	ts := models.Timesheet{
		UserID:   userID,
		ClientID: req.ClientID,
		TaskID:   req.TaskID,
		WorkDate: workDate,
		WorkType: req.WorkType,
		Hours:    req.Hours,
		Note:     req.Note,
	}
	if err := database.DB.Create(&ts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建工时记录失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", ts)
}

// List 获取工时记录列表
// @Summary 获取工时记录列表
// @Description 分页获取当前员工的工时记录；管理员可传 user_id 查询他人
// @Tags 工时
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param month query string false "月份筛选 (2024-06)"
// @Param client_id query int false "客户ID"
// @Param user_id query int false "员工ID（仅管理员可用）"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Timesheet}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/timesheets [get]
func (h *TimesheetHandler) List(c *gin.Context) {
	currentUser, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "未登录")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	targetUserID := currentUser.ID
	if currentUser.IsAdmin {
		if uid := c.Query("user_id"); uid != "" {
			if parsed, err := strconv.ParseUint(uid, 10, 32); err == nil {
				targetUserID = uint(parsed)
			}
		}
	}

	query := database.DB.Model(&models.Timesheet{}).Where("user_id = ?", targetUserID)
	if month := c.Query("month"); month != "" {
		year, m, err := costing.ParseYearMonth(month)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		first, last := costing.MonthBounds(year, m)
		query = query.Where("work_date >= ? AND work_date <= ?", first, last)
	}
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var total int64
	query.Count(&total)

	var timesheets []models.Timesheet
	if err := query.Order("work_date DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&timesheets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询工时记录失败"))
		return
	}

	Success(c, PageResponse{Total: total, Page: page, PageSize: pageSize, List: timesheets})
}

// Update 更新工时记录
// @Summary 更新工时记录
// @Description 更新本人的工时记录
// @Tags 工时
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "工时记录ID"
// @Param request body UpdateTimesheetRequest true "更新信息"
// @Success 200 {object} Response{data=models.Timesheet} "更新成功"
// @Failure 404 {object} Response "工时记录不存在"
// @Router /api/v1/timesheets/{id} [put]
func (h *TimesheetHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id := c.Param("id")

	var ts models.Timesheet
	if err := database.DB.Where("user_id = ?", userID).First(&ts, id).Error; err != nil {
		NotFound(c, "工时记录不存在")
		return
	}

	var req UpdateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.WorkType != 0 {
		if _, err := costing.WorkTypeByCode(req.WorkType); err != nil {
			BadRequest(c, err.Error())
			return
		}
		ts.WorkType = req.WorkType
	}
	if req.Hours > 0 {
		ts.Hours = req.Hours
	}
	if req.Note != "" {
		ts.Note = req.Note
	}

	if err := database.DB.Save(&ts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新工时记录失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", ts)
}

// Delete 删除工时记录（软删除）
// @Summary 删除工时记录
// @Description 软删除本人的工时记录
// @Tags 工时
// @Produce json
// @Security BearerAuth
// @Param id path int true "工时记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "工时记录不存在"
// @Router /api/v1/timesheets/{id} [delete]
func (h *TimesheetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id := c.Param("id")

	var ts models.Timesheet
	if err := database.DB.Where("user_id = ?", userID).First(&ts, id).Error; err != nil {
		NotFound(c, "工时记录不存在")
		return
	}

	if err := database.DB.Delete(&ts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除工时记录失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
