package api

import (
	"strconv"
	"time"

	"accounting/database"
	"accounting/middleware"
	"accounting/models"

	"github.com/gin-gonic/gin"
)

// LeaveHandler 请假单处理器
type LeaveHandler struct{}

// NewLeaveHandler 创建请假单处理器
func NewLeaveHandler() *LeaveHandler {
	return &LeaveHandler{}
}

// CreateLeaveRequest 创建请假单请求
type CreateLeaveRequest struct {
	Type      string  `json:"type" binding:"required,oneof=sick personal menstrual compensatory annual other" example:"sick"`
	StartDate string  `json:"start_date" binding:"required" example:"2024-06-10"`
	EndDate   string  `json:"end_date" binding:"required" example:"2024-06-10"`
	Amount    float64 `json:"amount" binding:"required,gt=0" example:"1"`
	Unit      string  `json:"unit" binding:"omitempty,oneof=hours days" example:"days"`
	Reason    string  `json:"reason" example:"感冒就医"`
}

// ApproveLeaveRequest 审批请假单请求
type ApproveLeaveRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected" example:"approved"`
}

// Create 创建请假单
// @Summary 创建请假单
// @Description 员工提交请假申请，初始状态为 pending，需管理员审批后方计入成本
// @Tags 请假
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLeaveRequest true "请假信息"
// @Success 200 {object} Response{data=models.LeaveRequest} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return
	}
	if endDate.Before(startDate) {
		BadRequest(c, "结束日期不能早于开始日期")
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = models.LeaveUnitHours
	}

	leave := models.LeaveRequest{
		UserID:    userID,
		Type:      req.Type,
		Status:    models.LeaveStatusPending,
		StartDate: startDate,
		EndDate:   endDate,
		Amount:    req.Amount,
		Unit:      unit,
		Reason:    req.Reason,
	}
	if err := database.DB.Create(&leave).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建请假单失败"))
		return
	}

	SuccessWithMessage(c, "提交成功，请等待审批", leave)
}

// List 获取请假单列表
// @Summary 获取请假单列表
// @Description 分页获取本人请假单；管理员可传 user_id 或 status 查询
// @Tags 请假
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param status query string false "状态筛选"
// @Param user_id query int false "员工ID（仅管理员可用）"
// @Success 200 {object} Response{data=PageResponse{list=[]models.LeaveRequest}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
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

	query := database.DB.Model(&models.LeaveRequest{})
	if currentUser.IsAdmin {
		if uid := c.Query("user_id"); uid != "" {
			query = query.Where("user_id = ?", uid)
		}
	} else {
		query = query.Where("user_id = ?", currentUser.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var leaves []models.LeaveRequest
	if err := query.Order("start_date DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&leaves).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询请假单失败"))
		return
	}

	Success(c, PageResponse{Total: total, Page: page, PageSize: pageSize, List: leaves})
}

// Approve 审批请假单
// @Summary 审批请假单
// @Description 管理员批准或驳回请假申请，仅 pending 状态可审批
// @Tags 请假
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "请假单ID"
// @Param request body ApproveLeaveRequest true "审批结果"
// @Success 200 {object} Response{data=models.LeaveRequest} "审批成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权限"
// @Failure 404 {object} Response "请假单不存在"
// @Router /api/v1/leaves/{id}/approve [put]
func (h *LeaveHandler) Approve(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	id := c.Param("id")
	var leave models.LeaveRequest
	if err := database.DB.First(&leave, id).Error; err != nil {
		NotFound(c, "请假单不存在")
		return
	}
	if leave.Status != models.LeaveStatusPending {
		BadRequest(c, "该请假单已审批，不可重复操作")
		return
	}

	var req ApproveLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	leave.Status = req.Status
	if err := database.DB.Save(&leave).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "审批失败"))
		return
	}

	SuccessWithMessage(c, "审批完成", leave)
}

// Delete 撤回请假单
// @Summary 撤回请假单
// @Description 员工撤回本人尚未审批的请假申请
// @Tags 请假
// @Produce json
// @Security BearerAuth
// @Param id path int true "请假单ID"
// @Success 200 {object} Response "撤回成功"
// @Failure 400 {object} Response "已审批的请假单不可撤回"
// @Failure 404 {object} Response "请假单不存在"
// @Router /api/v1/leaves/{id} [delete]
func (h *LeaveHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id := c.Param("id")

	var leave models.LeaveRequest
	if err := database.DB.Where("user_id = ?", userID).First(&leave, id).Error; err != nil {
		NotFound(c, "请假单不存在")
		return
	}
	if leave.Status != models.LeaveStatusPending {
		BadRequest(c, "已审批的请假单不可撤回")
		return
	}

	if err := database.DB.Delete(&leave).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "撤回失败"))
		return
	}

	SuccessWithMessage(c, "撤回成功", nil)
}
