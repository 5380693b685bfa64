package api

import (
	"strconv"
	"time"

	"accounting/database"
	"accounting/models"

	"github.com/gin-gonic/gin"
)

// UserHandler 员工处理器
type UserHandler struct{}

// NewUserHandler 创建员工处理器
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// UpdateUserRequest 更新员工请求
type UpdateUserRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email" binding:"omitempty,email"`
	Status     string   `json:"status" binding:"omitempty,oneof=locked active"`
	IsAdmin    *bool    `json:"is_admin"`
	BaseSalary *float64 `json:"base_salary" binding:"omitempty,gte=0"`
	HireDate   string   `json:"hire_date"`
}

// Profile 获取当前员工信息
// @Summary 获取当前员工信息
// @Description 获取登录员工的个人资料
// @Tags 员工
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "未登录")
		return
	}
	Success(c, user)
}

// List 获取员工列表
// @Summary 获取员工列表
// @Description 管理员分页获取员工账号
// @Tags 员工
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param status query string false "状态筛选 locked/active"
// @Success 200 {object} Response{data=PageResponse{list=[]models.User}} "获取成功"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
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

	query := database.DB.Model(&models.User{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("id").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询员工失败"))
		return
	}

	Success(c, PageResponse{Total: total, Page: page, PageSize: pageSize, List: users})
}

// Update 更新员工
// @Summary 更新员工
// @Description 管理员维护员工资料，含启用账号、设定基本薪资与到职日
// @Tags 员工
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "员工ID"
// @Param request body UpdateUserRequest true "更新信息"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 403 {object} Response "无权限"
// @Failure 404 {object} Response "员工不存在"
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	id := c.Param("id")
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		NotFound(c, "员工不存在")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.BaseSalary != nil {
		user.BaseSalary = *req.BaseSalary
	}
	if req.HireDate != "" {
		hireDate, err := time.ParseInLocation("2006-01-02", req.HireDate, time.Local)
		if err != nil {
			BadRequest(c, "到职日格式错误，应为: 2006-01-02")
			return
		}
		user.HireDate = &hireDate
	}

	if err := database.DB.Save(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新员工失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", user)
}

// Delete 删除员工（软删除）
// @Summary 删除员工
// @Description 管理员软删除离职员工账号，历史工时与成本记录保留
// @Tags 员工
// @Produce json
// @Security BearerAuth
// @Param id path int true "员工ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "不能删除自己"
// @Failure 403 {object} Response "无权限"
// @Failure 404 {object} Response "员工不存在"
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id := c.Param("id")
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		NotFound(c, "员工不存在")
		return
	}
	if user.ID == admin.ID {
		BadRequest(c, "不能删除自己")
		return
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除员工失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
