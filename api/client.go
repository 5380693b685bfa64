package api

import (
	"strconv"

	"accounting/database"
	"accounting/models"

	"github.com/gin-gonic/gin"
)

// ClientHandler 客户处理器
type ClientHandler struct{}

// NewClientHandler 创建客户处理器
func NewClientHandler() *ClientHandler {
	return &ClientHandler{}
}

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"宏达贸易有限公司"`
	TaxID       string `json:"tax_id" example:"24536711"`
	ContactName string `json:"contact_name" example:"林会计"`
	Phone       string `json:"phone" example:"02-23456789"`
	Email       string `json:"email" binding:"omitempty,email" example:"acct@example.com"`
}

// UpdateClientRequest 更新客户请求
type UpdateClientRequest struct {
	Name        string `json:"name" binding:"omitempty,max=100"`
	TaxID       string `json:"tax_id"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	IsActive    *bool  `json:"is_active"`
}

// CreateTaskRequest 创建客户任务请求
type CreateTaskRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"年度营所税申报"`
}

// Create 创建客户
// @Summary 创建客户
// @Description 新增事务所服务的客户公司
// @Tags 客户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateClientRequest true "客户信息"
// @Success 200 {object} Response{data=models.Client} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	client := models.Client{
		Name:        req.Name,
		TaxID:       req.TaxID,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		IsActive:    true,
	}
	if err := database.DB.Create(&client).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建客户失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", client)
}

// List 获取客户列表
// @Summary 获取客户列表
// @Description 分页获取客户，支持按名称或统编模糊搜索
// @Tags 客户
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param keyword query string false "名称或统编关键字"
// @Param is_active query bool false "是否启用"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Client}} "获取成功"
// @Router /api/v1/clients [get]
func (h *ClientHandler) List(c *gin.Context) {
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

	query := database.DB.Model(&models.Client{})
	if keyword := c.Query("keyword"); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR tax_id LIKE ?", like, like)
	}
	if isActive := c.Query("is_active"); isActive != "" {
		query = query.Where("is_active = ?", isActive == "true")
	}

	var total int64
	query.Count(&total)

	var clients []models.Client
	if err := query.Order("id").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&clients).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询客户失败"))
		return
	}

	Success(c, PageResponse{Total: total, Page: page, PageSize: pageSize, List: clients})
}

// Update 更新客户
// @Summary 更新客户
// @Description 更新客户资料，停用客户请传 is_active=false
// @Tags 客户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "客户ID"
// @Param request body UpdateClientRequest true "更新信息"
// @Success 200 {object} Response{data=models.Client} "更新成功"
// @Failure 404 {object} Response "客户不存在"
// @Router /api/v1/clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		NotFound(c, "客户不存在")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Name != "" {
		client.Name = req.Name
	}
	if req.TaxID != "" {
		client.TaxID = req.TaxID
	}
	if req.ContactName != "" {
		client.ContactName = req.ContactName
	}
	if req.Phone != "" {
		client.Phone = req.Phone
	}
	if req.Email != "" {
		client.Email = req.Email
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&client).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新客户失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", client)
}

// Delete 删除客户（软删除）
// @Summary 删除客户
// @Description 软删除客户，其工时与收款记录保留
// @Tags 客户
// @Produce json
// @Security BearerAuth
// @Param id path int true "客户ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "客户不存在"
// @Router /api/v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		NotFound(c, "客户不存在")
		return
	}

	if err := database.DB.Delete(&client).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除客户失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// CreateTask 创建客户任务
// @Summary 创建客户任务
// @Description 为客户新增工时可挂靠的任务
// @Tags 客户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "客户ID"
// @Param request body CreateTaskRequest true "任务信息"
// @Success 200 {object} Response{data=models.Task} "创建成功"
// @Failure 404 {object} Response "客户不存在"
// @Router /api/v1/clients/{id}/tasks [post]
func (h *ClientHandler) CreateTask(c *gin.Context) {
	id := c.Param("id")

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		NotFound(c, "客户不存在")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	task := models.Task{
		ClientID: client.ID,
		Name:     req.Name,
	}
	if err := database.DB.Create(&task).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建任务失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", task)
}

// ListTasks 获取客户任务列表
// @Summary 获取客户任务列表
// @Description 获取指定客户下的全部任务
// @Tags 客户
// @Produce json
// @Security BearerAuth
// @Param id path int true "客户ID"
// @Success 200 {object} Response{data=[]models.Task} "获取成功"
// @Failure 404 {object} Response "客户不存在"
// @Router /api/v1/clients/{id}/tasks [get]
func (h *ClientHandler) ListTasks(c *gin.Context) {
	id := c.Param("id")

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		NotFound(c, "客户不存在")
		return
	}

	var tasks []models.Task
	if err := database.DB.Where("client_id = ?", client.ID).Order("id").Find(&tasks).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询任务失败"))
		return
	}

	Success(c, tasks)
}
