package api

import (
	"strconv"
	"time"

	"accounting/costing"
	"accounting/database"
	"accounting/models"

	"github.com/gin-gonic/gin"
)

// SalaryItemHandler 薪资项目处理器
type SalaryItemHandler struct{}

// NewSalaryItemHandler 创建薪资项目处理器
func NewSalaryItemHandler() *SalaryItemHandler {
	return &SalaryItemHandler{}
}

// CreateSalaryItemRequest 创建薪资项目请求
type CreateSalaryItemRequest struct {
	UserID          uint    `json:"user_id" binding:"required" example:"2"`
	TypeID          uint    `json:"type_id" binding:"required" example:"1"`
	Amount          float64 `json:"amount" binding:"required" example:"2000"`
	RecurrenceType  string  `json:"recurrence_type" binding:"omitempty,oneof=monthly once yearly" example:"monthly"`
	RecurringMonths string  `json:"recurring_months" example:"2,8"`
	EffectiveDate   string  `json:"effective_date" binding:"required" example:"2024-01-01"`
	ExpiryDate      string  `json:"expiry_date" example:"2024-12-31"`
}

// UpdateSalaryItemRequest 更新薪资项目请求
type UpdateSalaryItemRequest struct {
	Amount     *float64 `json:"amount"`
	ExpiryDate string   `json:"expiry_date"`
}

// ListTypes 获取薪资项目类型列表
// @Summary 获取薪资项目类型列表
// @Description 获取系统预置的薪资项目类型字典
// @Tags 薪资项目
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.SalaryItemType} "获取成功"
// @Router /api/v1/salary-items/types [get]
func (h *SalaryItemHandler) ListTypes(c *gin.Context) {
	var types []models.SalaryItemType
	if err := database.DB.Order("id").Find(&types).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询薪资项目类型失败"))
		return
	}
	Success(c, types)
}

// Create 创建薪资项目
// @Summary 创建薪资项目
// @Description 管理员为员工新增津贴、奖金或扣款项目，金额以元为单位，入库转换为分
// @Tags 薪资项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSalaryItemRequest true "薪资项目信息"
// @Success 200 {object} Response{data=models.SalaryItem} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/salary-items [post]
func (h *SalaryItemHandler) Create(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var req CreateSalaryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, req.UserID).Error; err != nil {
		BadRequest(c, "员工不存在")
		return
	}
	var itemType models.SalaryItemType
	if err := database.DB.First(&itemType, req.TypeID).Error; err != nil {
		BadRequest(c, "薪资项目类型不存在")
		return
	}

	effectiveDate, err := time.ParseInLocation("2006-01-02", req.EffectiveDate, time.Local)
	if err != nil {
		BadRequest(c, "生效日期格式错误，应为: 2006-01-02")
		return
	}

	recurrence := req.RecurrenceType
	if recurrence == "" {
		recurrence = models.RecurrenceMonthly
	}

	item := models.SalaryItem{
		UserID:          req.UserID,
		TypeID:          req.TypeID,
		AmountCents:     costing.ToCents(req.Amount),
		RecurrenceType:  recurrence,
		RecurringMonths: req.RecurringMonths,
		EffectiveDate:   effectiveDate,
	}
	if req.ExpiryDate != "" {
		expiry, err := time.ParseInLocation("2006-01-02", req.ExpiryDate, time.Local)
		if err != nil {
			BadRequest(c, "失效日期格式错误，应为: 2006-01-02")
			return
		}
		if expiry.Before(effectiveDate) {
			BadRequest(c, "失效日期不能早于生效日期")
			return
		}
		item.ExpiryDate = &expiry
	}
	if recurrence == models.RecurrenceYearly && len(item.Months()) == 0 {
		BadRequest(c, "每年发放的项目需指定适用月份，如: 2,8")
		return
	}

	if err := database.DB.Create(&item).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建薪资项目失败"))
		return
	}
	database.DB.Preload("Type").First(&item, item.ID)

	SuccessWithMessage(c, "创建成功", item)
}

// List 获取薪资项目列表
// @Summary 获取薪资项目列表
// @Description 分页获取薪资项目，普通员工只能查看本人项目
// @Tags 薪资项目
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param user_id query int false "员工ID（仅管理员可用）"
// @Success 200 {object} Response{data=PageResponse{list=[]models.SalaryItem}} "获取成功"
// @Router /api/v1/salary-items [get]
func (h *SalaryItemHandler) List(c *gin.Context) {
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

	query := database.DB.Model(&models.SalaryItem{})
	if currentUser.IsAdmin {
		if uid := c.Query("user_id"); uid != "" {
			query = query.Where("user_id = ?", uid)
		}
	} else {
		query = query.Where("user_id = ?", currentUser.ID)
	}

	var total int64
	query.Count(&total)

	var items []models.SalaryItem
	if err := query.Preload("Type").Order("effective_date DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询薪资项目失败"))
		return
	}

	Success(c, PageResponse{Total: total, Page: page, PageSize: pageSize, List: items})
}

// Update 更新薪资项目
// @Summary 更新薪资项目
// @Description 管理员调整薪资项目金额或失效日期
// @Tags 薪资项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "薪资项目ID"
// @Param request body UpdateSalaryItemRequest true "更新信息"
// @Success 200 {object} Response{data=models.SalaryItem} "更新成功"
// @Failure 403 {object} Response "无权限"
// @Failure 404 {object} Response "薪资项目不存在"
// @Router /api/v1/salary-items/{id} [put]
func (h *SalaryItemHandler) Update(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	id := c.Param("id")
	var item models.SalaryItem
	if err := database.DB.First(&item, id).Error; err != nil {
		NotFound(c, "薪资项目不存在")
		return
	}

	var req UpdateSalaryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Amount != nil {
		item.AmountCents = costing.ToCents(*req.Amount)
	}
	if req.ExpiryDate != "" {
		expiry, err := time.ParseInLocation("2006-01-02", req.ExpiryDate, time.Local)
		if err != nil {
			BadRequest(c, "失效日期格式错误，应为: 2006-01-02")
			return
		}
		item.ExpiryDate = &expiry
	}

	if err := database.DB.Save(&item).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新薪资项目失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", item)
}

// Delete 删除薪资项目（软删除）
// @Summary 删除薪资项目
// @Description 管理员软删除薪资项目，后续月份不再发放
// @Tags 薪资项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "薪资项目ID"
// @Success 200 {object} Response "删除成功"
// @Failure 403 {object} Response "无权限"
// @Failure 404 {object} Response "薪资项目不存在"
// @Router /api/v1/salary-items/{id} [delete]
func (h *SalaryItemHandler) Delete(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	id := c.Param("id")
	var item models.SalaryItem
	if err := database.DB.First(&item, id).Error; err != nil {
		NotFound(c, "薪资项目不存在")
		return
	}

	if err := database.DB.Delete(&item).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除薪资项目失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
